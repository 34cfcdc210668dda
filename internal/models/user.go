// Package models содержит доменные структуры портала: пользователя, сессию,
// подписку, заявку с контактной формы, запись поискового индекса и
// закрытый контент.
package models

// User представляет пользователя, вошедшего через Patreon.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session описывает состояние аутентификации для одного запроса.
// Создается заново на каждый запрос и нигде не сохраняется.
// User == nil означает анонимного посетителя.
type Session struct {
	User         *User         `json:"user"`
	Subscription *Subscription `json:"subscription,omitempty"`
	IsLoading    bool          `json:"isLoading"`
	Error        string        `json:"error,omitempty"`
}

// Authenticated сообщает, есть ли в сессии пользователь.
func (s Session) Authenticated() bool {
	return s.User != nil
}
