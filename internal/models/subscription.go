package models

// SubscriptionStatus статус патрона по данным Patreon.
type SubscriptionStatus string

const (
	// StatusNone: пользователь не является патроном кампании.
	StatusNone SubscriptionStatus = "none"
	// StatusActivePatron: текущая оплаченная подписка.
	StatusActivePatron SubscriptionStatus = "active_patron"
	// StatusDeclinedPatron: последний платеж отклонен.
	StatusDeclinedPatron SubscriptionStatus = "declined_patron"
	// StatusFormerPatron: подписка была, но отменена.
	StatusFormerPatron SubscriptionStatus = "former_patron"
)

// Subscription представляет подписку пользователя.
// Пересчитывается при каждом обращении к провайдеру и не кешируется.
type Subscription struct {
	Status       SubscriptionStatus `json:"status"`
	Tier         string             `json:"tier"`
	IsDelinquent bool               `json:"isDelinquent"`
}

// Active сообщает, открывает ли подписка доступ к закрытому контенту.
func (s *Subscription) Active() bool {
	return s != nil && s.Status == StatusActivePatron
}
