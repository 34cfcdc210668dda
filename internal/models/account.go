package models

// Account содержимое cookie с данными аккаунта (base64 от JSON).
// Обязательным является только AccessToken.
type Account struct {
	AccessToken        string `json:"accessToken"`
	RefreshToken       string `json:"refreshToken,omitempty"`
	ExpiresAt          int64  `json:"expiresAt,omitempty"`
	DiscordAccessToken string `json:"discordAccessToken,omitempty"`
	User               *User  `json:"user,omitempty"`
}
