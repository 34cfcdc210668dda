// Package config предоставляет структуры и функции для парсинга и загрузки конфига
// портала. Значения читаются из YAML-файла и могут быть переопределены
// переменными окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	GRPCServer GRPCServer `yaml:"grpc_server"`
	Storage    Storage    `yaml:"storage"`
	Redis      Redis      `yaml:"redis"`
	RabbitMQ   RabbitMQ   `yaml:"rabbitmq"`
	SMTP       SMTP       `yaml:"smtp"`
	Patreon    Patreon    `yaml:"patreon"`
	Discord    Discord    `yaml:"discord"`
	Turnstile  Turnstile  `yaml:"turnstile"`
	Account    Account    `yaml:"account"`
	Search     Search     `yaml:"search"`
	Contact    Contact    `yaml:"contact"`
	Admin      Admin      `yaml:"admin"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
}

// HTTPServer структура для настройки HTTP-сервера.
type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// GRPCServer настройки gRPC-сервера проверки здоровья. Пустой адрес отключает сервер.
type GRPCServer struct {
	Address string `yaml:"address" env:"GRPC_ADDRESS"`
}

// Storage настройки подключения к PostgreSQL.
type Storage struct {
	ConnectionString string `yaml:"connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath   string `yaml:"migrations_path" env-default:"./migrations"`
}

// Redis структура для настройки подключения к redis.
type Redis struct {
	Address     string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env-default:"3s"`
	ContentTTL  time.Duration `yaml:"content_ttl" env-default:"1h"`
}

// RabbitMQ настройки брокера сообщений для заявок с контактной формы.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMTP настройки почтового сервера.
type SMTP struct {
	Host string `yaml:"host" env:"SMTP_HOST"`
	Port string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User string `yaml:"user" env:"SMTP_USER"`
	Pass string `yaml:"pass" env:"SMTP_PASS"`
	From string `yaml:"from" env:"SMTP_FROM"`
	// Insecure разрешает отправку без STARTTLS, только для локального relay.
	Insecure bool `yaml:"insecure"`
}

// Patreon настройки OAuth-клиента Patreon.
type Patreon struct {
	ClientID     string        `yaml:"client_id" env:"PATREON_CLIENT_ID"`
	ClientSecret string        `yaml:"client_secret" env:"PATREON_CLIENT_SECRET"`
	RedirectURI  string        `yaml:"redirect_uri" env:"PATREON_REDIRECT_URI"`
	CampaignID   string        `yaml:"campaign_id" env:"PATREON_CAMPAIGN_ID"`
	BaseURL      string        `yaml:"base_url" env-default:"https://www.patreon.com"`
	Timeout      time.Duration `yaml:"timeout" env-default:"10s"`
	StateSecret  string        `yaml:"state_secret" env:"PATREON_STATE_SECRET"`
	StateTTL     time.Duration `yaml:"state_ttl" env-default:"10m"`
}

// Discord настройки проверки участия в гильдии.
type Discord struct {
	GuildID  string        `yaml:"guild_id" env:"DISCORD_GUILD_ID"`
	BaseURL  string        `yaml:"base_url" env-default:"https://discord.com/api/v10"`
	Timeout  time.Duration `yaml:"timeout" env-default:"10s"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

// Turnstile настройки проверки Cloudflare Turnstile.
type Turnstile struct {
	SecretKey string        `yaml:"secret_key" env:"TURNSTILE_SECRET_KEY"`
	VerifyURL string        `yaml:"verify_url" env-default:"https://challenges.cloudflare.com/turnstile/v0/siteverify"`
	Timeout   time.Duration `yaml:"timeout" env-default:"10s"`
}

// Account настройки cookie с данными аккаунта.
type Account struct {
	CookieName     string        `yaml:"cookie_name" env-default:"awfixer_account"`
	CookieDomain   string        `yaml:"cookie_domain"`
	CookieTTL      time.Duration `yaml:"cookie_ttl" env-default:"720h"`
	Insecure       bool          `yaml:"insecure"` // снимает флаг Secure, только для локальной разработки
	LoginRedirect  string        `yaml:"login_redirect" env-default:"/members"`
	LogoutRedirect string        `yaml:"logout_redirect" env-default:"/"`
}

// Search настройки поискового индекса.
type Search struct {
	IndexSource string        `yaml:"index_source" env:"SEARCH_INDEX_SOURCE"`
	Debounce    time.Duration `yaml:"debounce" env-default:"300ms"`
}

// Contact настройки контактной формы.
type Contact struct {
	Recipients       []string `yaml:"recipients" env:"CONTACT_RECIPIENTS" env-separator:","`
	RequireTurnstile bool     `yaml:"require_turnstile"`
}

// Admin настройки административного API. Хранится только bcrypt-хэш токена.
type Admin struct {
	TokenHash string `yaml:"token_hash" env:"ADMIN_TOKEN_HASH"`
}

// RateLimit настройки ограничения частоты запросов с одного адреса.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"3"`
}

// Load читает конфиг по указанному пути.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if path == "" {
		return nil, fmt.Errorf("%s: config path is empty", op)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.Contact.RequireTurnstile && cfg.Turnstile.SecretKey == "" {
		return nil, fmt.Errorf("%s: contact.require_turnstile needs turnstile.secret_key", op)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг из файла, путь к которому задан в CONFIG_PATH.
// При ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}
