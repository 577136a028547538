package core

import "time"

type Config struct {
	Cognito     CognitoConfig `envPrefix:"COGNITO_"`
	Environment string        `env:"ENVIRONMENT"`
	Otel        OtelConfig    `envPrefix:"OTEL_"`
	Port        int           `env:"PORT"`
	SkipAuth    bool          `env:"SKIP_AUTH"`
	Redis       RedisConfig   `envPrefix:"REDIS_"`
	Forms       FormsConfig   `envPrefix:"FORMS_"`
	Backend     BackendConfig `envPrefix:"BACKEND_"`
}

type OtlpConfig struct {
	Endpoint string `env:"ENDPOINT"`
	Insecure bool   `env:"INSECURE"`
}

type OtelConfig struct {
	OtlpExporter OtlpConfig `envPrefix:"OTLP_EXPORTER_"`
	Disable      bool       `env:"DISABLE"`
}

type CognitoConfig struct {
	Region      string `env:"REGION"`
	UserPoolID  string `env:"USER_POOL_ID"`
	AppClientID string `env:"APP_CLIENT_ID"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
	// Breaker state lives in redis; an empty Addr disables the breaker.
	Disable bool `env:"DISABLE"`
}

type FormsConfig struct {
	// Explicit API base. When set it wins over port based resolution.
	APIBaseURL string `env:"API_BASE_URL"`
	// Port the site is served from in local development. Pages served from
	// it talk to the backend through the same-origin /api path.
	DevPort string `env:"DEV_PORT"`
	// Base used when neither the override nor the dev port apply.
	DefaultAPIBaseURL string        `env:"DEFAULT_API_BASE_URL"`
	SubmitTimeout     time.Duration `env:"SUBMIT_TIMEOUT"`
	Locale            string        `env:"LOCALE"`
	MessagesFile      string        `env:"MESSAGES_FILE"`
	StaticDir         string        `env:"STATIC_DIR"`
}

type BackendConfig struct {
	// Target of the /api/* reverse proxy.
	ProxyURL     string   `env:"PROXY_URL"`
	TokenURL     string   `env:"TOKEN_URL"`
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	Scopes       []string `env:"SCOPES" envSeparator:","`
}
