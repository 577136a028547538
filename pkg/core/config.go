package core

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultConfigEnvironment = "development"
	defaultConfigPort        = 8080
	defaultSkipAuth          = false

	defaultOtelDisable          = false
	defaultOTLPExporterEndpoint = "localhost:4317"
	defaultOTLPInsecure         = false

	defaultCognitoRegion      = "us-east-1"
	defaultCognitoUserPoolID  = "UNSET"
	defaultCognitoAppClientID = "UNSET"

	defaultRedisAddr     = "localhost:6379"
	defaultRedisPassword = ""
	defaultRedisDB       = 0

	defaultFormsDevPort       = "8000"
	defaultFormsAPIBaseURL    = "http://127.0.0.1:8000/api"
	defaultFormsSubmitTimeout = 15 * time.Second
	defaultFormsLocale        = "ur"
	defaultBackendProxyURL    = "http://127.0.0.1:8000"
	devOriginAPIPath          = "/api"
)

func DefaultConfig() Config {
	return Config{
		Environment: defaultConfigEnvironment,
		Port:        defaultConfigPort,
		SkipAuth:    defaultSkipAuth,
		Otel: OtelConfig{
			Disable: defaultOtelDisable,
			OtlpExporter: OtlpConfig{
				Endpoint: defaultOTLPExporterEndpoint,
				Insecure: defaultOTLPInsecure,
			},
		},
		Cognito: CognitoConfig{
			Region:      defaultCognitoRegion,
			UserPoolID:  defaultCognitoUserPoolID,
			AppClientID: defaultCognitoAppClientID,
		},
		Redis: RedisConfig{
			Addr:     defaultRedisAddr,
			Password: defaultRedisPassword,
			DB:       defaultRedisDB,
		},
		Forms: FormsConfig{
			DevPort:           defaultFormsDevPort,
			DefaultAPIBaseURL: defaultFormsAPIBaseURL,
			SubmitTimeout:     defaultFormsSubmitTimeout,
			Locale:            defaultFormsLocale,
		},
		Backend: BackendConfig{
			ProxyURL: defaultBackendProxyURL,
		},
	}
}

func NewConfig(options ...func(*Config)) Config {
	config := DefaultConfig()
	for _, opt := range options {
		opt(&config)
	}
	return config
}

// NewConfigFromEnv overlays environment variables on DefaultConfig. Unset
// variables keep their defaults.
func NewConfigFromEnv(options ...func(*Config)) (Config, error) {
	config := DefaultConfig()

	var errs error
	if err := env.Parse(&config); err != nil {
		errs = errors.Join(errs, fmt.Errorf("error parsing env: %w", err))
	}

	for _, opt := range options {
		opt(&config)
	}

	return config, errs
}

func LoadEnv(environment ...string) error {
	filenames := []string{
		".env.local",
		".env",
	}

	env := getEnv("ENVIRONMENT", DefaultConfig().Environment)
	if len(environment) > 0 {
		env = environment[0]
	}

	if env != "" {
		file := ".env." + env + ".local"
		filenames = append([]string{file}, filenames...)
	}

	var errs error

	for _, filename := range filenames {
		err := loadEnvFile(filename)
		if err != nil {
			errs = errors.Join(
				errs,
				fmt.Errorf("error loading %s: %w", filename, err),
			)
		}
	}

	return errs
}

// ResolveAPIBase picks the backend API base for a page served on pageOrigin.
// pageOrigin may be nil when there is no hosting page (CLI).
func (c FormsConfig) ResolveAPIBase(pageOrigin *url.URL) string {
	if base := strings.TrimSpace(c.APIBaseURL); base != "" {
		return strings.TrimRight(base, "/")
	}

	if pageOrigin != nil && c.DevPort != "" && pageOrigin.Port() == c.DevPort {
		origin := url.URL{Scheme: pageOrigin.Scheme, Host: pageOrigin.Host}
		return origin.String() + devOriginAPIPath
	}

	return strings.TrimRight(c.DefaultAPIBaseURL, "/")
}
