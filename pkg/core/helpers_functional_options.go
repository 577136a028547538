package core

import "time"

func WithRedisAddr(addr string) func(*Config) {
	return func(c *Config) {
		c.Redis.Addr = addr
	}
}

func WithRedisDisable(value ...bool) func(*Config) {
	val := true
	if len(value) > 0 {
		val = value[0]
	}

	return func(c *Config) {
		c.Redis.Disable = val
	}
}

func WithEnvironment(environment string) func(*Config) {
	return func(c *Config) {
		c.Environment = environment
	}
}

func WithPort(port int) func(*Config) {
	return func(c *Config) {
		c.Port = port
	}
}

func WithSkipAuth(value ...bool) func(*Config) {
	val := true
	if len(value) > 0 {
		val = value[0]
	}

	return func(c *Config) {
		c.SkipAuth = val
	}
}

func WithOtlpEndpoint(endpoint string) func(*Config) {
	return func(c *Config) {
		c.Otel.OtlpExporter.Endpoint = endpoint
	}
}

func WithOtelDisable(value ...bool) func(*Config) {
	val := true
	if len(value) > 0 {
		val = value[0]
	}

	return func(c *Config) {
		c.Otel.Disable = val
	}
}

func WithCognitoRegion(region string) func(*Config) {
	return func(c *Config) {
		c.Cognito.Region = region
	}
}

func WithCognitoUserPoolID(userPoolID string) func(*Config) {
	return func(c *Config) {
		c.Cognito.UserPoolID = userPoolID
	}
}

func WithCognitoAppClientID(appClientID string) func(*Config) {
	return func(c *Config) {
		c.Cognito.AppClientID = appClientID
	}
}

func WithAPIBaseURL(base string) func(*Config) {
	return func(c *Config) {
		c.Forms.APIBaseURL = base
	}
}

func WithSubmitTimeout(timeout time.Duration) func(*Config) {
	return func(c *Config) {
		c.Forms.SubmitTimeout = timeout
	}
}

func WithLocale(locale string) func(*Config) {
	return func(c *Config) {
		c.Forms.Locale = locale
	}
}

func WithStaticDir(dir string) func(*Config) {
	return func(c *Config) {
		c.Forms.StaticDir = dir
	}
}

func WithBackendProxyURL(proxyURL string) func(*Config) {
	return func(c *Config) {
		c.Backend.ProxyURL = proxyURL
	}
}
