package config

import "testing"

func TestLoad_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_LocalAllowsMissingProviderCreds(t *testing.T) {
	c := Config{App: AppConfig{Env: "local", Port: 8080, RateLimitRPM: 100}}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_ProductionRequiresProviderCreds(t *testing.T) {
	c := Config{App: AppConfig{Env: "production", Port: 8080, RateLimitRPM: 100}}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without Vapi credentials")
	}
}

func TestValidate_DestinationMustBeE164(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "local", Port: 8080, RateLimitRPM: 100},
		Vapi: VapiConfig{DestinationNumber: "555-0111"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for non-E.164 destination")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3001, https://app.example.com")
	t.Setenv("VAPI_API_KEY", "k")
	t.Setenv("DESTINATION_NUMBER", "+17175550101")

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.App.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", c.App.Port)
	}
	if len(c.App.AllowedOrigins) != 2 || c.App.AllowedOrigins[1] != "https://app.example.com" {
		t.Fatalf("origins not split: %v", c.App.AllowedOrigins)
	}
	if c.App.RateLimitRPM != 100 {
		t.Fatalf("expected default rate limit, got %d", c.App.RateLimitRPM)
	}
	if c.HTTPAddr() != ":8080" {
		t.Fatalf("unexpected addr %q", c.HTTPAddr())
	}
}

func TestLoad_RejectsBadPort(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("APP_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
