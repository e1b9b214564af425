package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration required by the API process.
// All values must come from env (or a .env file loaded at startup).
// No business logic should depend on raw environment variables.
type Config struct {
	App    AppConfig
	Vapi   VapiConfig
	OpenAI OpenAIConfig
	OMI    OMIConfig
}

type AppConfig struct {
	Env  string
	Port int

	// AllowedOrigins is the CORS allow-list, comma separated in env.
	AllowedOrigins []string

	// RateLimitRPM caps requests per client IP per minute.
	RateLimitRPM int
}

type VapiConfig struct {
	APIKey        string
	BaseURL       string
	AssistantID   string
	PhoneNumberID string

	// Destination is the fixed business the gateway dials; it is deployment
	// config, not user input.
	DestinationName   string
	DestinationNumber string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type OMIConfig struct {
	AppID     string
	AppSecret string
	BaseURL   string
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}
	c.App.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))
	c.App.RateLimitRPM = optionalInt("RATE_LIMIT_RPM", 100)

	c.Vapi.APIKey = os.Getenv("VAPI_API_KEY")
	c.Vapi.BaseURL = strings.TrimSpace(os.Getenv("VAPI_BASE_URL"))
	c.Vapi.AssistantID = strings.TrimSpace(os.Getenv("VAPI_ASSISTANT_ID"))
	c.Vapi.PhoneNumberID = strings.TrimSpace(os.Getenv("VAPI_PHONE_NUMBER_ID"))
	c.Vapi.DestinationName = strings.TrimSpace(os.Getenv("DESTINATION_NAME"))
	c.Vapi.DestinationNumber = strings.TrimSpace(os.Getenv("DESTINATION_NUMBER"))

	c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAI.BaseURL = strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	c.OpenAI.Model = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))

	c.OMI.AppID = strings.TrimSpace(os.Getenv("OMI_APP_ID"))
	c.OMI.AppSecret = os.Getenv("OMI_APP_SECRET")
	c.OMI.BaseURL = strings.TrimSpace(os.Getenv("OMI_BASE_URL"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}
	if c.App.RateLimitRPM <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPM must be positive, got %d", c.App.RateLimitRPM))
	}

	// Provider credentials are intentionally not required at boot: a missing
	// key surfaces as a configuration error on the first call attempt, which
	// matches how the clients report it. Production is stricter.
	if c.IsProduction() {
		if c.Vapi.APIKey == "" {
			errs = append(errs, errors.New("VAPI_API_KEY is required in production"))
		}
		if c.Vapi.PhoneNumberID == "" {
			errs = append(errs, errors.New("VAPI_PHONE_NUMBER_ID is required in production"))
		}
		if c.Vapi.DestinationNumber == "" {
			errs = append(errs, errors.New("DESTINATION_NUMBER is required in production"))
		}
	}

	if c.Vapi.DestinationNumber != "" && !strings.HasPrefix(c.Vapi.DestinationNumber, "+") {
		errs = append(errs, fmt.Errorf("DESTINATION_NUMBER must be E.164, got %q", c.Vapi.DestinationNumber))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitList(v string) []string {
	out := make([]string, 0)
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
