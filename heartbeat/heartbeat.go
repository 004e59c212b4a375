package heartbeat

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	hberrors "github.com/vinayprograms/opsgenie/errors"
	"github.com/vinayprograms/opsgenie/logging"
	"github.com/vinayprograms/opsgenie/metrics"
	"github.com/vinayprograms/opsgenie/telemetry"
)

// Common errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Environment variables consulted by Configure.
const (
	EnvAPIKey = "OPSGENIE_API_KEY"
	EnvName   = "OPSGENIE_NAME"
	EnvSource = "OPSGENIE_SOURCE" // legacy alias of OPSGENIE_NAME
)

// Defaults.
const (
	DefaultBaseURL        = "https://api.opsgenie.com"
	DefaultFixedInterval  = 300000 * time.Millisecond
	DefaultMinDelay       = 1000 * time.Millisecond
	DefaultRequestTimeout = 30 * time.Second
)

// Options is the explicit, call-time input to Configure and Start.
type Options struct {
	APIKey string
	Name   string

	// Source is the legacy name of Name. Name wins when both are set.
	Source string
}

// Configuration is the resolved identity used for every heartbeat.
type Configuration struct {
	APIKey string
	Name   string
}

// Endpoint selects the OpsGenie API path and the body field carrying the name.
type Endpoint struct {
	Path      string
	NameField string
}

var (
	// EndpointCurrent sends {"apiKey", "name"}.
	EndpointCurrent = Endpoint{Path: "/v1/json/heartbeat/send", NameField: "name"}

	// EndpointLegacy sends {"apiKey", "source"}.
	EndpointLegacy = Endpoint{Path: "/v1/json/customer/heartbeat", NameField: "source"}
)

// SchedulePolicy decides the delay before the next attempt.
type SchedulePolicy int

const (
	// PolicyAdaptive waits half of the remaining validity reported by OpsGenie.
	PolicyAdaptive SchedulePolicy = iota

	// PolicyFixed always waits Config.FixedInterval.
	PolicyFixed
)

func (p SchedulePolicy) String() string {
	switch p {
	case PolicyAdaptive:
		return "adaptive"
	case PolicyFixed:
		return "fixed"
	default:
		return fmt.Sprintf("SchedulePolicy(%d)", int(p))
	}
}

// Config configures an Agent. Zero fields take their defaults in New.
type Config struct {
	// Endpoint is the API path and wire field.
	// Default: EndpointCurrent
	Endpoint Endpoint

	// BaseURL is scheme and host of the OpsGenie API.
	// Default: https://api.opsgenie.com
	BaseURL string

	// Policy selects adaptive or fixed scheduling.
	Policy SchedulePolicy

	// FixedInterval is the delay used by PolicyFixed.
	// Default: 5 minutes
	FixedInterval time.Duration

	// MinDelay is the floor applied to every computed delay.
	// Default: 1 second
	MinDelay time.Duration

	// RequestTimeout bounds one HTTP round-trip.
	// Default: 30 seconds
	RequestTimeout time.Duration

	// EnvFile is an optional dotenv file consulted after the process environment.
	// It is read on each Configure and never modifies the environment.
	EnvFile string

	// CredentialsFile is an optional TOML credentials file consulted last.
	CredentialsFile string

	Logger  *logging.Logger
	Metrics metrics.Collector
	Tracer  *telemetry.Tracer
	Clock   Clock

	// HTTPClient is the base client. Its transport is wrapped for tracing.
	HTTPClient *http.Client

	// LookupEnv and Hostname replace os.LookupEnv and os.Hostname.
	LookupEnv func(key string) (string, bool)
	Hostname  func() (string, error)
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:       EndpointCurrent,
		BaseURL:        DefaultBaseURL,
		Policy:         PolicyAdaptive,
		FixedInterval:  DefaultFixedInterval,
		MinDelay:       DefaultMinDelay,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Endpoint == (Endpoint{}) {
		c.Endpoint = d.Endpoint
	}
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.FixedInterval == 0 {
		c.FixedInterval = d.FixedInterval
	}
	if c.MinDelay == 0 {
		c.MinDelay = d.MinDelay
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.Logger == nil {
		c.Logger = logging.New()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewNop()
	}
	if c.Tracer == nil {
		c.Tracer = telemetry.GetTracer()
	}
	if c.Clock == nil {
		c.Clock = realClock{}
	}
	if c.LookupEnv == nil {
		c.LookupEnv = os.LookupEnv
	}
	if c.Hostname == nil {
		c.Hostname = os.Hostname
	}
	return c
}

// Validate checks the configuration. Failures are INVALID_INPUT errors
// that also match ErrInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return hberrors.InvalidInput(fmt.Sprintf(format, args...),
			hberrors.WithCause(ErrInvalidConfig))
	}

	if c.Endpoint.Path == "" || c.Endpoint.NameField == "" {
		return invalid("endpoint needs a path and a name field")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("base URL %q", c.BaseURL)
	}
	if c.Policy != PolicyAdaptive && c.Policy != PolicyFixed {
		return invalid("unknown policy %v", c.Policy)
	}
	if c.MinDelay <= 0 {
		return invalid("min delay must be positive")
	}
	if c.FixedInterval <= 0 {
		return invalid("fixed interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return invalid("request timeout must be positive")
	}
	return nil
}
