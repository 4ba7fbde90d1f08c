package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"github.com/eventangle/edge"
	"github.com/eventangle/edge/auth"
	"github.com/eventangle/edge/pkg/log"
	"github.com/eventangle/edge/util"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var cfgSingleton atomic.Value

const (
	DevelopmentEnvironment string = "development"
)

var DefaultConfiguration = Configuration{
	Host:        "localhost:5005",
	Environment: DevelopmentEnvironment,
	Server: ServerConfiguration{
		HTTP: HTTPServerConfiguration{
			Port: 5005,
		},
	},
	Upstream: UpstreamConfiguration{
		Timeout: edge.HTTP_TIMEOUT_IN_DURATION,
	},
	Logger: LoggerConfiguration{
		Level: "info",
	},
	Metrics: MetricsConfiguration{
		IsEnabled: true,
	},
}

type AuthConfiguration struct {
	AdminToken string `json:"admin_token" envconfig:"ADMIN_TOKEN"`
}

type HTTPServerConfiguration struct {
	SSL         bool   `json:"ssl" envconfig:"EVENTANGLE_SSL"`
	SSLCertFile string `json:"ssl_cert_file" envconfig:"EVENTANGLE_SSL_CERT_FILE"`
	SSLKeyFile  string `json:"ssl_key_file" envconfig:"EVENTANGLE_SSL_KEY_FILE"`
	Port        uint32 `json:"port" envconfig:"PORT"`
}

type ServerConfiguration struct {
	HTTP HTTPServerConfiguration `json:"http"`
}

// UpstreamConfiguration describes the EventAngle application server the
// edge forwards to. Proxying is disabled when URL is empty.
type UpstreamConfiguration struct {
	URL     string        `json:"url" envconfig:"EVENTANGLE_UPSTREAM_URL"`
	Timeout time.Duration `json:"timeout" envconfig:"EVENTANGLE_UPSTREAM_TIMEOUT"`
}

type SentryConfiguration struct {
	Dsn string `json:"dsn" envconfig:"EVENTANGLE_SENTRY_DSN"`
}

type LoggerConfiguration struct {
	Level string `json:"level" envconfig:"EVENTANGLE_LOG_LEVEL" valid:"loglevel~please provide a valid log level"`
}

type MetricsConfiguration struct {
	IsEnabled bool `json:"enabled" envconfig:"EVENTANGLE_METRICS_ENABLED"`
}

type Configuration struct {
	Auth        AuthConfiguration     `json:"auth"`
	Server      ServerConfiguration   `json:"server"`
	Upstream    UpstreamConfiguration `json:"upstream"`
	Sentry      SentryConfiguration   `json:"sentry"`
	Logger      LoggerConfiguration   `json:"logger"`
	Metrics     MetricsConfiguration  `json:"metrics"`
	Host        string                `json:"host" envconfig:"EVENTANGLE_HOST"`
	Environment string                `json:"env" envconfig:"WORKER_ENV"`

	EnableProfiling bool `json:"enable_profiling" envconfig:"EVENTANGLE_ENABLE_PROFILING"`
}

// AuthBinding returns the admin credential binding the gate checks
// requests against.
func (c *Configuration) AuthBinding() *auth.Binding {
	return &auth.Binding{
		AdminToken:  c.Auth.AdminToken,
		Environment: c.Environment,
	}
}

// LoadConfig is used to load the configuration from either the json config file
// or the environment variables.
func LoadConfig(p string) error {
	c := DefaultConfiguration

	if _, err := os.Stat(p); err == nil {
		f, err := os.Open(p)
		if err != nil {
			return err
		}

		defer f.Close()

		if err := json.NewDecoder(f).Decode(&c); err != nil {
			return err
		}
	} else {
		log.Infof("%s not detected, will look for env vars or cli args", p)
	}

	// A .env file feeds the same environment variables envconfig reads;
	// convenient for local development, absent in real deployments.
	if err := godotenv.Load(); err == nil {
		log.Info("loaded environment from .env")
	}

	if err := envconfig.Process("", &c); err != nil {
		return err
	}

	if err := validate(&c); err != nil {
		return err
	}

	cfgSingleton.Store(&c)
	return nil
}

// Get fetches the application configuration. LoadConfig must have been called
// previously for this to work.
// Use this when you need to get access to the config object at runtime
func Get() (Configuration, error) {
	c, ok := cfgSingleton.Load().(*Configuration)
	if !ok {
		return Configuration{}, errors.New("call Load before this function")
	}

	return *c, nil
}

// Override lets you override certain configuration values after load. It is
// mostly useful in tests.
func Override(newCfg *Configuration) {
	cfgSingleton.Store(newCfg)
}

func validate(c *Configuration) error {
	if err := util.Validate(c); err != nil {
		return err
	}

	if err := ensureSSL(c.Server); err != nil {
		return err
	}

	return ensureUpstream(c.Upstream)
}

func ensureSSL(s ServerConfiguration) error {
	if s.HTTP.SSL {
		if s.HTTP.SSLCertFile == "" || s.HTTP.SSLKeyFile == "" {
			return errors.New("both cert_file and key_file are required for ssl")
		}
	}
	return nil
}

func ensureUpstream(u UpstreamConfiguration) error {
	if util.IsStringEmpty(u.URL) {
		return nil
	}

	pu, err := url.Parse(u.URL)
	if err != nil {
		return fmt.Errorf("invalid upstream url: %v", err)
	}

	if pu.Scheme != "http" && pu.Scheme != "https" {
		return fmt.Errorf("upstream url must be http or https, got '%s'", pu.Scheme)
	}

	return nil
}
