// Package cli holds the invocation configuration shared by the mqtt-pub
// and mqtt-sub tools: flag registration, environment overrides, and
// validation. The configuration is built once per process during argument
// parsing and is read-only afterwards.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Connection defaults applied when the corresponding flag is absent.
const (
	DefaultHost = "localhost"
	DefaultPort = 1883
)

// Validation errors. Reported as a one-line diagnostic followed by the
// usage text; they never crash the process.
var (
	ErrMissingTopic   = errors.New("missing topic")
	ErrMissingMessage = errors.New("missing message")
)

// Config is the configuration of a single tool invocation.
type Config struct {
	ClientID string
	Host     string
	Port     int
	Username string
	Password string
	Topic    string
	Message  string
	Retain   bool
	Verbose  bool
}

// New returns a Config with all defaults applied.
func New() *Config {
	return &Config{
		Host: DefaultHost,
		Port: DefaultPort,
	}
}

// RegisterConnectionFlags registers the flags common to both tools.
// The host flag owns the -h shorthand, so help must be registered
// separately under -H by the command.
func (c *Config) RegisterConnectionFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.ClientID, "client-id", "i", "", "MQTT client id (auto-generated if empty)")
	fs.StringVarP(&c.Host, "host", "h", DefaultHost, "hostname of the MQTT broker")
	fs.IntVarP(&c.Port, "port", "p", DefaultPort, "port of the MQTT broker")
	fs.StringVarP(&c.Username, "user", "u", "", "name of the MQTT user")
	fs.StringVarP(&c.Password, "password", "P", "", "password of the MQTT user")
	fs.BoolVarP(&c.Retain, "retain", "r", false, "retain the message")
	fs.StringVarP(&c.Topic, "topic", "t", "", "MQTT topic (required)")
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "enable debug logging")
}

// RegisterMessageFlag registers the payload flag used by mqtt-pub only.
func (c *Config) RegisterMessageFlag(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Message, "message", "m", "", "message payload (required)")
}

// ApplyEnv overlays environment variables onto flags that were not set on
// the command line. Flag names map to environment keys through the given
// prefix, e.g. the client-id flag with prefix MQTT_PUB reads
// MQTT_PUB_CLIENT_ID. Explicit command-line flags always win.
func (c *Config) ApplyEnv(prefix string, fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "help" {
			return
		}
		if !v.IsSet(f.Name) {
			return
		}
		_ = fs.Set(f.Name, v.GetString(f.Name))
	})
}

// Validate checks the required fields of a run. needMessage is true for
// the publish tool, which requires a payload in addition to the topic.
func (c *Config) Validate(needMessage bool) error {
	if c.Topic == "" {
		return ErrMissingTopic
	}
	if needMessage && c.Message == "" {
		return ErrMissingMessage
	}
	return nil
}

// BrokerURL returns the plain TCP broker URL for the configured endpoint.
func (c *Config) BrokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", c.Host, c.Port)
}
