package cli

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"
)

func newFlagSet(cfg *Config, withMessage bool) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterConnectionFlags(fs)
	if withMessage {
		cfg.RegisterMessageFlag(fs)
	}
	return fs
}

func TestDefaults(t *testing.T) {
	cfg := New()
	fs := newFlagSet(cfg, true)

	if err := fs.Parse([]string{"-t", "test", "-m", "hello"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want %q", cfg.Host, "localhost")
	}
	if cfg.Port != 1883 {
		t.Errorf("Port = %d, want 1883", cfg.Port)
	}
	if cfg.Retain {
		t.Error("Retain = true, want false")
	}
	if cfg.ClientID != "" {
		t.Errorf("ClientID = %q, want empty", cfg.ClientID)
	}
}

func TestParseShortFlags(t *testing.T) {
	cfg := New()
	fs := newFlagSet(cfg, true)

	args := []string{
		"-i", "client42",
		"-h", "broker.example",
		"-p", "8883",
		"-u", "alice",
		"-P", "secret",
		"-r",
		"-t", "sensor/temp",
		"-m", "23.5",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := Config{
		ClientID: "client42",
		Host:     "broker.example",
		Port:     8883,
		Username: "alice",
		Password: "secret",
		Retain:   true,
		Topic:    "sensor/temp",
		Message:  "23.5",
	}
	if *cfg != want {
		t.Errorf("Config = %+v, want %+v", *cfg, want)
	}
}

func TestParseLongFlags(t *testing.T) {
	cfg := New()
	fs := newFlagSet(cfg, true)

	args := []string{
		"--client-id", "client42",
		"--host", "broker.example",
		"--port", "8883",
		"--user", "alice",
		"--password", "secret",
		"--retain",
		"--topic", "sensor/temp",
		"--message", "23.5",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.ClientID != "client42" || cfg.Host != "broker.example" || cfg.Port != 8883 {
		t.Errorf("long flags not applied: %+v", *cfg)
	}
	if !cfg.Retain || cfg.Topic != "sensor/temp" || cfg.Message != "23.5" {
		t.Errorf("long flags not applied: %+v", *cfg)
	}
}

func TestParseUnknownOption(t *testing.T) {
	cfg := New()
	fs := newFlagSet(cfg, true)

	if err := fs.Parse([]string{"--bogus"}); err == nil {
		t.Fatal("Parse() expected error for unknown option")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		needMessage bool
		wantErr     error
	}{
		{"publish valid", Config{Topic: "test", Message: "hello"}, true, nil},
		{"publish missing topic", Config{Message: "hello"}, true, ErrMissingTopic},
		{"publish missing message", Config{Topic: "test"}, true, ErrMissingMessage},
		{"subscribe valid", Config{Topic: "test"}, false, nil},
		{"subscribe missing topic", Config{}, false, ErrMissingTopic},
		{"subscribe ignores message", Config{Topic: "test", Message: ""}, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.needMessage)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MQTT_PUB_HOST", "env.example")
	t.Setenv("MQTT_PUB_PORT", "8883")
	t.Setenv("MQTT_PUB_CLIENT_ID", "env-client")

	cfg := New()
	fs := newFlagSet(cfg, true)

	// Port is set explicitly and must not be overridden by the environment.
	if err := fs.Parse([]string{"-t", "test", "-m", "hello", "-p", "1884"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	cfg.ApplyEnv("MQTT_PUB", fs)

	if cfg.Host != "env.example" {
		t.Errorf("Host = %q, want %q", cfg.Host, "env.example")
	}
	if cfg.ClientID != "env-client" {
		t.Errorf("ClientID = %q, want %q", cfg.ClientID, "env-client")
	}
	if cfg.Port != 1884 {
		t.Errorf("Port = %d, want 1884 (command line wins)", cfg.Port)
	}
}

func TestBrokerURL(t *testing.T) {
	cfg := New()
	if got, want := cfg.BrokerURL(), "tcp://localhost:1883"; got != want {
		t.Errorf("BrokerURL() = %q, want %q", got, want)
	}

	cfg.Host = "broker.example"
	cfg.Port = 8883
	if got, want := cfg.BrokerURL(), "tcp://broker.example:8883"; got != want {
		t.Errorf("BrokerURL() = %q, want %q", got, want)
	}
}
