// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/edgeo-scada/mqtt-tools/internal/cli"
	"github.com/edgeo-scada/mqtt-tools/internal/session"
)

// Build information, set via ldflags
var (
	version = "dev"
	commit  = "unknown"
)

var cfg = cli.New()

var rootCmd = &cobra.Command{
	Use:   "mqtt-pub -t topic -m message",
	Short: "Publish a message to a MQTT topic",
	Long: `mqtt-pub publishes a single message to a MQTT broker.

The message is sent at QoS 0 (at most once) over exactly one
connection, which is closed once the publish completes.`,
	Example:       `  mqtt-pub -t test -m hello`,
	Version:       fmt.Sprintf("%s (commit %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPublish,
}

func init() {
	flags := rootCmd.Flags()
	cfg.RegisterConnectionFlags(flags)
	cfg.RegisterMessageFlag(flags)
	// -h belongs to --host, so help moves to -H.
	flags.BoolP("help", "H", false, "show this help and exit")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(cmd, err)
	})
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg.ApplyEnv("MQTT_PUB", cmd.Flags())

	if err := cfg.Validate(true); err != nil {
		return usageError(cmd, err)
	}

	if err := session.RunPublish(cfg, newLogger(cfg.Verbose)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// usageError reports a bad invocation: one diagnostic line on stderr and
// the usage text on stdout. The non-zero exit status comes from main.
func usageError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	_ = cmd.Help()
	return err
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}
