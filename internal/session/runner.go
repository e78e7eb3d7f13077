package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/edgeo-scada/mqtt-tools/internal/cli"
)

// RunPublish performs the single publish of one mqtt-pub invocation:
// connect, publish, disconnect. Exactly one publish per run, no retry.
func RunPublish(cfg *cli.Config, log *slog.Logger) error {
	client, err := Dial(Options{
		BrokerURL: cfg.BrokerURL(),
		ClientID:  cfg.ClientID,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Publish(cfg.Topic, []byte(cfg.Message), cfg.Retain)
}

// RunSubscribe connects, subscribes to the configured topic and writes
// every received message to out until ctx is cancelled or the connection
// is lost. Cancellation is always a clean stop; only a genuine connection
// failure is fatal. The unsubscribe on the way out is best effort.
func RunSubscribe(ctx context.Context, cfg *cli.Config, out io.Writer, log *slog.Logger) error {
	client, err := Dial(Options{
		BrokerURL: cfg.BrokerURL(),
		ClientID:  cfg.ClientID,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Subscribe(cfg.Topic, func(msg Message) {
		WriteMessage(out, msg)
	}); err != nil {
		return err
	}

	err = waitForShutdown(ctx, client)

	// A failed unsubscribe during shutdown does not change the exit status.
	if uerr := client.Unsubscribe(cfg.Topic); uerr != nil {
		log.Warn("failed to unsubscribe", "topic", cfg.Topic, "error", uerr)
	}

	return err
}

// waitForShutdown blocks until cancellation or a lost connection,
// re-checking at PollInterval.
func waitForShutdown(ctx context.Context, client *Client) error {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-client.Lost():
			return fmt.Errorf("%w: %w", ErrConnectionLost, err)
		case <-ticker.C:
		}
	}
}
