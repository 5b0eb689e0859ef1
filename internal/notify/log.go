package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogChannel writes alerts to the log instead of delivering them. It is
// the default channel for development and test environments.
type LogChannel struct {
	logger zerolog.Logger
}

// NewLogChannel creates a new LogChannel
func NewLogChannel(logger zerolog.Logger) *LogChannel {
	return &LogChannel{logger: logger.With().Str("component", "log_channel").Logger()}
}

// Send logs the alert and always succeeds.
func (c *LogChannel) Send(ctx context.Context, address, subject, body string) error {
	c.logger.Info().
		Str("address", address).
		Str("subject", subject).
		Str("body", body).
		Msg("Budget alert")
	return nil
}
