package reminders

import "time"

// Config holds the reminders module configuration.
type Config struct {
	PollInterval time.Duration `env:"KAEDE_REMINDER_POLL_INTERVAL" envDefault:"30s"`
}
