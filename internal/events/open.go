package events

import (
	"github.com/JonMunkholm/OrderTrack/internal/config"
)

// Open returns an AMQP publisher when an URL is configured, Noop otherwise.
func Open(cfg config.EventsConfig) (Publisher, error) {
	if cfg.AMQPURL == "" {
		return Noop{}, nil
	}
	return DialAMQP(cfg.AMQPURL, cfg.Exchange, cfg.PublishTimeout)
}
