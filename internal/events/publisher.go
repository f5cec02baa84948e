package events

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/seatfund/backend/internal/config"
)

// Drivers accepted by NewPublisher.
const (
	DriverNone  = "none"
	DriverRedis = "redis"
	DriverKafka = "kafka"
)

// NewPublisher picks the publisher for cfg.Driver. The redis driver needs a
// connected client.
func NewPublisher(cfg config.EventsConfig, rdb *redis.Client) (Publisher, error) {
	switch cfg.Driver {
	case "", DriverNone:
		return NopPublisher{}, nil
	case DriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("events driver %q requires redis", cfg.Driver)
		}
		return NewRedisPublisher(rdb, cfg.Topic), nil
	case DriverKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("events driver %q requires at least one broker", cfg.Driver)
		}
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.Topic), nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
