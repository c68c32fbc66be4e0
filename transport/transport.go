// Package transport defines the interfaces and types for ticketflow broker
// backends. Each backend (kafka, nats, rabbitmq, channel) lives in its own
// sub-package and registers itself with the transport registry.
package transport

import (
	"context"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Transport combines a publisher and subscriber pair produced by a builder.
type Transport struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

// Close shuts down both halves and joins their errors. Backends that share
// a single connection return the same close error twice at most once.
func (t Transport) Close() error {
	var errs []error
	if t.Publisher != nil {
		errs = append(errs, t.Publisher.Close())
	}
	if t.Subscriber != nil {
		errs = append(errs, t.Subscriber.Close())
	}
	return errors.Join(errs...)
}

// Builder is the function signature for creating a transport from config.
// Each backend package provides a Builder that can be registered.
type Builder func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error)

// Config provides the configuration values needed by backends. The interface
// keeps backend packages decoupled from the full config package.
type Config interface {
	// GetPubSubSystem returns the backend name to build.
	GetPubSubSystem() string

	// Kafka
	GetKafkaBrokers() []string
	GetKafkaClientID() string
	GetKafkaConsumerGroup() string

	// Broker credentials (SASL for Kafka, user info for others).
	GetBrokerAPIKey() string
	GetBrokerAPISecret() string

	// NATS
	GetNATSURL() string

	// RabbitMQ
	GetRabbitMQURL() string

	// Timeouts applied where the backend supports them.
	GetSessionTimeout() time.Duration
	GetRequestTimeout() time.Duration
	GetDeliveryTimeout() time.Duration
}

// CapabilitiesProvider is implemented by backends that report their capabilities.
type CapabilitiesProvider interface {
	Capabilities() Capabilities
}
