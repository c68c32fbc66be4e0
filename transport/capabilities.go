package transport

// Capabilities describes the features supported by a broker backend.
// Use this to introspect what operations are available at runtime.
type Capabilities struct {
	// SupportsOrdering indicates messages within a partition/stream are
	// delivered in order.
	SupportsOrdering bool

	// SupportsTracing indicates the backend propagates tracing headers natively.
	SupportsTracing bool

	// SupportsBatching indicates the backend can batch multiple messages.
	SupportsBatching bool

	// SupportsAck indicates the backend supports explicit acknowledgment.
	SupportsAck bool

	// SupportsNack indicates the backend supports negative acknowledgment
	// with redelivery.
	SupportsNack bool

	// SupportsPartitioning indicates the backend partitions messages by key.
	SupportsPartitioning bool

	// MaxMessageSize is the maximum message size in bytes (0 = unlimited/unknown).
	MaxMessageSize int64

	// Name is the human-readable name of the backend.
	Name string
}

// SupportsReliableDelivery returns true if the backend supports at-least-once
// delivery semantics (ack + nack).
func (c Capabilities) SupportsReliableDelivery() bool {
	return c.SupportsAck && c.SupportsNack
}

// Predefined capability sets for the supported backends.
var (
	// ChannelCapabilities for the in-memory Go channel backend.
	ChannelCapabilities = Capabilities{
		Name:             "channel",
		SupportsOrdering: true,
		SupportsAck:      true,
		SupportsNack:     true,
	}

	// KafkaCapabilities for the Apache Kafka backend.
	KafkaCapabilities = Capabilities{
		Name:                 "kafka",
		SupportsOrdering:     true,
		SupportsTracing:      true,
		SupportsBatching:     true,
		SupportsAck:          true,
		SupportsPartitioning: true,
		MaxMessageSize:       1048576, // Default 1MB
	}

	// NATSCapabilities for the NATS Core backend.
	NATSCapabilities = Capabilities{
		Name:            "nats",
		SupportsTracing: true,
		MaxMessageSize:  1048576, // Default 1MB
	}

	// RabbitMQCapabilities for the RabbitMQ/AMQP backend.
	RabbitMQCapabilities = Capabilities{
		Name:             "rabbitmq",
		SupportsOrdering: true,
		SupportsTracing:  true,
		SupportsAck:      true,
		SupportsNack:     true,
	}
)

// GetCapabilities returns the capabilities for a backend by name.
// Returns a zero Capabilities struct if the backend is unknown.
func GetCapabilities(name string) Capabilities {
	return DefaultRegistry.GetCapabilities(name)
}
