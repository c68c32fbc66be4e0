// Package kafka provides an Apache Kafka backend for ticketflow. Cloud
// clusters that authenticate with API key/secret pairs are supported via
// SASL/PLAIN over TLS.
package kafka

import (
	"context"
	"crypto/tls"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/drblury/ticketflow/transport"
)

// TransportName is the name used to register this backend.
const TransportName = "kafka"

// PublisherFactory allows overriding the publisher creation for testing.
var PublisherFactory = func(cfg kafka.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return kafka.NewPublisher(cfg, logger)
}

// SubscriberFactory allows overriding the subscriber creation for testing.
var SubscriberFactory = func(cfg kafka.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return kafka.NewSubscriber(cfg, logger)
}

func init() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.KafkaCapabilities)
}

// Build creates a new Kafka transport.
func Build(ctx context.Context, cfg transport.Config, logger watermill.LoggerAdapter) (transport.Transport, error) {
	brokers := cfg.GetKafkaBrokers()

	publisher, err := PublisherFactory(
		kafka.PublisherConfig{
			Brokers:               brokers,
			Marshaler:             kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: publisherSaramaConfig(cfg),
		},
		logger,
	)
	if err != nil {
		return transport.Transport{}, err
	}

	subscriber, err := SubscriberFactory(
		kafka.SubscriberConfig{
			Brokers:               brokers,
			Unmarshaler:           kafka.DefaultMarshaler{},
			ConsumerGroup:         cfg.GetKafkaConsumerGroup(),
			OverwriteSaramaConfig: subscriberSaramaConfig(cfg),
		},
		logger,
	)
	if err != nil {
		return transport.Transport{}, err
	}

	return transport.Transport{
		Publisher:  publisher,
		Subscriber: subscriber,
	}, nil
}

func publisherSaramaConfig(cfg transport.Config) *sarama.Config {
	sc := kafka.DefaultSaramaSyncPublisherConfig()
	applyCommonSaramaConfig(sc, cfg)
	if timeout := cfg.GetDeliveryTimeout(); timeout > 0 {
		sc.Producer.Timeout = timeout
	}
	return sc
}

func subscriberSaramaConfig(cfg transport.Config) *sarama.Config {
	sc := kafka.DefaultSaramaSubscriberConfig()
	applyCommonSaramaConfig(sc, cfg)
	if timeout := cfg.GetSessionTimeout(); timeout > 0 {
		sc.Consumer.Group.Session.Timeout = timeout
	}
	return sc
}

func applyCommonSaramaConfig(sc *sarama.Config, cfg transport.Config) {
	if clientID := cfg.GetKafkaClientID(); clientID != "" {
		sc.ClientID = clientID
	}
	if timeout := cfg.GetRequestTimeout(); timeout > 0 {
		sc.Net.DialTimeout = timeout
		sc.Net.ReadTimeout = timeout
		sc.Net.WriteTimeout = timeout
	}
	if key := cfg.GetBrokerAPIKey(); key != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		sc.Net.SASL.User = key
		sc.Net.SASL.Password = cfg.GetBrokerAPISecret()
		sc.Net.TLS.Enable = true
		sc.Net.TLS.Config = &tls.Config{MinVersion: tls.VersionTLS12}
	}
}

// Capabilities returns the capabilities of this backend.
func Capabilities() transport.Capabilities {
	return transport.KafkaCapabilities
}
