// Package stream adapts the ticket pipeline to a Watermill publisher and
// subscriber pair. Payloads travel as JSON maps, optionally wrapped in
// JSON-RPC 2.0 request envelopes or framed by a per-channel schema codec.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/drblury/ticketflow/internal/runtime/config"
	errspkg "github.com/drblury/ticketflow/internal/runtime/errors"
	"github.com/drblury/ticketflow/internal/runtime/ids"
	"github.com/drblury/ticketflow/internal/runtime/jsoncodec"
	"github.com/drblury/ticketflow/internal/runtime/jsonrpc"
	"github.com/drblury/ticketflow/internal/runtime/logging"
	"github.com/drblury/ticketflow/internal/runtime/metadata"
	"github.com/drblury/ticketflow/internal/runtime/schema"
)

const tracerName = "ticketflow-stream"

// Metadata keys attached to published messages.
const (
	MetadataChannel      = "channel"
	MetadataMethod       = "method"
	MetadataEncoding     = "encoding"
	MetadataPartitionKey = "partition_key"
)

// Payload keys injected on consumed messages.
const (
	// DeliveryKey carries channel, message UUID, broker metadata, and the
	// receive timestamp.
	DeliveryKey = "_delivery"
	// RPCKey carries method, id, and version for RPC-wrapped messages.
	RPCKey = "_rpc"
)

// Encoding names reported in metrics and metadata.
const (
	encodingJSON      = "json"
	encodingRPC       = "jsonrpc"
	encodingSimulated = "simulated"
)

// Handler processes a decoded payload consumed from a channel.
type Handler func(ctx context.Context, channel string, payload map[string]any) error

// Option configures a Client.
type Option func(*Client)

// WithCodecs installs a codec registry for per-channel framing.
func WithCodecs(reg *schema.Registry) Option {
	return func(c *Client) { c.codecs = reg }
}

// WithMetrics installs a metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger installs a logger.
func WithLogger(logger logging.ServiceLogger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client sends and consumes pipeline messages over a broker. In demo mode
// all broker I/O is simulated: sends are logged and reported successful,
// Consume is a no-op.
type Client struct {
	cfg        *config.Config
	publisher  message.Publisher
	subscriber message.Subscriber
	codecs     *schema.Registry
	metrics    *Metrics
	logger     logging.ServiceLogger
}

// NewClient builds a stream client. The publisher is required outside demo
// mode; the subscriber only when Consume is used.
func NewClient(cfg *config.Config, publisher message.Publisher, subscriber message.Subscriber, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errspkg.ErrConfigRequired
	}
	if !cfg.DemoMode && publisher == nil {
		return nil, errspkg.ErrPublisherRequired
	}

	c := &Client{
		cfg:        cfg,
		publisher:  publisher,
		subscriber: subscriber,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.NewSlogServiceLogger(slog.New(slog.DiscardHandler))
	}
	if c.codecs == nil {
		c.codecs = schema.NewRegistry()
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
		if err := c.metrics.Register(); err != nil {
			return nil, fmt.Errorf("registering stream metrics: %w", err)
		}
	}

	return c, nil
}

// DefaultMethod returns the RPC method name used when a send does not name
// one: "stream." plus the channel name with dashes turned into underscores.
func DefaultMethod(channel string) string {
	return "stream." + strings.ReplaceAll(channel, "-", "_")
}

// Send encodes the payload and publishes it to the channel. The key rides in
// message metadata for partition-aware transports; method names the RPC
// operation when JSON-RPC wrapping is enabled.
func (c *Client) Send(ctx context.Context, channel string, payload map[string]any, key, method string) error {
	if channel == "" {
		return errspkg.ErrChannelRequired
	}
	if payload == nil {
		return errspkg.ErrPayloadRequired
	}
	if method == "" {
		method = DefaultMethod(channel)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "stream.Send")
	defer span.End()
	span.SetAttributes(
		attribute.String("stream.channel", channel),
		attribute.String("stream.method", method),
		attribute.String("stream.key", key),
	)

	if c.cfg.DemoMode {
		c.logger.Info("demo mode: send simulated", logging.LogFields{
			"channel": channel,
			"key":     key,
			"method":  method,
		})
		c.metrics.MessageSent(channel, encodingSimulated)
		return nil
	}

	data, encoding := c.encode(channel, payload, key, method)

	msg := message.NewMessage(ids.CreateULID(), data)
	md := metadata.New(
		MetadataChannel, channel,
		MetadataMethod, method,
		MetadataEncoding, encoding,
	)
	if key != "" {
		md = md.With(MetadataPartitionKey, key)
	}
	msg.Metadata = metadata.ToWatermill(md)
	msg.SetContext(ctx)

	if err := c.publisher.Publish(channel, msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", channel, err)
	}

	c.metrics.MessageSent(channel, encoding)
	c.logger.Debug("message published", logging.LogFields{
		"channel":  channel,
		"uuid":     msg.UUID,
		"encoding": encoding,
	})
	return nil
}

// encode serializes the payload for the channel. Codec faults fall back to
// the JSON paths so a broken schema never blocks delivery.
func (c *Client) encode(channel string, payload map[string]any, key, method string) ([]byte, string) {
	if c.cfg.UseSchemaCodec {
		if codec, ok := c.codecs.Lookup(channel); ok {
			data, err := codec.Encode(payload)
			if err == nil {
				return data, codec.Name()
			}
			c.logger.Error("codec encode failed, falling back to JSON", err, logging.LogFields{
				"channel": channel,
				"codec":   codec.Name(),
			})
		}
	}

	if c.cfg.UseJSONRPC {
		var id any
		if key != "" {
			id = key
		}
		if ticketID, ok := payload["ticket_id"].(string); ok && ticketID != "" {
			id = ticketID
		}
		req := jsonrpc.NewRequestWithID(method, jsonrpc.Named(payload), id)
		if data, err := jsoncodec.Marshal(req); err == nil {
			return data, encodingRPC
		} else {
			c.logger.Error("rpc envelope encode failed, falling back to plain JSON", err, logging.LogFields{
				"channel": channel,
				"method":  method,
			})
		}
	}

	data, err := jsoncodec.Marshal(payload)
	if err != nil {
		// Maps of JSON-compatible values always marshal; an error here means
		// a caller handed us channels or funcs. Ship the error as payload so
		// the fault is visible downstream.
		data, _ = jsoncodec.Marshal(map[string]any{"_encode_error": err.Error()})
	}
	return data, encodingJSON
}

// Consume subscribes to the channels and feeds decoded payloads to the
// handler, one goroutine per channel. Decode faults are logged, counted,
// acked, and skipped. Handler errors are logged and the message is still
// acked. Consume blocks until the context is cancelled and all channel loops
// have drained.
func (c *Client) Consume(ctx context.Context, channels []string, handler Handler) error {
	if handler == nil {
		return errspkg.ErrHandlerRequired
	}
	if len(channels) == 0 {
		return errspkg.ErrChannelRequired
	}

	if c.cfg.DemoMode {
		c.logger.Info("demo mode: consume simulated", logging.LogFields{"channels": channels})
		return nil
	}
	if c.subscriber == nil {
		return errspkg.ErrSubscriberRequired
	}

	var wg sync.WaitGroup
	for _, channel := range channels {
		messages, err := c.subscriber.Subscribe(ctx, channel)
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", channel, err)
		}

		wg.Add(1)
		go func(channel string, messages <-chan *message.Message) {
			defer wg.Done()
			c.consumeLoop(ctx, channel, messages, handler)
		}(channel, messages)
	}

	wg.Wait()
	return nil
}

func (c *Client) consumeLoop(ctx context.Context, channel string, messages <-chan *message.Message, handler Handler) {
	c.logger.Info("consuming channel", logging.LogFields{"channel": channel})

	for msg := range messages {
		payload, err := c.decode(channel, msg)
		if err != nil {
			c.metrics.DecodeFailure(channel)
			c.logger.Error("dropping undecodable message", err, logging.LogFields{
				"channel": channel,
				"uuid":    msg.UUID,
			})
			msg.Ack()
			continue
		}

		if err := handler(ctx, channel, payload); err != nil {
			c.logger.Error("handler failed", err, logging.LogFields{
				"channel": channel,
				"uuid":    msg.UUID,
			})
		}
		msg.Ack()
		c.metrics.MessageConsumed(channel)
	}

	c.logger.Info("channel drained", logging.LogFields{"channel": channel})
}

// decode reverses encode: channel codec first, then the JSON-RPC envelope,
// then plain JSON. The returned payload carries delivery metadata under
// DeliveryKey and, for RPC-wrapped messages, envelope details under RPCKey.
func (c *Client) decode(channel string, msg *message.Message) (map[string]any, error) {
	payload, rpcInfo, err := c.decodeBody(channel, msg.Payload)
	if err != nil {
		return nil, err
	}

	payload[DeliveryKey] = map[string]any{
		"channel":     channel,
		"uuid":        msg.UUID,
		"metadata":    metadata.FromWatermill(msg.Metadata),
		"received_at": time.Now().Format(time.RFC3339Nano),
	}
	if rpcInfo != nil {
		payload[RPCKey] = rpcInfo
	}
	return payload, nil
}

func (c *Client) decodeBody(channel string, data []byte) (map[string]any, map[string]any, error) {
	if c.cfg.UseSchemaCodec {
		if codec, ok := c.codecs.Lookup(channel); ok {
			payload, err := codec.Decode(data)
			if err == nil {
				return payload, nil, nil
			}
			c.logger.Debug("codec decode failed, trying JSON paths", logging.LogFields{
				"channel": channel,
				"codec":   codec.Name(),
				"error":   err.Error(),
			})
		}
	}

	if c.cfg.UseJSONRPC {
		var req jsonrpc.Request
		if err := jsoncodec.Unmarshal(data, &req); err == nil && req.JSONRPC == jsonrpc.Version && req.Method != "" {
			payload, ok := req.Params.Named()
			if !ok {
				payload = map[string]any{}
			}
			rpcInfo := map[string]any{
				"method":  req.Method,
				"id":      req.ID,
				"version": req.JSONRPC,
			}
			return payload, rpcInfo, nil
		}
	}

	var payload map[string]any
	if err := jsoncodec.Unmarshal(data, &payload); err != nil {
		return nil, nil, fmt.Errorf("decoding message from %s: %w", channel, err)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil, nil
}
