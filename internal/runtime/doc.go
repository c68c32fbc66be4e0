/*
Package runtime provides the core ticket processing infrastructure for
ticketflow.

# Architecture Overview

The runtime package implements a staged ticket pipeline built on top of
Watermill. Requests arrive either as JSON-RPC 2.0 envelopes (over HTTP or
embedded in broker messages) or as plain JSON, flow through sentiment
analysis and response generation, and leave as stage publications on the
configured channels.

# Package Structure

## Service Facade (service.go)

The TicketService struct wires the pipeline behind a JSON-RPC processor:
  - sentiment.analyze: score a message with the lexicon analyzer
  - ticket.process: turn a raw ticket into a processed ticket
  - ai.generate_response: answer a processed ticket with a template reply
  - escalation.check: decide whether a ticket needs a human
  - system.health / system.version: introspection

# Sub-packages

  - airesponse/: template-based AI response generation
  - config/: service configuration with env loading and validation
  - demo/: canned sample tickets for demo mode
  - errors/: sentinel errors and error types
  - flow/: three-stage flow orchestration (raw, processed, ai-response)
  - httpapi/: chi HTTP server exposing the RPC endpoint
  - ids/: ULID and UUID generation for message and request IDs
  - jsoncodec/: JSON marshaling utilities
  - jsonrpc/: JSON-RPC 2.0 envelopes and method dispatch
  - logging/: logger interface and adapters
  - metadata/: message metadata utilities
  - schema/: framed binary codec and schema registry
  - sentiment/: lexicon sentiment analysis and ticket processing
  - stream/: broker send/consume client with the encoding cascade
  - ticket/: raw ticket, processed ticket, and AI response types

# Usage Example

	cfg := config.Default()
	cfg.PubSubSystem = "kafka"
	cfg.KafkaBrokers = []string{"localhost:9092"}
	cfg.DemoMode = false

	svc := runtime.NewTicketService()
	out, err := svc.Handle(ctx, rpcPayload)
*/
package runtime
