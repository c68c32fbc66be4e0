// Package ticketflow processes customer support tickets as a staged message
// flow on top of Watermill. Raw tickets are scored by a lexicon sentiment
// analyzer, enriched into processed tickets with priority and escalation
// signals, and answered by a template response generator; each stage's result
// is published to its own channel, optionally wrapped in a JSON-RPC 2.0
// envelope or a schema-framed binary encoding.
//
// TicketService is the entry point for request/response use: it hosts a
// JSON-RPC processor with the pipeline methods (sentiment.analyze,
// ticket.process, ai.generate_response, escalation.check) registered, and
// can be served over HTTP via the httpapi server. StreamClient is the entry
// point for broker use: Send publishes payloads through the configured
// encoding cascade and Consume decodes inbound messages back into maps with
// delivery and RPC metadata attached. Orchestrator ties the two worlds
// together by running the three-stage ticket flow over a StreamClient.
//
// # Transports
//
// Four broker backends are supported out of the box:
//   - channel: In-memory Go channels for demo mode and testing
//   - kafka: High-throughput streaming with consumer groups and SASL auth
//   - nats: High-performance messaging
//   - rabbitmq: AMQP-based durable queues
//
// Backends register themselves with the transport registry; import the ones
// you need and Build picks the backend named by Config.PubSubSystem.
//
// # Demo mode
//
// With DemoMode enabled nothing leaves the process: sends are simulated,
// consumes are no-ops, and the demo package supplies canned tickets so the
// whole pipeline can run without a broker.
package ticketflow
