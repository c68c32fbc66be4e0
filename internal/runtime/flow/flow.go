// Package flow orchestrates the three-stage ticket pipeline: the raw ticket,
// the sentiment-scored ticket, and the generated reply each go out on their
// own channel, strictly in that order.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drblury/ticketflow/internal/runtime/config"
	errspkg "github.com/drblury/ticketflow/internal/runtime/errors"
	"github.com/drblury/ticketflow/internal/runtime/logging"
	"github.com/drblury/ticketflow/internal/runtime/ticket"
)

// Stage names carried in the flow_stage payload marker and reported by
// StageError.
const (
	StageRaw        = "raw_ticket"
	StageProcessed  = "processed_ticket"
	StageAIResponse = "ai_response"
)

// RPC method names per stage.
const (
	MethodRawReceived       = "ticket.raw_received"
	MethodTicketProcessed   = "ticket.processed"
	MethodResponseGenerated = "ai.response_generated"
)

// Sender delivers a payload to a channel. Implemented by stream.Client.
type Sender interface {
	Send(ctx context.Context, channel string, payload map[string]any, key, method string) error
}

// StageError reports which pipeline stage failed to send.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("flow stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Status is a point-in-time view of the orchestrator.
type Status struct {
	Mode     string        `json:"mode"`
	Channels config.Topics `json:"channels"`
}

// Orchestrator pushes tickets through the pipeline channels.
type Orchestrator struct {
	cfg    *config.Config
	sender Sender
	logger logging.ServiceLogger
}

// NewOrchestrator builds an orchestrator over the given sender.
func NewOrchestrator(cfg *config.Config, sender Sender, logger logging.ServiceLogger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errspkg.ErrConfigRequired
	}
	if sender == nil {
		return nil, errspkg.ErrPublisherRequired
	}
	if logger == nil {
		logger = logging.NewSlogServiceLogger(slog.New(slog.DiscardHandler))
	}
	return &Orchestrator{cfg: cfg, sender: sender, logger: logger}, nil
}

// SendRawTicket publishes an incoming ticket to the raw channel.
func (o *Orchestrator) SendRawTicket(ctx context.Context, raw ticket.RawTicket) error {
	payload := raw.Fields()
	if _, ok := payload["source"]; !ok {
		payload["source"] = "unknown"
	}
	payload["ingestion_timestamp"] = stageTimestamp()
	payload["flow_stage"] = StageRaw

	if err := o.sender.Send(ctx, o.cfg.Topics.RawTickets, payload, raw.TicketID, MethodRawReceived); err != nil {
		return &StageError{Stage: StageRaw, Err: err}
	}
	o.logger.Debug("raw ticket sent", logging.LogFields{"ticket_id": raw.TicketID})
	return nil
}

// SendProcessedTicket publishes a sentiment-scored ticket to the processed
// channel.
func (o *Orchestrator) SendProcessedTicket(ctx context.Context, processed ticket.ProcessedTicket) error {
	payload := processed.Fields()
	payload["processing_timestamp"] = stageTimestamp()
	payload["flow_stage"] = StageProcessed

	if err := o.sender.Send(ctx, o.cfg.Topics.ProcessedTickets, payload, processed.TicketID, MethodTicketProcessed); err != nil {
		return &StageError{Stage: StageProcessed, Err: err}
	}
	o.logger.Debug("processed ticket sent", logging.LogFields{"ticket_id": processed.TicketID})
	return nil
}

// SendAIResponse publishes a generated reply payload to the responses
// channel. The payload's ticket_id, when present, becomes the partition key.
func (o *Orchestrator) SendAIResponse(ctx context.Context, payload map[string]any) error {
	if payload == nil {
		return &StageError{Stage: StageAIResponse, Err: errspkg.ErrPayloadRequired}
	}
	key, _ := payload["ticket_id"].(string)
	if key == "" {
		key = "unknown"
	}
	payload["ai_timestamp"] = stageTimestamp()
	payload["flow_stage"] = StageAIResponse

	if err := o.sender.Send(ctx, o.cfg.Topics.AIResponses, payload, key, MethodResponseGenerated); err != nil {
		return &StageError{Stage: StageAIResponse, Err: err}
	}
	o.logger.Debug("ai response sent", logging.LogFields{"ticket_id": key})
	return nil
}

// Run pushes one ticket through all three stages in order. The AI stage is
// enriched with the ticket ID, the original message, and a condensed
// sentiment summary. The first failing stage halts the run; earlier stages
// are not rolled back.
func (o *Orchestrator) Run(ctx context.Context, raw ticket.RawTicket, processed ticket.ProcessedTicket, ai ticket.AIResponse) error {
	o.logger.Info("processing ticket flow", logging.LogFields{
		"ticket_id": raw.TicketID,
		"source":    raw.Source,
	})

	if err := o.SendRawTicket(ctx, raw); err != nil {
		return err
	}
	if err := o.SendProcessedTicket(ctx, processed); err != nil {
		return err
	}

	enriched := ai.Fields()
	enriched["ticket_id"] = raw.TicketID
	enriched["original_message"] = raw.Message
	enriched["sentiment_analysis"] = processed.SentimentSummary()

	if err := o.SendAIResponse(ctx, enriched); err != nil {
		return err
	}

	o.logger.Info("ticket flow complete", logging.LogFields{"ticket_id": raw.TicketID})
	return nil
}

// Status reports the orchestrator's mode and configured channels.
func (o *Orchestrator) Status() Status {
	mode := "live"
	if o.cfg.DemoMode {
		mode = "demo"
	}
	return Status{Mode: mode, Channels: o.cfg.Topics}
}

func stageTimestamp() string {
	return time.Now().Format(time.RFC3339Nano)
}
