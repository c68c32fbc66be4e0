package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drblury/ticketflow/internal/runtime/airesponse"
	"github.com/drblury/ticketflow/internal/runtime/jsonrpc"
	"github.com/drblury/ticketflow/internal/runtime/logging"
	"github.com/drblury/ticketflow/internal/runtime/sentiment"
	"github.com/drblury/ticketflow/internal/runtime/ticket"
)

// Version reported by system.health and system.version.
const Version = "1.0.0"

// Service tags identifying which subsystem answered an RPC call.
const (
	serviceSentiment  = "sentiment_analyzer"
	serviceTicket     = "ticket_processor"
	serviceAIResponse = "ai_response_generator"
	serviceEscalation = "escalation_checker"
)

// TicketService binds the ticket pipeline's domain operations to JSON-RPC
// method names on a Processor.
type TicketService struct {
	processor *jsonrpc.Processor
	analyzer  sentiment.Analyzer
	pipeline  *sentiment.Processor
	generator airesponse.Generator
	logger    logging.ServiceLogger
}

// TicketServiceOption configures a TicketService.
type TicketServiceOption func(*TicketService)

// WithAnalyzer swaps the sentiment analyzer capability.
func WithAnalyzer(a sentiment.Analyzer) TicketServiceOption {
	return func(s *TicketService) { s.analyzer = a }
}

// WithGenerator swaps the response generation capability.
func WithGenerator(g airesponse.Generator) TicketServiceOption {
	return func(s *TicketService) { s.generator = g }
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger logging.ServiceLogger) TicketServiceOption {
	return func(s *TicketService) { s.logger = logger }
}

// NewTicketService builds the service and registers its six methods:
// sentiment.analyze, ticket.process, ai.generate_response, escalation.check,
// system.health, and system.version.
func NewTicketService(opts ...TicketServiceOption) *TicketService {
	s := &TicketService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewSlogServiceLogger(slog.New(slog.DiscardHandler))
	}
	if s.analyzer == nil {
		s.analyzer = sentiment.NewLexiconAnalyzer()
	}
	if s.generator == nil {
		s.generator = airesponse.NewTemplateGenerator()
	}
	s.pipeline = sentiment.NewProcessor(s.analyzer)
	s.processor = jsonrpc.NewProcessor(s.logger)

	s.processor.Register("sentiment.analyze", s.analyzeSentiment)
	s.processor.Register("ticket.process", s.processTicket)
	s.processor.Register("ai.generate_response", s.generateAIResponse)
	s.processor.Register("escalation.check", s.checkEscalation)
	s.processor.Register("system.health", s.systemHealth)
	s.processor.Register("system.version", s.systemVersion)

	return s
}

// Processor exposes the underlying JSON-RPC processor, e.g. for mounting the
// HTTP endpoint or registering extra methods.
func (s *TicketService) Processor() *jsonrpc.Processor { return s.processor }

// Handle processes a raw JSON-RPC request and returns the serialized
// response.
func (s *TicketService) Handle(ctx context.Context, data []byte) ([]byte, error) {
	return s.processor.Handle(ctx, data)
}

func (s *TicketService) analyzeSentiment(_ context.Context, params jsonrpc.Params) (any, error) {
	message, err := stringArg(params, 0, "message")
	if err != nil {
		return nil, err
	}

	result := s.analyzer.Analyze(message)
	return map[string]any{
		"sentiment":    result.Sentiment,
		"polarity":     result.Polarity,
		"subjectivity": result.Subjectivity,
		"confidence":   0.8,
		"timestamp":    rpcTimestamp(),
		"service":      serviceSentiment,
	}, nil
}

func (s *TicketService) processTicket(_ context.Context, params jsonrpc.Params) (any, error) {
	data, err := mapArg(params, 0, "ticket_data")
	if err != nil {
		return nil, err
	}

	raw := rawTicketFromMap(data)
	processed := s.pipeline.Process(raw)

	result := processed.Fields()
	result["processed_at"] = rpcTimestamp()
	result["service"] = serviceTicket
	return result, nil
}

func (s *TicketService) generateAIResponse(_ context.Context, params jsonrpc.Params) (any, error) {
	data, err := mapArg(params, 0, "ticket_data")
	if err != nil {
		return nil, err
	}

	resp, err := s.generator.Generate(processedTicketFromMap(data))
	if err != nil {
		return nil, fmt.Errorf("AI response generation failed: %w", err)
	}

	result := resp.Fields()
	result["generated_at"] = rpcTimestamp()
	result["service"] = serviceAIResponse
	return result, nil
}

// checkEscalation flags a ticket for escalation when its sentiment is
// negative with polarity below -0.3, or when any urgency keywords were
// detected. The reported score is abs(polarity) for negative polarity and 0
// otherwise, so urgency-only escalations score 0.
func (s *TicketService) checkEscalation(_ context.Context, params jsonrpc.Params) (any, error) {
	data, err := mapArg(params, 0, "ticket_data")
	if err != nil {
		return nil, err
	}

	label, _ := data["sentiment"].(string)
	polarity := floatField(data, "polarity")
	urgencyKeywords := stringSliceField(data, "urgency_keywords")

	negativeSentiment := label == sentiment.Negative && polarity < -0.3
	needsEscalation := negativeSentiment || len(urgencyKeywords) > 0

	score := 0.0
	if polarity < 0 {
		score = -polarity
	}

	return map[string]any{
		"needs_escalation": needsEscalation,
		"escalation_score": score,
		"reasons": map[string]any{
			"negative_sentiment":     negativeSentiment,
			"urgency_keywords":       len(urgencyKeywords) > 0,
			"urgency_keywords_found": urgencyKeywords,
		},
		"checked_at": rpcTimestamp(),
		"service":    serviceEscalation,
	}, nil
}

func (s *TicketService) systemHealth(context.Context, jsonrpc.Params) (any, error) {
	return map[string]any{
		"status":    "healthy",
		"timestamp": rpcTimestamp(),
		"services": map[string]any{
			serviceSentiment:  "active",
			serviceTicket:     "active",
			serviceAIResponse: "active",
			serviceEscalation: "active",
		},
		"version":         Version,
		"jsonrpc_version": jsonrpc.Version,
	}, nil
}

func (s *TicketService) systemVersion(context.Context, jsonrpc.Params) (any, error) {
	return map[string]any{
		"application":     "ticketflow",
		"version":         Version,
		"jsonrpc_version": jsonrpc.Version,
		"api_version":     "v1",
		"components": map[string]any{
			"sentiment_analysis": "lexicon",
			"ai_responses":       "template",
			"streaming":          "watermill",
		},
	}, nil
}

// stringArg extracts a required string parameter by position or name.
func stringArg(params jsonrpc.Params, index int, name string) (string, error) {
	value, ok := params.Arg(index, name)
	if !ok {
		return "", fmt.Errorf("%w: missing %s", jsonrpc.ErrInvalidParams, name)
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", jsonrpc.ErrInvalidParams, name)
	}
	return str, nil
}

// mapArg extracts a required object parameter by position or name.
func mapArg(params jsonrpc.Params, index int, name string) (map[string]any, error) {
	value, ok := params.Arg(index, name)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", jsonrpc.ErrInvalidParams, name)
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an object", jsonrpc.ErrInvalidParams, name)
	}
	return m, nil
}

func rawTicketFromMap(data map[string]any) ticket.RawTicket {
	raw := ticket.RawTicket{
		TicketID:   "unknown",
		CustomerID: "unknown",
		Timestamp:  time.Now(),
	}
	if id, ok := data["ticket_id"].(string); ok && id != "" {
		raw.TicketID = id
	}
	if id, ok := data["customer_id"].(string); ok && id != "" {
		raw.CustomerID = id
	}
	if msg, ok := data["message"].(string); ok {
		raw.Message = msg
	}
	if src, ok := data["source"].(string); ok {
		raw.Source = src
	}
	return raw
}

func processedTicketFromMap(data map[string]any) ticket.ProcessedTicket {
	p := ticket.ProcessedTicket{}
	if id, ok := data["ticket_id"].(string); ok {
		p.TicketID = id
	}
	if id, ok := data["customer_id"].(string); ok {
		p.CustomerID = id
	}
	if msg, ok := data["original_message"].(string); ok {
		p.OriginalMessage = msg
	} else if msg, ok := data["message"].(string); ok {
		p.OriginalMessage = msg
	}
	if label, ok := data["sentiment"].(string); ok {
		p.Sentiment = label
	}
	if priority, ok := data["priority"].(string); ok {
		p.Priority = priority
	}
	p.Polarity = floatField(data, "polarity")
	p.Subjectivity = floatField(data, "subjectivity")
	p.EscalationScore = floatField(data, "escalation_score")
	p.UrgencyScore = floatField(data, "urgency_score")
	if needs, ok := data["needs_escalation"].(bool); ok {
		p.NeedsEscalation = needs
	}
	return p
}

func floatField(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func stringSliceField(data map[string]any, key string) []string {
	raw, ok := data[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func rpcTimestamp() string {
	return time.Now().Format(time.RFC3339Nano)
}
