// Package ticket defines the three message variants that travel through the
// support pipeline: the raw customer message, the sentiment-scored ticket,
// and the generated reply. Each variant converts to a flat field map for
// stream payloads through an explicit Fields method.
package ticket

import "time"

// RawTicket is an unprocessed customer support message as it enters the
// pipeline.
type RawTicket struct {
	TicketID   string    `json:"ticket_id"`
	CustomerID string    `json:"customer_id"`
	Message    string    `json:"message"`
	Source     string    `json:"source,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Fields returns the ticket as a payload map for stream transmission.
func (t RawTicket) Fields() map[string]any {
	m := map[string]any{
		"ticket_id":   t.TicketID,
		"customer_id": t.CustomerID,
		"message":     t.Message,
		"timestamp":   formatTime(t.Timestamp),
	}
	if t.Source != "" {
		m["source"] = t.Source
	}
	return m
}

// ProcessedTicket is a raw ticket enriched with sentiment scoring.
type ProcessedTicket struct {
	TicketID        string    `json:"ticket_id"`
	CustomerID      string    `json:"customer_id"`
	OriginalMessage string    `json:"original_message"`
	Sentiment       string    `json:"sentiment"`
	Polarity        float64   `json:"polarity"`
	Subjectivity    float64   `json:"subjectivity"`
	EscalationScore float64   `json:"escalation_score"`
	UrgencyScore    float64   `json:"urgency_score"`
	Priority        string    `json:"priority"`
	NeedsEscalation bool      `json:"needs_escalation"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// Fields returns the processed ticket as a payload map.
func (t ProcessedTicket) Fields() map[string]any {
	return map[string]any{
		"ticket_id":        t.TicketID,
		"customer_id":      t.CustomerID,
		"original_message": t.OriginalMessage,
		"sentiment":        t.Sentiment,
		"polarity":         t.Polarity,
		"subjectivity":     t.Subjectivity,
		"escalation_score": t.EscalationScore,
		"urgency_score":    t.UrgencyScore,
		"priority":         t.Priority,
		"needs_escalation": t.NeedsEscalation,
		"processed_at":     formatTime(t.ProcessedAt),
	}
}

// SentimentSummary condenses the scoring fields relevant to response
// routing. The flow orchestrator attaches this to the AI response stage.
func (t ProcessedTicket) SentimentSummary() map[string]any {
	return map[string]any{
		"sentiment":        t.Sentiment,
		"polarity":         t.Polarity,
		"priority":         t.Priority,
		"needs_escalation": t.NeedsEscalation,
	}
}

// AIResponse is a generated reply for a processed ticket.
type AIResponse struct {
	Response     string    `json:"ai_response"`
	ResponseType string    `json:"response_type"`
	Confidence   float64   `json:"confidence"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Fields returns the response as a payload map.
func (r AIResponse) Fields() map[string]any {
	return map[string]any{
		"ai_response":   r.Response,
		"response_type": r.ResponseType,
		"confidence":    r.Confidence,
		"generated_at":  formatTime(r.GeneratedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(time.RFC3339Nano)
}
