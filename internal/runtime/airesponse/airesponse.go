// Package airesponse generates replies for processed tickets. Real response
// generation is an external capability; the TemplateGenerator ships canned
// replies keyed by sentiment and priority for demos and tests.
package airesponse

import (
	"fmt"
	"time"

	"github.com/drblury/ticketflow/internal/runtime/sentiment"
	"github.com/drblury/ticketflow/internal/runtime/ticket"
)

// Generator produces a reply for a processed ticket.
type Generator interface {
	Generate(processed ticket.ProcessedTicket) (ticket.AIResponse, error)
}

// TemplateGenerator picks a canned reply based on the ticket's sentiment and
// priority. It never fails.
type TemplateGenerator struct{}

// NewTemplateGenerator returns a ready-to-use template generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Generate returns a templated reply for the ticket.
func (g *TemplateGenerator) Generate(processed ticket.ProcessedTicket) (ticket.AIResponse, error) {
	return ticket.AIResponse{
		Response:     g.pick(processed),
		ResponseType: "template",
		Confidence:   0.8,
		GeneratedAt:  time.Now(),
	}, nil
}

func (g *TemplateGenerator) pick(processed ticket.ProcessedTicket) string {
	if processed.NeedsEscalation {
		return fmt.Sprintf(
			"We sincerely apologize for the experience you've had. Your ticket %s has been escalated to a senior support specialist who will contact you shortly.",
			processed.TicketID)
	}

	switch processed.Sentiment {
	case sentiment.Negative:
		if processed.Priority == sentiment.PriorityHigh || processed.Priority == sentiment.PriorityMedium {
			return "We're sorry for the trouble you're experiencing. Our team is looking into this with high priority and will get back to you as soon as possible."
		}
		return "We apologize for the inconvenience. A support agent will follow up on your request shortly."
	case sentiment.Positive:
		return "Thank you for your kind words! We're glad we could help. Don't hesitate to reach out if you need anything else."
	default:
		return "Thank you for contacting support. We've received your request and will respond within one business day."
	}
}
