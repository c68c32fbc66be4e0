package sentiment

import (
	"time"

	"github.com/drblury/ticketflow/internal/runtime/ticket"
)

// Processor turns raw tickets into processed tickets by running them through
// an Analyzer.
type Processor struct {
	analyzer Analyzer
}

// NewProcessor returns a Processor using the given analyzer, or the default
// lexicon analyzer when nil.
func NewProcessor(analyzer Analyzer) *Processor {
	if analyzer == nil {
		analyzer = NewLexiconAnalyzer()
	}
	return &Processor{analyzer: analyzer}
}

// Process scores the raw ticket's message and returns the processed variant.
func (p *Processor) Process(raw ticket.RawTicket) ticket.ProcessedTicket {
	result := p.analyzer.Analyze(raw.Message)

	return ticket.ProcessedTicket{
		TicketID:        raw.TicketID,
		CustomerID:      raw.CustomerID,
		OriginalMessage: raw.Message,
		Sentiment:       result.Sentiment,
		Polarity:        result.Polarity,
		Subjectivity:    result.Subjectivity,
		EscalationScore: result.EscalationScore,
		UrgencyScore:    result.UrgencyScore,
		Priority:        result.Priority,
		NeedsEscalation: result.NeedsEscalation,
		ProcessedAt:     time.Now(),
	}
}
