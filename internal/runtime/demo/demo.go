// Package demo supplies canned support tickets for running the pipeline
// without a live broker.
package demo

import (
	"sync"
	"time"

	"github.com/drblury/ticketflow/internal/runtime/ticket"
)

// Generator cycles through a fixed set of sample tickets. Safe for
// concurrent use.
type Generator struct {
	mu      sync.Mutex
	index   int
	tickets []ticket.RawTicket
}

// NewGenerator returns a generator seeded with the built-in samples.
func NewGenerator() *Generator {
	return &Generator{tickets: sampleTickets()}
}

// Next returns the next sample ticket with a fresh timestamp, wrapping
// around after the last one.
func (g *Generator) Next() ticket.RawTicket {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.tickets[g.index]
	g.index = (g.index + 1) % len(g.tickets)
	t.Timestamp = time.Now()
	return t
}

// Len reports how many samples are in the cycle.
func (g *Generator) Len() int { return len(g.tickets) }

func sampleTickets() []ticket.RawTicket {
	return []ticket.RawTicket{
		{
			TicketID:   "T001",
			CustomerID: "C001",
			Message:    "I am absolutely furious! Your service is terrible and I want my money back immediately!",
		},
		{
			TicketID:   "T002",
			CustomerID: "C002",
			Message:    "Hi, I'm having trouble logging into my account. Could you please help me?",
		},
		{
			TicketID:   "T003",
			CustomerID: "C003",
			Message:    "This is unacceptable! I've been waiting for hours and no one has responded. I'm canceling my subscription!",
		},
		{
			TicketID:   "T004",
			CustomerID: "C004",
			Message:    "Thank you for the quick response yesterday. The issue has been resolved.",
		},
		{
			TicketID:   "T005",
			CustomerID: "C005",
			Message:    "URGENT: Our production system is down and we need immediate assistance!",
		},
	}
}
