package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drblury/ticketflow/internal/runtime/jsoncodec"
	"github.com/drblury/ticketflow/internal/runtime/jsonrpc"
)

func dispatch(t *testing.T, s *TicketService, method string, params jsonrpc.Params) map[string]any {
	t.Helper()
	resp := s.Processor().Dispatch(context.Background(), jsonrpc.NewRequestWithID(method, params, "test-1"))
	require.Nil(t, resp.Err, "unexpected RPC error: %+v", resp.Err)
	result, ok := resp.Result.(map[string]any)
	require.True(t, ok, "result should be an object, got %T", resp.Result)
	return result
}

func dispatchErr(t *testing.T, s *TicketService, method string, params jsonrpc.Params) *jsonrpc.Error {
	t.Helper()
	resp := s.Processor().Dispatch(context.Background(), jsonrpc.NewRequestWithID(method, params, "test-1"))
	require.NotNil(t, resp.Err, "expected an RPC error")
	return resp.Err
}

func TestTicketServiceRegistersAllMethods(t *testing.T) {
	s := NewTicketService()

	want := []string{
		"sentiment.analyze",
		"ticket.process",
		"ai.generate_response",
		"escalation.check",
		"system.health",
		"system.version",
	}
	got := s.Processor().Methods()
	for _, method := range want {
		assert.Contains(t, got, method)
	}
	assert.Len(t, got, len(want))
}

func TestSentimentAnalyze(t *testing.T) {
	s := NewTicketService()

	t.Run("positional params", func(t *testing.T) {
		result := dispatch(t, s, "sentiment.analyze", jsonrpc.Positional("this is terrible, awful service"))
		assert.Equal(t, "negative", result["sentiment"])
		assert.Equal(t, serviceSentiment, result["service"])
		assert.NotEmpty(t, result["timestamp"])
	})

	t.Run("named params", func(t *testing.T) {
		result := dispatch(t, s, "sentiment.analyze", jsonrpc.Named(map[string]any{"message": "thank you, great support"}))
		assert.Equal(t, "positive", result["sentiment"])
	})

	t.Run("missing message is invalid params", func(t *testing.T) {
		rpcErr := dispatchErr(t, s, "sentiment.analyze", jsonrpc.Params{})
		assert.Equal(t, jsonrpc.CodeInvalidParams, rpcErr.Code)
	})

	t.Run("non-string message is invalid params", func(t *testing.T) {
		rpcErr := dispatchErr(t, s, "sentiment.analyze", jsonrpc.Positional(42))
		assert.Equal(t, jsonrpc.CodeInvalidParams, rpcErr.Code)
	})
}

func TestTicketProcess(t *testing.T) {
	s := NewTicketService()

	result := dispatch(t, s, "ticket.process", jsonrpc.Positional(map[string]any{
		"ticket_id":   "T001",
		"customer_id": "C001",
		"message":     "I am furious, this is unacceptable!",
	}))

	assert.Equal(t, "T001", result["ticket_id"])
	assert.Equal(t, "C001", result["customer_id"])
	assert.Equal(t, "negative", result["sentiment"])
	assert.Equal(t, serviceTicket, result["service"])
	assert.NotEmpty(t, result["processed_at"])
}

func TestTicketProcessDefaultsUnknownIDs(t *testing.T) {
	s := NewTicketService()

	result := dispatch(t, s, "ticket.process", jsonrpc.Positional(map[string]any{
		"message": "hello",
	}))

	assert.Equal(t, "unknown", result["ticket_id"])
	assert.Equal(t, "unknown", result["customer_id"])
}

func TestGenerateAIResponse(t *testing.T) {
	s := NewTicketService()

	result := dispatch(t, s, "ai.generate_response", jsonrpc.Named(map[string]any{
		"ticket_data": map[string]any{
			"ticket_id": "T002",
			"sentiment": "negative",
			"polarity":  -0.7,
			"priority":  "high",
		},
	}))

	assert.NotEmpty(t, result["ai_response"])
	assert.Equal(t, "template", result["response_type"])
	assert.Equal(t, serviceAIResponse, result["service"])
	assert.NotEmpty(t, result["generated_at"])
}

func TestEscalationCheck(t *testing.T) {
	s := NewTicketService()

	t.Run("negative sentiment below threshold escalates", func(t *testing.T) {
		result := dispatch(t, s, "escalation.check", jsonrpc.Positional(map[string]any{
			"sentiment":        "negative",
			"polarity":         -0.5,
			"urgency_keywords": []any{},
		}))

		assert.Equal(t, true, result["needs_escalation"])
		assert.Equal(t, 0.5, result["escalation_score"])
		assert.Equal(t, serviceEscalation, result["service"])
	})

	t.Run("urgency keywords alone escalate with zero score", func(t *testing.T) {
		result := dispatch(t, s, "escalation.check", jsonrpc.Positional(map[string]any{
			"sentiment":        "positive",
			"polarity":         0.4,
			"urgency_keywords": []any{"urgent"},
		}))

		assert.Equal(t, true, result["needs_escalation"])
		assert.Equal(t, 0.0, result["escalation_score"])

		reasons, ok := result["reasons"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, false, reasons["negative_sentiment"])
		assert.Equal(t, true, reasons["urgency_keywords"])
		assert.Equal(t, []string{"urgent"}, reasons["urgency_keywords_found"])
	})

	t.Run("mildly negative without urgency does not escalate", func(t *testing.T) {
		result := dispatch(t, s, "escalation.check", jsonrpc.Positional(map[string]any{
			"sentiment": "negative",
			"polarity":  -0.2,
		}))

		assert.Equal(t, false, result["needs_escalation"])
		assert.Equal(t, 0.2, result["escalation_score"])
	})
}

func TestSystemHealth(t *testing.T) {
	s := NewTicketService()

	result := dispatch(t, s, "system.health", jsonrpc.Params{})
	assert.Equal(t, "healthy", result["status"])
	assert.Equal(t, Version, result["version"])
	assert.Equal(t, jsonrpc.Version, result["jsonrpc_version"])

	services, ok := result["services"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "active", services[serviceSentiment])
	assert.Equal(t, "active", services[serviceEscalation])
}

func TestSystemVersion(t *testing.T) {
	s := NewTicketService()

	result := dispatch(t, s, "system.version", jsonrpc.Params{})
	assert.Equal(t, "ticketflow", result["application"])
	assert.Equal(t, "v1", result["api_version"])
}

func TestHandleEndToEnd(t *testing.T) {
	s := NewTicketService()

	raw := []byte(`{"jsonrpc":"2.0","method":"sentiment.analyze","params":["I love this product"],"id":"req-7"}`)
	out, err := s.Handle(context.Background(), raw)
	require.NoError(t, err)

	var resp jsonrpc.Response
	require.NoError(t, jsoncodec.Unmarshal(out, &resp))
	assert.Equal(t, "req-7", resp.ID)
	require.Nil(t, resp.Err)

	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "positive", result["sentiment"])
}

func TestHandleUnknownMethod(t *testing.T) {
	s := NewTicketService()

	out, err := s.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","method":"nope","id":1}`))
	require.NoError(t, err)

	var resp jsonrpc.Response
	require.NoError(t, jsoncodec.Unmarshal(out, &resp))
	require.NotNil(t, resp.Err)
	assert.Equal(t, jsonrpc.CodeMethodNotFound, resp.Err.Code)
}
