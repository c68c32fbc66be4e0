package jsonrpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drblury/ticketflow/internal/runtime/jsoncodec"
)

func echoHandler(_ context.Context, params Params) (any, error) {
	if values, ok := params.Positional(); ok {
		return values, nil
	}
	if values, ok := params.Named(); ok {
		return values, nil
	}
	return nil, nil
}

func TestParse(t *testing.T) {
	p := NewProcessor(nil)

	tests := []struct {
		name     string
		data     string
		wantCode int
		wantMsg  string
	}{
		{"invalid JSON", `{not json`, CodeParseError, "Parse error"},
		{"not an object", `[1,2,3]`, CodeInvalidRequest, "Invalid Request - must be JSON object"},
		{"missing version", `{"method":"x"}`, CodeInvalidRequest, "Invalid Request - missing or invalid jsonrpc version"},
		{"wrong version", `{"jsonrpc":"1.0","method":"x"}`, CodeInvalidRequest, "Invalid Request - missing or invalid jsonrpc version"},
		{"missing method", `{"jsonrpc":"2.0"}`, CodeInvalidRequest, "Invalid Request - missing method"},
		{"non-string method", `{"jsonrpc":"2.0","method":7}`, CodeInvalidRequest, "Invalid Request - method must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, resp := p.Parse([]byte(tt.data))
			assert.Nil(t, req)
			require.NotNil(t, resp)
			require.NotNil(t, resp.Err)
			assert.Equal(t, tt.wantCode, resp.Err.Code)
			assert.Equal(t, tt.wantMsg, resp.Err.Message)
			assert.Nil(t, resp.ID, "pre-dispatch errors carry no request id")
		})
	}
}

func TestParseValidRequest(t *testing.T) {
	p := NewProcessor(nil)

	req, resp := p.Parse([]byte(`{"jsonrpc":"2.0","method":"ticket.process","params":{"ticket_id":"T001"},"id":"req-1"}`))
	require.Nil(t, resp)
	require.NotNil(t, req)
	assert.Equal(t, "ticket.process", req.Method)
	assert.Equal(t, "req-1", req.ID)

	named, ok := req.Params.Named()
	require.True(t, ok)
	assert.Equal(t, "T001", named["ticket_id"])
}

func TestParseNotification(t *testing.T) {
	p := NewProcessor(nil)

	req, resp := p.Parse([]byte(`{"jsonrpc":"2.0","method":"ping"}`))
	require.Nil(t, resp)
	require.NotNil(t, req)
	assert.Nil(t, req.ID)
}

func TestDispatchMethodNotFound(t *testing.T) {
	p := NewProcessor(nil)

	resp := p.Dispatch(context.Background(), NewRequestWithID("missing.method", Params{}, "id-1"))
	require.NotNil(t, resp.Err)
	assert.Equal(t, CodeMethodNotFound, resp.Err.Code)
	assert.Equal(t, "Method not found: missing.method", resp.Err.Message)
	assert.Equal(t, "id-1", resp.ID)
}

func TestDispatchInvalidParamsShape(t *testing.T) {
	p := NewProcessor(nil)
	p.Register("echo", echoHandler)

	// A scalar params value survives parsing but is rejected at dispatch.
	req, resp := p.Parse([]byte(`{"jsonrpc":"2.0","method":"echo","params":"scalar","id":"id-2"}`))
	require.Nil(t, resp)

	out := p.Dispatch(context.Background(), req)
	require.NotNil(t, out.Err)
	assert.Equal(t, CodeInvalidParams, out.Err.Code)
	assert.Equal(t, "id-2", out.ID)
}

func TestDispatchInvokesHandler(t *testing.T) {
	p := NewProcessor(nil)
	p.Register("echo", echoHandler)

	resp := p.Dispatch(context.Background(), NewRequestWithID("echo", Positional("a", "b"), "id-3"))
	require.Nil(t, resp.Err)
	assert.Equal(t, []any{"a", "b"}, resp.Result)
}

func TestDispatchHandlerErrors(t *testing.T) {
	p := NewProcessor(nil)
	p.Register("fails", func(context.Context, Params) (any, error) {
		return nil, errors.New("backend exploded")
	})
	p.Register("bad-params", func(context.Context, Params) (any, error) {
		return nil, fmt.Errorf("%w: message must be a string", ErrInvalidParams)
	})
	p.Register("custom-code", func(context.Context, Params) (any, error) {
		return nil, NewError(-32050, "teapot", nil)
	})

	t.Run("plain error is internal", func(t *testing.T) {
		resp := p.Dispatch(context.Background(), NewRequestWithID("fails", Params{}, 1))
		require.NotNil(t, resp.Err)
		assert.Equal(t, CodeInternalError, resp.Err.Code)
		assert.Equal(t, "Method execution error: backend exploded", resp.Err.Message)
	})

	t.Run("wrapped ErrInvalidParams maps to invalid params", func(t *testing.T) {
		resp := p.Dispatch(context.Background(), NewRequestWithID("bad-params", Params{}, 2))
		require.NotNil(t, resp.Err)
		assert.Equal(t, CodeInvalidParams, resp.Err.Code)
		assert.Contains(t, resp.Err.Message, "message must be a string")
	})

	t.Run("returned Error keeps its code", func(t *testing.T) {
		resp := p.Dispatch(context.Background(), NewRequestWithID("custom-code", Params{}, 3))
		require.NotNil(t, resp.Err)
		assert.Equal(t, -32050, resp.Err.Code)
		assert.Equal(t, "teapot", resp.Err.Message)
	})
}

func TestMiddlewareRunsInOrder(t *testing.T) {
	p := NewProcessor(nil)

	var order []string
	p.Use(func(_ context.Context, req *Request) (*Request, error) {
		order = append(order, "first")
		return nil, nil
	})
	p.Use(func(_ context.Context, req *Request) (*Request, error) {
		order = append(order, "second")
		// Redirect to another method.
		return NewRequestWithID("redirected", req.Params, req.ID), nil
	})
	p.Register("redirected", func(context.Context, Params) (any, error) {
		order = append(order, "handler")
		return "ok", nil
	})

	resp := p.Dispatch(context.Background(), NewRequestWithID("original", Params{}, "id-4"))
	require.Nil(t, resp.Err)
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestMiddlewareErrorAbortsDispatch(t *testing.T) {
	p := NewProcessor(nil)
	p.Use(func(context.Context, *Request) (*Request, error) {
		return nil, errors.New("auth rejected")
	})
	called := false
	p.Register("echo", func(context.Context, Params) (any, error) {
		called = true
		return nil, nil
	})

	resp := p.Dispatch(context.Background(), NewRequestWithID("echo", Params{}, "id-5"))
	require.NotNil(t, resp.Err)
	assert.Equal(t, CodeInternalError, resp.Err.Code)
	assert.Equal(t, "Middleware error: auth rejected", resp.Err.Message)
	assert.Equal(t, "id-5", resp.ID)
	assert.False(t, called, "handler must not run after middleware failure")
}

func TestRegisterReplacesSilently(t *testing.T) {
	p := NewProcessor(nil)
	p.Register("echo", func(context.Context, Params) (any, error) { return "old", nil })
	p.Register("echo", func(context.Context, Params) (any, error) { return "new", nil })

	resp := p.Dispatch(context.Background(), NewRequestWithID("echo", Params{}, 1))
	require.Nil(t, resp.Err)
	assert.Equal(t, "new", resp.Result)
	assert.Len(t, p.Methods(), 1)
}

func TestHandleEndToEnd(t *testing.T) {
	p := NewProcessor(nil)
	p.Register("echo", echoHandler)

	out, err := p.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","method":"echo","params":{"k":"v"},"id":"id-6"}`))
	require.NoError(t, err)

	var resp Response
	require.NoError(t, jsoncodec.Unmarshal(out, &resp))
	require.Nil(t, resp.Err)
	assert.Equal(t, "id-6", resp.ID)

	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "v", result["k"])
}

func TestHandleMalformedInputEncodesErrorResponse(t *testing.T) {
	p := NewProcessor(nil)

	out, err := p.Handle(context.Background(), []byte(`{{{`))
	require.NoError(t, err)

	var resp Response
	require.NoError(t, jsoncodec.Unmarshal(out, &resp))
	require.NotNil(t, resp.Err)
	assert.Equal(t, CodeParseError, resp.Err.Code)
}
