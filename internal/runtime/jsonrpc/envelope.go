// Package jsonrpc implements the JSON-RPC 2.0 envelope model and a small
// request processor with a method registry and middleware chain. It is the
// wire protocol used between pipeline services and, optionally, for messages
// published to the broker.
//
// Spec: https://www.jsonrpc.org/specification
package jsonrpc

import (
	"bytes"
	"fmt"

	idspkg "github.com/drblury/ticketflow/internal/runtime/ids"
	jsoncodec "github.com/drblury/ticketflow/internal/runtime/jsoncodec"
)

// Version is the protocol version carried by every request and response.
const Version = "2.0"

// Reserved JSON-RPC 2.0 error codes. Application-specific codes must be
// positive; -32000..-32099 is reserved for server-defined errors.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	CodeServerErrorStart = -32099
	CodeServerErrorEnd   = -32000
)

// Error is the JSON-RPC 2.0 error object. It doubles as a Go error so
// handlers can return it directly to control the response code.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc: %d %s", e.Code, e.Message)
}

// NewError constructs an error object with the given code and message.
func NewError(code int, message string, data any) *Error {
	return &Error{Code: code, Message: message, Data: data}
}

type paramsKind uint8

const (
	paramsNone paramsKind = iota
	paramsPositional
	paramsNamed
	paramsInvalid
)

// Params is the calling-convention union for a request's parameters: absent,
// a positional sequence, or a named mapping. The shape is decided once when
// the request is decoded and carried through dispatch. A wire value that is
// neither array nor object decodes to the invalid shape instead of failing,
// so dispatch can answer it with an Invalid Params error.
type Params struct {
	kind       paramsKind
	positional []any
	named      map[string]any
	raw        string
}

// Positional builds a positional parameter list.
func Positional(values ...any) Params {
	return Params{kind: paramsPositional, positional: values}
}

// Named builds a named parameter mapping.
func Named(values map[string]any) Params {
	return Params{kind: paramsNamed, named: values}
}

// IsZero reports whether no parameters are present.
func (p Params) IsZero() bool { return p.kind == paramsNone }

// IsValid reports whether the parameters have an acceptable shape
// (absent, positional, or named).
func (p Params) IsValid() bool { return p.kind != paramsInvalid }

// Positional returns the positional values, if that is the calling convention.
func (p Params) Positional() ([]any, bool) {
	return p.positional, p.kind == paramsPositional
}

// Named returns the named values, if that is the calling convention.
func (p Params) Named() (map[string]any, bool) {
	return p.named, p.kind == paramsNamed
}

// Len returns the number of parameters regardless of convention.
func (p Params) Len() int {
	switch p.kind {
	case paramsPositional:
		return len(p.positional)
	case paramsNamed:
		return len(p.named)
	default:
		return 0
	}
}

// Arg resolves one argument by position or by name, depending on which
// convention the caller used. Handlers use it to accept either shape.
func (p Params) Arg(index int, name string) (any, bool) {
	switch p.kind {
	case paramsPositional:
		if index < 0 || index >= len(p.positional) {
			return nil, false
		}
		return p.positional[index], true
	case paramsNamed:
		v, ok := p.named[name]
		return v, ok
	default:
		return nil, false
	}
}

func (p Params) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case paramsPositional:
		return jsoncodec.Marshal(p.positional)
	case paramsNamed:
		return jsoncodec.Marshal(p.named)
	case paramsInvalid:
		return []byte(p.raw), nil
	default:
		return []byte("null"), nil
	}
}

func (p *Params) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Params{}
		return nil
	}
	switch trimmed[0] {
	case '[':
		var values []any
		if err := jsoncodec.Unmarshal(trimmed, &values); err != nil {
			return err
		}
		*p = Params{kind: paramsPositional, positional: values}
	case '{':
		var values map[string]any
		if err := jsoncodec.Unmarshal(trimmed, &values); err != nil {
			return err
		}
		*p = Params{kind: paramsNamed, named: values}
	default:
		// Tolerated at decode time; rejected during dispatch.
		*p = Params{kind: paramsInvalid, raw: string(trimmed)}
	}
	return nil
}

// Request is the JSON-RPC 2.0 request object. A nil ID marks a notification:
// no response is expected by the sender, although the processor still
// produces one for uniformity.
type Request struct {
	JSONRPC string
	Method  string
	Params  Params
	ID      any
}

// NewRequest creates a request with a freshly generated UUID identifier.
func NewRequest(method string, params Params) *Request {
	return NewRequestWithID(method, params, nil)
}

// NewRequestWithID creates a request with the supplied identifier. A nil id
// is replaced with a generated UUID; use NewNotification for id-less
// requests.
func NewRequestWithID(method string, params Params, id any) *Request {
	if id == nil {
		id = idspkg.NewRequestID()
	}
	return &Request{JSONRPC: Version, Method: method, Params: params, ID: id}
}

// NewNotification creates a request without an identifier.
func NewNotification(method string, params Params) *Request {
	return &Request{JSONRPC: Version, Method: method, Params: params}
}

type wireRequest struct {
	JSONRPC string  `json:"jsonrpc"`
	Method  string  `json:"method"`
	Params  *Params `json:"params,omitempty"`
	ID      *any    `json:"id,omitempty"`
}

func (r *Request) MarshalJSON() ([]byte, error) {
	w := wireRequest{JSONRPC: r.JSONRPC, Method: r.Method}
	if !r.Params.IsZero() {
		w.Params = &r.Params
	}
	if r.ID != nil {
		id := r.ID
		w.ID = &id
	}
	return jsoncodec.Marshal(w)
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var w wireRequest
	if err := jsoncodec.Unmarshal(data, &w); err != nil {
		return err
	}
	r.JSONRPC = w.JSONRPC
	r.Method = w.Method
	if w.Params != nil {
		r.Params = *w.Params
	} else {
		r.Params = Params{}
	}
	if w.ID != nil {
		r.ID = *w.ID
	} else {
		r.ID = nil
	}
	return nil
}

// Response is the JSON-RPC 2.0 response object. Exactly one of Result and
// Err is populated; the wire form carries result XOR error. The ID echoes
// the request's and is omitted only when the request could not be parsed at
// all.
type Response struct {
	JSONRPC string
	ID      any
	Result  any
	Err     *Error
}

// NewResponse creates a success response for the given request identifier.
func NewResponse(result any, id any) *Response {
	return &Response{JSONRPC: Version, ID: id, Result: result}
}

// NewErrorResponse creates an error response for the given request identifier.
func NewErrorResponse(code int, message string, data any, id any) *Response {
	return &Response{JSONRPC: Version, ID: id, Err: NewError(code, message, data)}
}

type wireResponse struct {
	JSONRPC string `json:"jsonrpc"`
	Result  *any   `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      *any   `json:"id,omitempty"`
}

func (r *Response) MarshalJSON() ([]byte, error) {
	w := wireResponse{JSONRPC: r.JSONRPC}
	if r.Err != nil {
		w.Error = r.Err
	} else {
		result := r.Result
		w.Result = &result
	}
	if r.ID != nil {
		id := r.ID
		w.ID = &id
	}
	return jsoncodec.Marshal(w)
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var w wireResponse
	if err := jsoncodec.Unmarshal(data, &w); err != nil {
		return err
	}
	r.JSONRPC = w.JSONRPC
	r.Err = w.Error
	if w.Result != nil {
		r.Result = *w.Result
	} else {
		r.Result = nil
	}
	if w.ID != nil {
		r.ID = *w.ID
	} else {
		r.ID = nil
	}
	return nil
}
