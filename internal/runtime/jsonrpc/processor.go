package jsonrpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	jsoncodec "github.com/drblury/ticketflow/internal/runtime/jsoncodec"
	loggingpkg "github.com/drblury/ticketflow/internal/runtime/logging"
)

// ErrInvalidParams marks handler failures caused by wrong or missing
// arguments. Handlers wrap it with fmt.Errorf("%w: ...") so the processor
// reports the failure with the Invalid Params code instead of Internal Error.
var ErrInvalidParams = errors.New("invalid params")

// HandlerFunc is a registered method implementation. It receives the
// request's parameter union and returns the result to wrap in the success
// response.
type HandlerFunc func(ctx context.Context, params Params) (any, error)

// Middleware transforms an inbound request before dispatch. Returning a
// non-nil request replaces the current one; returning an error aborts
// processing and yields an Internal Error response. Middlewares run in
// registration order.
type Middleware func(ctx context.Context, req *Request) (*Request, error)

// Processor dispatches JSON-RPC 2.0 requests to registered methods.
//
// Registration is a single-owner setup phase: call Register and Use before
// serving traffic. Once dispatch has started the registry and middleware
// chain are read-only, so concurrent Dispatch calls need no locking.
type Processor struct {
	methods    map[string]HandlerFunc
	middleware []Middleware
	logger     loggingpkg.ServiceLogger
}

// NewProcessor constructs an empty processor. A nil logger discards output.
func NewProcessor(logger loggingpkg.ServiceLogger) *Processor {
	if logger == nil {
		logger = loggingpkg.NewSlogServiceLogger(slog.New(slog.DiscardHandler))
	}
	return &Processor{
		methods: make(map[string]HandlerFunc),
		logger:  logger,
	}
}

// Register stores the handler under the given method name. Registering the
// same name again silently replaces the previous handler.
func (p *Processor) Register(name string, handler HandlerFunc) {
	p.methods[name] = handler
	p.logger.Debug("registered rpc method", loggingpkg.LogFields{"method": name})
}

// Use appends a middleware to the chain.
func (p *Processor) Use(mw Middleware) {
	p.middleware = append(p.middleware, mw)
}

// Methods returns the registered method names.
func (p *Processor) Methods() []string {
	names := make([]string, 0, len(p.methods))
	for name := range p.methods {
		names = append(names, name)
	}
	return names
}

// Parse decodes wire data into a request. On failure it returns a pre-built
// error response instead: Parse Error for syntactically invalid data,
// Invalid Request for anything that is valid JSON but not a conformant
// request object. Exactly one of the two return values is non-nil.
func (p *Processor) Parse(data []byte) (*Request, *Response) {
	var probe any
	if err := jsoncodec.Unmarshal(data, &probe); err != nil {
		p.logger.Error("rpc parse error", err, nil)
		return nil, NewErrorResponse(CodeParseError, "Parse error", err.Error(), nil)
	}

	obj, ok := probe.(map[string]any)
	if !ok {
		return nil, NewErrorResponse(CodeInvalidRequest, "Invalid Request - must be JSON object", nil, nil)
	}
	if obj["jsonrpc"] != Version {
		return nil, NewErrorResponse(CodeInvalidRequest, "Invalid Request - missing or invalid jsonrpc version", nil, nil)
	}
	method, present := obj["method"]
	if !present {
		return nil, NewErrorResponse(CodeInvalidRequest, "Invalid Request - missing method", nil, nil)
	}
	if _, isString := method.(string); !isString {
		return nil, NewErrorResponse(CodeInvalidRequest, "Invalid Request - method must be a string", nil, nil)
	}

	var req Request
	if err := jsoncodec.Unmarshal(data, &req); err != nil {
		return nil, NewErrorResponse(CodeInvalidRequest, fmt.Sprintf("Invalid Request - %v", err), nil, nil)
	}
	return &req, nil
}

// Dispatch runs the middleware chain and invokes the requested method,
// always returning a well-formed response. A request without an identifier
// is a notification; the response is produced anyway and the transport
// decides whether to send it back.
func (p *Processor) Dispatch(ctx context.Context, req *Request) *Response {
	for _, mw := range p.middleware {
		next, err := mw(ctx, req)
		if err != nil {
			p.logger.Error("rpc middleware error", err, loggingpkg.LogFields{"method": req.Method})
			return NewErrorResponse(CodeInternalError, fmt.Sprintf("Middleware error: %v", err), nil, req.ID)
		}
		if next != nil {
			req = next
		}
	}

	handler, ok := p.methods[req.Method]
	if !ok {
		p.logger.Info("rpc method not found", loggingpkg.LogFields{"method": req.Method})
		return NewErrorResponse(CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), nil, req.ID)
	}

	if !req.Params.IsValid() {
		return NewErrorResponse(CodeInvalidParams, "Invalid params: params must be array or object", nil, req.ID)
	}

	result, err := handler(ctx, req.Params)
	if err != nil {
		return p.errorResponseFor(req, err)
	}

	p.logger.Debug("rpc method executed", loggingpkg.LogFields{"method": req.Method})
	return NewResponse(result, req.ID)
}

func (p *Processor) errorResponseFor(req *Request, err error) *Response {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return NewErrorResponse(rpcErr.Code, rpcErr.Message, rpcErr.Data, req.ID)
	}
	if errors.Is(err, ErrInvalidParams) {
		p.logger.Error("rpc invalid params", err, loggingpkg.LogFields{"method": req.Method})
		return NewErrorResponse(CodeInvalidParams, fmt.Sprintf("Invalid params: %v", err), nil, req.ID)
	}
	p.logger.Error("rpc method execution error", err, loggingpkg.LogFields{"method": req.Method})
	return NewErrorResponse(CodeInternalError, fmt.Sprintf("Method execution error: %v", err), nil, req.ID)
}

// Handle is the single entry point for wire data: parse, dispatch, encode.
// Malformed input yields an encoded error response, never a Go error; the
// returned error is only set when the response itself cannot be encoded.
func (p *Processor) Handle(ctx context.Context, data []byte) ([]byte, error) {
	req, errResp := p.Parse(data)
	if errResp != nil {
		return jsoncodec.Marshal(errResp)
	}
	return jsoncodec.Marshal(p.Dispatch(ctx, req))
}
