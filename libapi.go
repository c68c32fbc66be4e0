package ticketflow

import (
	runtimepkg "github.com/drblury/ticketflow/internal/runtime"
	airesponsepkg "github.com/drblury/ticketflow/internal/runtime/airesponse"
	configpkg "github.com/drblury/ticketflow/internal/runtime/config"
	demopkg "github.com/drblury/ticketflow/internal/runtime/demo"
	errspkg "github.com/drblury/ticketflow/internal/runtime/errors"
	flowpkg "github.com/drblury/ticketflow/internal/runtime/flow"
	httpapipkg "github.com/drblury/ticketflow/internal/runtime/httpapi"
	idspkg "github.com/drblury/ticketflow/internal/runtime/ids"
	jsoncodec "github.com/drblury/ticketflow/internal/runtime/jsoncodec"
	jsonrpcpkg "github.com/drblury/ticketflow/internal/runtime/jsonrpc"
	loggingpkg "github.com/drblury/ticketflow/internal/runtime/logging"
	metadatapkg "github.com/drblury/ticketflow/internal/runtime/metadata"
	schemapkg "github.com/drblury/ticketflow/internal/runtime/schema"
	sentimentpkg "github.com/drblury/ticketflow/internal/runtime/sentiment"
	streampkg "github.com/drblury/ticketflow/internal/runtime/stream"
	ticketpkg "github.com/drblury/ticketflow/internal/runtime/ticket"
	transportpkg "github.com/drblury/ticketflow/transport"
)

type (
	// Configuration
	Config = configpkg.Config
	Topics = configpkg.Topics

	// Domain types
	RawTicket       = ticketpkg.RawTicket
	ProcessedTicket = ticketpkg.ProcessedTicket
	AIResponse      = ticketpkg.AIResponse

	// Sentiment analysis
	SentimentResult    = sentimentpkg.Result
	SentimentAnalyzer  = sentimentpkg.Analyzer
	SentimentProcessor = sentimentpkg.Processor
	LexiconAnalyzer    = sentimentpkg.LexiconAnalyzer

	// AI responses
	ResponseGenerator = airesponsepkg.Generator
	TemplateGenerator = airesponsepkg.TemplateGenerator

	// JSON-RPC
	RPCRequest   = jsonrpcpkg.Request
	RPCResponse  = jsonrpcpkg.Response
	RPCError     = jsonrpcpkg.Error
	RPCParams    = jsonrpcpkg.Params
	RPCProcessor = jsonrpcpkg.Processor
	RPCHandler   = jsonrpcpkg.HandlerFunc

	// Service facade
	TicketService       = runtimepkg.TicketService
	TicketServiceOption = runtimepkg.TicketServiceOption

	// Streaming
	StreamClient  = streampkg.Client
	StreamOption  = streampkg.Option
	StreamHandler = streampkg.Handler
	StreamMetrics = streampkg.Metrics

	// Flow orchestration
	Orchestrator = flowpkg.Orchestrator
	FlowSender   = flowpkg.Sender
	FlowStatus   = flowpkg.Status
	StageError   = flowpkg.StageError

	// Schema registry
	SchemaCodec    = schemapkg.Codec
	SchemaRegistry = schemapkg.Registry
	FramedCodec    = schemapkg.FramedCodec

	// HTTP API
	HTTPServer = httpapipkg.Server

	// Demo data
	DemoGenerator = demopkg.Generator

	Metadata = metadatapkg.Metadata

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger

	ConfigValidationError = errspkg.ConfigValidationError

	// Broker backends
	Transport             = transportpkg.Transport
	TransportBuilder      = transportpkg.Builder
	TransportConfig       = transportpkg.Config
	TransportRegistry     = transportpkg.Registry
	TransportCapabilities = transportpkg.Capabilities
)

var (
	// Configuration
	DefaultConfig  = configpkg.Default
	ConfigFromEnv  = configpkg.FromEnv
	ValidateConfig = configpkg.ValidateConfig

	// Service and pipeline constructors
	NewTicketService      = runtimepkg.NewTicketService
	NewSentimentProcessor = sentimentpkg.NewProcessor
	NewLexiconAnalyzer    = sentimentpkg.NewLexiconAnalyzer
	NewTemplateGenerator  = airesponsepkg.NewTemplateGenerator
	WithAnalyzer          = runtimepkg.WithAnalyzer
	WithGenerator         = runtimepkg.WithGenerator
	WithServiceLogger     = runtimepkg.WithServiceLogger

	// JSON-RPC
	NewRPCProcessor  = jsonrpcpkg.NewProcessor
	NewRequest       = jsonrpcpkg.NewRequest
	NewRequestWithID = jsonrpcpkg.NewRequestWithID
	NewNotification  = jsonrpcpkg.NewNotification
	PositionalParams = jsonrpcpkg.Positional
	NamedParams      = jsonrpcpkg.Named

	// Streaming
	NewStreamClient     = streampkg.NewClient
	NewStreamMetrics    = streampkg.NewMetrics
	WithCodecs          = streampkg.WithCodecs
	WithMetrics         = streampkg.WithMetrics
	WithStreamLogger    = streampkg.WithLogger
	DefaultStreamMethod = streampkg.DefaultMethod

	// Flow orchestration
	NewOrchestrator = flowpkg.NewOrchestrator

	// Schema registry
	NewSchemaRegistry = schemapkg.NewRegistry
	NewFramedCodec    = schemapkg.NewFramedCodec

	// HTTP API
	NewHTTPServer = httpapipkg.NewServer

	// Demo data
	NewDemoGenerator = demopkg.NewGenerator

	// Broker backends. Import individual backends via:
	//   _ "github.com/drblury/ticketflow/transport/channel"
	DefaultTransportRegistry = transportpkg.DefaultRegistry
	RegisterTransport        = transportpkg.Register
	BuildTransport           = transportpkg.Build
	TransportCaps            = transportpkg.GetCapabilities

	Marshal       = jsoncodec.Marshal
	MarshalIndent = jsoncodec.MarshalIndent
	Unmarshal     = jsoncodec.Unmarshal
	Encode        = jsoncodec.Encode
	Decode        = jsoncodec.Decode

	ErrConfigRequired     = errspkg.ErrConfigRequired
	ErrLoggerRequired     = errspkg.ErrLoggerRequired
	ErrPublisherRequired  = errspkg.ErrPublisherRequired
	ErrSubscriberRequired = errspkg.ErrSubscriberRequired
	ErrChannelRequired    = errspkg.ErrChannelRequired
	ErrHandlerRequired    = errspkg.ErrHandlerRequired
	ErrPayloadRequired    = errspkg.ErrPayloadRequired
	ErrCodecRequired      = errspkg.ErrCodecRequired

	NewSlogServiceLogger      = loggingpkg.NewSlogServiceLogger
	NewWatermillServiceLogger = loggingpkg.NewWatermillServiceLogger
	NewWatermillAdapter       = loggingpkg.NewWatermillAdapter

	NewMetadata = metadatapkg.New

	CreateULID = idspkg.CreateULID

	// NewRequestID generates a unique JSON-RPC request ID.
	NewRequestID = idspkg.NewRequestID
)

// Sentiment labels and priorities.
const (
	SentimentPositive = sentimentpkg.Positive
	SentimentNegative = sentimentpkg.Negative
	SentimentNeutral  = sentimentpkg.Neutral

	PriorityHigh   = sentimentpkg.PriorityHigh
	PriorityMedium = sentimentpkg.PriorityMedium
	PriorityLow    = sentimentpkg.PriorityLow
)

// Flow stage markers and their RPC methods.
const (
	StageRaw        = flowpkg.StageRaw
	StageProcessed  = flowpkg.StageProcessed
	StageAIResponse = flowpkg.StageAIResponse

	MethodRawReceived       = flowpkg.MethodRawReceived
	MethodTicketProcessed   = flowpkg.MethodTicketProcessed
	MethodResponseGenerated = flowpkg.MethodResponseGenerated
)

// JSON-RPC error codes.
const (
	CodeParseError     = jsonrpcpkg.CodeParseError
	CodeInvalidRequest = jsonrpcpkg.CodeInvalidRequest
	CodeMethodNotFound = jsonrpcpkg.CodeMethodNotFound
	CodeInvalidParams  = jsonrpcpkg.CodeInvalidParams
	CodeInternalError  = jsonrpcpkg.CodeInternalError
)
