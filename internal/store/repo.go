package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int   // max results (0 = unlimited)
	After  int64 // sequence > After
	Before int64 // sequence < Before
}

// RequestEventData captures one outbound API request.
type RequestEventData struct {
	Method       string
	URL          string
	Status       int // 0 when no response was received
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestEventRecord is a stored request event.
type RequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RequestEventData
}

// Pending reports whether the request was started but never finished.
// A settled request either succeeded or carries an error message.
func (r RequestEventRecord) Pending() bool {
	return !r.Success && r.ErrorMessage == ""
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to diagnostic events.
type EventRepo interface {
	// AppendRequest records an outbound API request.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// StartRequest records a request before it is sent and returns the
	// event ID to pass to FinishRequest.
	StartRequest(ctx context.Context, method, url string) (int, error)

	// FinishRequest stores the outcome of a started request.
	FinishRequest(ctx context.Context, id int, data RequestEventData) error

	// QueryRequestEvents returns request events, newest first.
	QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error)

	// GetRequestEvent returns a single request event, or nil if absent.
	GetRequestEvent(ctx context.Context, id int) (*RequestEventRecord, error)

	// PruneRequestEvents deletes all but the keep most recent request events
	// and returns the number deleted.
	PruneRequestEvents(ctx context.Context, keep int) (int, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single LLM event, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates token usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
