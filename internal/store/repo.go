package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session actions.
const (
	ActionStart  = "start"
	ActionFinish = "finish"
	ActionFail   = "fail"
)

// SessionEventData records a quiz session lifecycle step.
type SessionEventData struct {
	SessionID      string
	Action         string
	Kind           string
	Lessons        []string
	QuestionCount  int
	SkippedLessons int
	Earned         float64
	Available      float64
	Score          *float64 // nil when no scored item was asked
	ErrorMessage   string
	DurationSecs   int
}

// SessionRecord is a stored session event.
type SessionRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// AnswerEventData records the outcome of one quiz item.
type AnswerEventData struct {
	SessionID     string
	Position      int
	Kind          string
	Question      string
	LearnerAnswer string
	Expected      string
	Correct       bool
	Skipped       bool
	Awarded       float64
	MaxPoints     float64
	ScoreParsed   bool
	Feedback      string
}

// AnswerRecord is a stored answer event.
type AnswerRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
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

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentSessions returns finished and failed sessions, newest first.
	RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error)

	// SessionAnswers returns the answers of one session in quiz order.
	SessionAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error)

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil when id is unknown.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
