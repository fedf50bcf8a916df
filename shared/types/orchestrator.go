package types

import "time"

// State represents the submission state machine
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Path identifies which request path an attempt used
type Path string

const (
	PathNow   Path = "now"
	PathDelay Path = "delay"
)

// ErrorKind is the user-facing error category of a failed attempt
type ErrorKind string

const (
	KindEmptyInput         ErrorKind = "empty_input"
	KindTooLarge           ErrorKind = "too_large"
	KindRateLimited        ErrorKind = "rate_limited"
	KindRemoteRejected     ErrorKind = "remote_rejected"
	KindNetworkUnreachable ErrorKind = "network_unreachable"
	KindUnexpectedResponse ErrorKind = "unexpected_response"
	KindUnknown            ErrorKind = "unknown"
)

// StatusOK is the envelope status the conversion service sends on success
const StatusOK = "ok"

// Envelope is the JSON body returned by the conversion service
type Envelope struct {
	Status       string `json:"status"`
	NumInEnglish string `json:"num_in_english,omitempty"`
	Message      string `json:"message,omitempty"`
}

// ErrorInfo is surfaced when an attempt fails
type ErrorInfo struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Snapshot is a copy of the orchestrator state, safe to hand to renderers
type Snapshot struct {
	State     State      `json:"state"`
	Loading   bool       `json:"loading"`
	AttemptID string     `json:"attempt_id,omitempty"`
	Path      Path       `json:"path,omitempty"`
	Literal   string     `json:"literal"`
	Answer    string     `json:"answer,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
}

// Outcome describes one finished attempt
type Outcome struct {
	AttemptID  string     `json:"attempt_id"`
	Path       Path       `json:"path"`
	Literal    string     `json:"literal"`
	State      State      `json:"state"`
	Answer     string     `json:"answer,omitempty"`
	Error      *ErrorInfo `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// Duration returns how long the attempt took
func (o Outcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}
