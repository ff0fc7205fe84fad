package models

import "github.com/cockroachdb/errors"

type FlowState string

const (
	StateIdle      FlowState = "idle"
	StateSending   FlowState = "sending"
	StateSucceeded FlowState = "succeeded"
	StateFailed    FlowState = "failed"
)

// Status is the user-facing outcome of one flow.
type Status struct {
	State   FlowState `json:"state"`
	OK      bool      `json:"ok"`
	Message string    `json:"message,omitempty"`
}

func (s Status) Pending() bool { return s.State == StateSending }

func Idle() Status { return Status{State: StateIdle} }

func Sending() Status { return Status{State: StateSending} }

func Succeeded(msg string) Status { return Status{State: StateSucceeded, OK: true, Message: msg} }

func Failed(msg string) Status { return Status{State: StateFailed, Message: msg} }

var (
	// ErrValidation marks client-side input checks; such attempts never reach the network.
	ErrValidation = errors.New("validation failed")
	// ErrInFlight is returned when an operation is triggered while the previous one is pending.
	ErrInFlight = errors.New("operation already in flight")
)

// ValidationError wraps a user-facing message with the ErrValidation mark.
func ValidationError(msg string) error {
	return errors.Mark(errors.New(msg), ErrValidation)
}
