// Package checkout abstracts the hosted payment gateway surface. The
// orchestrator depends only on the Checkout interface and reacts to the
// event stream, so the gateway can be swapped or faked in tests.
package checkout

import (
	"context"
	"time"
)

// Event kinds emitted by a checkout session. Success and Failure are
// terminal; Closed returns control to the caller without a state change.
const (
	EventSuccess = "success"
	EventFailure = "failure"
	EventClosed  = "closed"
)

// Event is one callback from the gateway, normalized.
type Event struct {
	Kind          string
	OrderID       string
	TransactionID string
	Message       string
}

// Terminal reports whether the event ends the checkout session.
func (e Event) Terminal() bool {
	return e.Kind == EventSuccess || e.Kind == EventFailure
}

// Config parameterizes one checkout attempt.
type Config struct {
	SessionID     string // gateway payment session id
	OrderID       string
	Amount        float64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ReturnURL     string

	// TTL bounds how long the order stays registered without a terminal
	// event. Zero means the implementation's default.
	TTL time.Duration
}

// Handoff is what the caller needs to hand the buyer to the gateway:
// the hosted page URL and the event stream for this order. The channel is
// closed after the terminal event or when the TTL expires.
type Handoff struct {
	RedirectURL string
	Events      <-chan Event
}

// Checkout opens gateway sessions.
type Checkout interface {
	Open(ctx context.Context, cfg Config) (Handoff, error)
}
