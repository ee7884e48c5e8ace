package checkout

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hosted checkout page hosts, by mode.
const (
	productionHost = "https://payments.cashfree.com"
	sandboxHost    = "https://payments-test.cashfree.com"
)

// defaultTTL matches the gateway's payment session validity. An order that
// sees no terminal event within it was abandoned.
const defaultTTL = 45 * time.Minute

// ErrNoSession is returned when Open is called without a payment session id.
var ErrNoSession = errors.New("payment session id is required")

// order is one registered checkout: its event stream and the abandonment
// timer that retires it.
type order struct {
	ch    chan Event
	timer *time.Timer
}

// Hosted drives the gateway's hosted checkout page. Open registers the
// order and returns the redirect URL; the gateway's return hits are fed
// back through Deliver. At most one terminal event is delivered per order,
// and an order that never sees one is expired after its TTL so the stream
// always ends.
type Hosted struct {
	mode   string
	logger *zap.Logger

	mu     sync.Mutex
	orders map[string]*order
}

// NewHosted creates a hosted checkout for the given mode
// (sandbox or production).
func NewHosted(mode string, logger *zap.Logger) *Hosted {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hosted{
		mode:   mode,
		logger: logger,
		orders: make(map[string]*order),
	}
}

// Open registers the order and builds the hosted page URL. Reopening an
// order, as a resumed pending session does, displaces the previous
// registration and closes its stream.
func (h *Hosted) Open(_ context.Context, cfg Config) (Handoff, error) {
	if cfg.SessionID == "" {
		return Handoff{}, ErrNoSession
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	o := &order{ch: make(chan Event, 4)}
	o.timer = time.AfterFunc(ttl, func() { h.expire(cfg.OrderID, o) })

	h.mu.Lock()
	if prev, ok := h.orders[cfg.OrderID]; ok {
		prev.timer.Stop()
		close(prev.ch)
	}
	h.orders[cfg.OrderID] = o
	h.mu.Unlock()

	host := sandboxHost
	if h.mode == "production" {
		host = productionHost
	}
	q := url.Values{}
	if cfg.ReturnURL != "" {
		q.Set("return_url", cfg.ReturnURL)
	}
	redirect := host + "/order/#" + url.PathEscape(cfg.SessionID)
	if len(q) > 0 {
		redirect += "?" + q.Encode()
	}

	h.logger.Info("checkout opened",
		zap.String("order_id", cfg.OrderID),
		zap.String("mode", h.mode),
	)
	return Handoff{RedirectURL: redirect, Events: o.ch}, nil
}

// expire retires an abandoned order. The identity check skips orders that
// were settled or reopened before the timer fired.
func (h *Hosted) expire(orderID string, o *order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.orders[orderID]; !ok || cur != o {
		return
	}
	delete(h.orders, orderID)
	close(o.ch)
	h.logger.Info("checkout expired", zap.String("order_id", orderID))
}

// Deliver routes a gateway callback to the order's event stream. Terminal
// events close the stream and drop the registration, so a duplicate
// terminal callback for the same order is ignored. Returns false when the
// order is unknown, expired or already settled.
func (h *Hosted) Deliver(ev Event) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.orders[ev.OrderID]
	if !ok {
		return false
	}

	select {
	case o.ch <- ev:
	default:
		h.logger.Warn("checkout event dropped", zap.String("order_id", ev.OrderID))
	}
	if ev.Terminal() {
		o.timer.Stop()
		delete(h.orders, ev.OrderID)
		close(o.ch)
	}
	return true
}

// ParseReturn decodes the gateway's return/notify query parameters into an
// Event. Unknown event names report false.
func ParseReturn(v url.Values) (Event, bool) {
	kind := v.Get("event")
	switch kind {
	case EventSuccess, EventFailure, EventClosed:
	default:
		return Event{}, false
	}
	return Event{
		Kind:          kind,
		OrderID:       v.Get("order_id"),
		TransactionID: v.Get("transaction_id"),
		Message:       v.Get("message"),
	}, true
}
