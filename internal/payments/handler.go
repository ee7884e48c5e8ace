// Package payments orchestrates the payment hand-off: registration fetch by
// token, coupon apply/remove, payment session creation, hosted checkout
// hand-off, verification polling and the terminal result pages.
package payments

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexloop/web/internal/api"
	"github.com/nexloop/web/internal/checkout"
	"github.com/nexloop/web/internal/models"
	"github.com/nexloop/web/internal/session"
	"github.com/nexloop/web/pkg/response"
)

// Backend is the slice of the upstream client this handler needs.
type Backend interface {
	Registration(ctx context.Context, token string) (*models.RegistrationDetails, error)
	ApplyCoupon(ctx context.Context, req models.CouponRequest) (*models.CouponResult, error)
	CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.PaymentSession, error)
	VerifyPayment(ctx context.Context, orderID string) (*models.Verification, error)
}

// Deliverer routes gateway return callbacks into the checkout event stream.
type Deliverer interface {
	Deliver(ev checkout.Event) bool
}

// Handler drives the payment pages.
type Handler struct {
	backend      Backend
	store        session.Store
	cookie       session.Cookie
	checkout     checkout.Checkout
	deliverer    Deliverer
	returnURL    string
	supportEmail string
	logger       *zap.Logger
}

// NewHandler creates a payments handler. returnURL is the absolute URL the
// gateway sends the buyer back to.
func NewHandler(backend Backend, store session.Store, cookie session.Cookie, co checkout.Checkout, d Deliverer, returnURL, supportEmail string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		backend:      backend,
		store:        store,
		cookie:       cookie,
		checkout:     co,
		deliverer:    d,
		returnURL:    returnURL,
		supportEmail: supportEmail,
		logger:       logger,
	}
}

// Page handles GET /payment. Requires a registration hand-off; absence
// redirects to the landing page.
func (h *Handler) Page(c *gin.Context) {
	sid := h.cookie.ID(c)
	handoff, err := h.store.Handoff(c.Request.Context(), sid)
	if err != nil {
		h.logger.Error("load handoff failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if handoff == nil || handoff.RegistrationToken == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	details, err := h.backend.Registration(c.Request.Context(), handoff.RegistrationToken)
	if err != nil {
		h.logger.Error("fetch registration failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	// Overlay the locally applied coupon on the server-confirmed details.
	if handoff.Coupon != nil {
		details.DiscountedAmount = handoff.Coupon.DiscountedPrice
	}

	data := gin.H{
		"Details": details,
		"Coupon":  handoff.Coupon,
		"Total":   INR(details.DiscountedAmount),
		"Price":   INR(details.Price),
		"Notice":  c.Query("notice"),
	}
	if details.Price != details.DiscountedAmount {
		data["Discount"] = DiscountLine(details.Price, details.DiscountedAmount)
	}
	c.HTML(http.StatusOK, "payment.tmpl", data)
}

type couponRequest struct {
	Code string `json:"code"`
}

// ApplyCoupon handles POST /payment/coupon. The discount itself is
// server-confirmed; only the applied state is stored locally.
func (h *Handler) ApplyCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		response.BadRequest(c, "Please enter a valid coupon code")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	sid := h.cookie.ID(c)
	handoff, err := h.store.Handoff(c.Request.Context(), sid)
	if err != nil || handoff == nil || handoff.RegistrationToken == "" {
		response.BadRequest(c, "No registration data found. Please register first.")
		return
	}

	details, err := h.backend.Registration(c.Request.Context(), handoff.RegistrationToken)
	if err != nil {
		h.logger.Error("fetch registration failed", zap.Error(err))
		response.Internal(c, "Failed to load registration details. Please try again.")
		return
	}

	result, err := h.backend.ApplyCoupon(c.Request.Context(), models.CouponRequest{
		RegistrationID: details.RegisterID,
		CourseID:       details.CourseID,
		Code:           code,
	})
	if err != nil {
		if errors.Is(err, api.ErrInvalidReferral) {
			response.BadRequest(c, "The referral code you entered is invalid. Please check and try again.")
			return
		}
		h.logger.Error("apply coupon failed", zap.Error(err))
		response.Internal(c, "Failed to apply coupon")
		return
	}

	handoff.Coupon = &session.AppliedCoupon{
		Code:            code,
		DiscountPercent: result.DiscountPercent,
		DiscountedPrice: result.DiscountedPrice,
	}
	handoff.DiscountedAmount = result.DiscountedPrice
	if err := h.store.PutHandoff(c.Request.Context(), sid, handoff); err != nil {
		h.logger.Error("store handoff failed", zap.Error(err))
		response.Internal(c, "Failed to apply coupon")
		return
	}

	response.OK(c, gin.H{
		"message":          result.Message,
		"discount_percent": result.DiscountPercent,
		"discounted_price": result.DiscountedPrice,
		"discount_line":    DiscountLine(result.OriginalPrice, result.DiscountedPrice),
		"total":            INR(result.DiscountedPrice),
	})
}

// RemoveCoupon handles DELETE /payment/coupon. Reverts to the original
// price and clears the discount state, locally only.
func (h *Handler) RemoveCoupon(c *gin.Context) {
	sid := h.cookie.ID(c)
	handoff, err := h.store.Handoff(c.Request.Context(), sid)
	if err != nil || handoff == nil {
		response.BadRequest(c, "No registration data found. Please register first.")
		return
	}

	handoff.Coupon = nil
	handoff.DiscountedAmount = handoff.OriginalAmount
	if err := h.store.PutHandoff(c.Request.Context(), sid, handoff); err != nil {
		h.logger.Error("store handoff failed", zap.Error(err))
		response.Internal(c, "Failed to remove coupon")
		return
	}

	response.OK(c, gin.H{"total": INR(handoff.OriginalAmount)})
}

// StartCheckout handles POST /payment/checkout. Creates or resumes the
// payment session and hands the buyer to the hosted checkout page.
func (h *Handler) StartCheckout(c *gin.Context) {
	sid := h.cookie.ID(c)
	handoff, err := h.store.Handoff(c.Request.Context(), sid)
	if err != nil || handoff == nil || handoff.RegistrationToken == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	details, err := h.backend.Registration(c.Request.Context(), handoff.RegistrationToken)
	if err != nil {
		h.logger.Error("fetch registration failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, RoutePayment+"?notice="+url.QueryEscape("Failed to initialize payment"))
		return
	}

	sess, err := h.backend.CreatePayment(c.Request.Context(), models.CreatePaymentRequest{
		Course:             details.CourseID,
		CourseRegistration: details.RegisterID,
	})
	if err != nil {
		h.logger.Error("create payment failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, RoutePayment+"?notice="+url.QueryEscape("Failed to initialize payment"))
		return
	}

	amount := sess.Amount
	if amount == 0 {
		amount = details.DiscountedAmount
	}
	outcome := &session.PaymentOutcome{
		OrderID:       sess.OrderID,
		Amount:        amount,
		Status:        models.PaymentStatusInitiated,
		CourseTitle:   details.Title,
		CustomerName:  details.FullName,
		CustomerEmail: details.Email,
		CustomerPhone: details.PhoneNumber,
	}

	// Already settled upstream: skip the checkout entirely.
	if sess.Status == models.SessionStatusPaid {
		outcome.Status = models.PaymentStatusCompleted
		outcome.Message = sess.Message
		if err := h.store.PutOutcome(c.Request.Context(), sid, outcome); err != nil {
			h.logger.Error("store outcome failed", zap.Error(err))
		}
		c.Redirect(http.StatusSeeOther, RouteSuccess)
		return
	}
	// SessionStatusPending resumes the existing session id the backend
	// returned; anything else is a freshly created session. Both proceed
	// identically from here.

	if err := h.store.PutOutcome(c.Request.Context(), sid, outcome); err != nil {
		h.logger.Error("store outcome failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, RoutePayment+"?notice="+url.QueryEscape("Failed to initialize payment"))
		return
	}

	hand, err := h.checkout.Open(c.Request.Context(), checkout.Config{
		SessionID:     sess.PaymentSessionID,
		OrderID:       sess.OrderID,
		Amount:        amount,
		CustomerName:  details.FullName,
		CustomerEmail: details.Email,
		CustomerPhone: details.PhoneNumber,
		ReturnURL:     h.returnURL,
	})
	if err != nil {
		h.logger.Error("open checkout failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, RoutePayment+"?notice="+url.QueryEscape("Failed to open payment window. Please try again."))
		return
	}

	go h.watchCheckout(sid, sess.OrderID, hand.Events)
	c.Redirect(http.StatusSeeOther, hand.RedirectURL)
}

// watchCheckout consumes the event stream for one checkout session. The
// record merge happens synchronously in Return; this consumer reacts to the
// terminal event by retiring the registration hand-off.
func (h *Handler) watchCheckout(sid, orderID string, events <-chan checkout.Event) {
	for ev := range events {
		h.logger.Info("checkout event",
			zap.String("order_id", orderID),
			zap.String("kind", ev.Kind),
		)
		if ev.Kind == checkout.EventSuccess {
			if err := h.store.DeleteHandoff(context.Background(), sid); err != nil {
				h.logger.Error("clear handoff failed", zap.Error(err))
			}
		}
	}
}

// Return handles GET /payment/return, the gateway's return hook. The event
// payload is merged into the stored outcome, the internal event is raised,
// and the buyer is routed onward.
func (h *Handler) Return(c *gin.Context) {
	ev, ok := checkout.ParseReturn(c.Request.URL.Query())
	if !ok {
		c.Redirect(http.StatusSeeOther, RoutePayment)
		return
	}

	sid := h.cookie.ID(c)
	if ev.Kind != checkout.EventClosed {
		if err := h.mergeEvent(c.Request.Context(), sid, ev); err != nil {
			h.logger.Error("merge checkout event failed", zap.Error(err))
		}
	}
	h.deliverer.Deliver(ev)

	switch ev.Kind {
	case checkout.EventSuccess:
		c.Redirect(http.StatusSeeOther, "/payment/verification")
	case checkout.EventFailure:
		c.Redirect(http.StatusSeeOther, RouteFailure)
	default: // closed: informational only, no state change
		c.Redirect(http.StatusSeeOther, RoutePayment+"?notice="+url.QueryEscape("You've cancelled the payment. Your course is still reserved; you can complete the payment whenever you're ready."))
	}
}

func (h *Handler) mergeEvent(ctx context.Context, sid string, ev checkout.Event) error {
	o, err := h.store.Outcome(ctx, sid)
	if err != nil || o == nil {
		return err
	}
	if ev.OrderID != "" {
		o.OrderID = ev.OrderID
	}
	if ev.TransactionID != "" {
		o.TransactionID = ev.TransactionID
	}
	switch ev.Kind {
	case checkout.EventSuccess:
		o.Status = models.PaymentStatusSuccess
		o.Message = ev.Message
	case checkout.EventFailure:
		o.Status = models.PaymentStatusFailed
		o.ErrorMessage = ev.Message
		if o.ErrorMessage == "" {
			o.ErrorMessage = "Payment failed"
		}
	}
	return h.store.PutOutcome(ctx, sid, o)
}

// Verify handles GET /payment/verification. One status poll per visit; the
// stored record is always updated before any redirect so the terminal page
// has a single consistent source.
func (h *Handler) Verify(c *gin.Context) {
	sid := h.cookie.ID(c)
	o, err := h.store.Outcome(c.Request.Context(), sid)
	if err != nil {
		h.logger.Error("load outcome failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, RoutePayment)
		return
	}
	if o == nil || o.OrderID == "" {
		c.Redirect(http.StatusSeeOther, RoutePayment)
		return
	}

	v, err := h.backend.VerifyPayment(c.Request.Context(), o.OrderID)
	if err != nil {
		h.logger.Error("verify payment failed", zap.Error(err), zap.String("order_id", o.OrderID))
		c.Redirect(http.StatusSeeOther, RoutePayment)
		return
	}

	o.Amount = v.Amount
	o.Status = v.Status
	o.ErrorMessage = v.ErrorMessage
	o.TransactionID = v.TransactionID
	if v.CourseTitle != "" {
		o.CourseTitle = v.CourseTitle
	}
	if v.CustomerName != "" {
		o.CustomerName = v.CustomerName
	}
	if v.CustomerEmail != "" {
		o.CustomerEmail = v.CustomerEmail
	}
	if v.CustomerPhone != "" {
		o.CustomerPhone = v.CustomerPhone
	}
	if err := h.store.PutOutcome(c.Request.Context(), sid, o); err != nil {
		h.logger.Error("store outcome failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, RoutePayment)
		return
	}

	route := RouteForStatus(v.Status)
	if route != RoutePayment {
		c.Redirect(http.StatusSeeOther, route)
		return
	}

	// Unclear status: show the pending notice and bounce back to the
	// payment page after a fixed 3 seconds.
	notice := v.Message
	if notice == "" {
		notice = "Payment status is being verified."
	}
	c.Header("Refresh", "3;url="+RoutePayment)
	c.HTML(http.StatusOK, "verification.tmpl", gin.H{
		"Notice":      notice,
		"RedirectTo":  RoutePayment,
		"DelaySecond": 3,
	})
}

// Success handles GET /payment/success. The result record is consumed on
// render, so a refresh redirects away instead of re-showing stale state.
func (h *Handler) Success(c *gin.Context) {
	sid := h.cookie.ID(c)
	o, err := h.store.Outcome(c.Request.Context(), sid)
	if err != nil {
		h.logger.Error("load outcome failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if o == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if !Succeeded(o.Status) {
		c.Redirect(http.StatusSeeOther, RoutePayment)
		return
	}
	if _, err := h.store.TakeOutcome(c.Request.Context(), sid); err != nil {
		h.logger.Error("consume outcome failed", zap.Error(err))
	}

	c.HTML(http.StatusOK, "success.tmpl", gin.H{
		"Outcome": o,
		"Amount":  INR(o.Amount),
	})
}

// Failure handles GET /payment/failure. Same consume-once semantics as
// Success; adds the retry action and the pre-filled support contact.
func (h *Handler) Failure(c *gin.Context) {
	sid := h.cookie.ID(c)
	o, err := h.store.Outcome(c.Request.Context(), sid)
	if err != nil {
		h.logger.Error("load outcome failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, RoutePayment)
		return
	}
	if o == nil {
		c.Redirect(http.StatusSeeOther, RoutePayment)
		return
	}
	if !Failed(o.Status) {
		c.Redirect(http.StatusSeeOther, RoutePayment)
		return
	}
	if _, err := h.store.TakeOutcome(c.Request.Context(), sid); err != nil {
		h.logger.Error("consume outcome failed", zap.Error(err))
	}

	c.HTML(http.StatusOK, "failure.tmpl", gin.H{
		"Outcome":     o,
		"Amount":      INR(o.Amount),
		"SupportMail": h.supportMailto(o),
	})
}

// supportMailto builds the pre-filled support contact link for a failed
// payment.
func (h *Handler) supportMailto(o *session.PaymentOutcome) string {
	txn := o.TransactionID
	if txn == "" {
		txn = "N/A"
	}
	errMsg := o.ErrorMessage
	if errMsg == "" {
		errMsg = "Payment failed"
	}
	q := url.Values{}
	q.Set("subject", "Payment Failed - Order "+o.OrderID)
	q.Set("body", "Hello,\r\n\r\nI'm facing issues with my payment.\r\n\r\n"+
		"Order ID: "+o.OrderID+"\r\n"+
		"Transaction ID: "+txn+"\r\n"+
		"Amount: "+INR(o.Amount)+"\r\n"+
		"Course: "+o.CourseTitle+"\r\n"+
		"Error: "+errMsg)
	u := url.URL{Scheme: "mailto", Opaque: h.supportEmail, RawQuery: q.Encode()}
	return u.String()
}
