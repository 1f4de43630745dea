// Package service holds the business rules behind the HTTP handlers:
// credential issuance, the create/list/review workflow shared by the
// three record stores, admin-only reference data and the dashboard.
// Every operation receives the caller's identity explicitly.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/qshe-portal/internal/apperr"
	"github.com/iliyamo/qshe-portal/internal/model"
	"github.com/iliyamo/qshe-portal/internal/queue"
	"github.com/iliyamo/qshe-portal/internal/repository"
)

// ReviewPublisher receives an event after every successful review.
type ReviewPublisher interface {
	PublishRecordReviewed(ctx context.Context, ev queue.RecordReviewedEvent) error
}

// requireCaller rejects a zero identity.
func requireCaller(caller model.Identity) error {
	if caller.UserID == 0 {
		return apperr.New(apperr.Unauthenticated, "authentication required")
	}
	return nil
}

// requireAdmin gates review transitions and admin-only reads.
func requireAdmin(caller model.Identity, msg string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return apperr.New(apperr.PermissionDenied, msg)
	}
	return nil
}

// createError maps a store failure during create. A missing row after
// the insert is unexpected and reported as internal.
func createError(what string, err error) error {
	return apperr.Wrap(apperr.Internal, "failed to create "+what, err)
}

// reviewError maps a store failure during a status transition.
func reviewError(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Wrap(apperr.NotFound, what+" not found", err)
	}
	return apperr.Wrap(apperr.Internal, "failed to update "+what, err)
}

// optional trims s and drops it when empty.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.New(apperr.InvalidArgument, field+" is required")
	}
	return nil
}

// requiredFields takes alternating field names and values.
func requiredFields(kv ...string) error {
	for i := 0; i+1 < len(kv); i += 2 {
		if err := required(kv[i], kv[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func requiredTime(field string, t time.Time) error {
	if t.IsZero() {
		return apperr.New(apperr.InvalidArgument, field+" is required")
	}
	return nil
}

// publishReview sends ev when a publisher is configured. Failures are
// logged only: the status update has already been committed.
func publishReview(ctx context.Context, pub ReviewPublisher, log *zap.Logger, ev queue.RecordReviewedEvent) {
	if pub == nil {
		return
	}
	ev.ReviewedAt = time.Now().UTC().Format(time.RFC3339)
	if err := pub.PublishRecordReviewed(ctx, ev); err != nil {
		log.Warn("review event not published",
			zap.String("kind", string(ev.Kind)),
			zap.Uint64("record_id", ev.RecordID),
			zap.Error(err))
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
