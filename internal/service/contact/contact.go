package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/llante/llante_site/internal/service/dispatch"
	"github.com/llante/llante_site/internal/submission"
	"github.com/llante/llante_site/pkg/observability"
	"github.com/llante/llante_site/pkg/reqctx"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type Result struct {
	ID uuid.UUID
	// Dropped is set when the honeypot caught the submission. Callers must
	// answer exactly as for an accepted one.
	Dropped bool
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Submit(ctx context.Context, req submission.ContactRequest) (Result, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type contactService struct {
	validator  *submission.Validator
	dispatcher dispatch.Dispatcher
	metrics    *observability.SubmissionMetrics
	logger     *slog.Logger
}

func New(v *submission.Validator, d dispatch.Dispatcher, m *observability.SubmissionMetrics, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &contactService{
		validator:  v,
		dispatcher: d,
		metrics:    m,
		logger:     logger.With("service", "contact"),
	}
}

func (s *contactService) Submit(ctx context.Context, req submission.ContactRequest) (Result, error) {
	log := s.logger.With(reqctx.LogAttrs(ctx)...)
	kind := string(submission.KindContact)

	if submission.IsAutomated(req.Website) {
		log.Info("contact submission dropped by honeypot")
		s.metrics.Record(ctx, kind, observability.OutcomeDropped)
		return Result{Dropped: true}, nil
	}

	c, err := s.validator.ValidateContact(req)
	if err != nil {
		s.metrics.Record(ctx, kind, observability.OutcomeInvalid)
		if errors.Is(err, submission.ErrInvalid) {
			return Result{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		return Result{}, err
	}

	id, err := s.dispatcher.Dispatch(ctx, c)
	if err != nil {
		log.Error("contact dispatch failed", "error", err)
		s.metrics.Record(ctx, kind, observability.OutcomeFailed)
		return Result{}, fmt.Errorf("%w: %w", ErrDispatch, err)
	}

	s.metrics.Record(ctx, kind, observability.OutcomeAccepted)
	return Result{ID: id}, nil
}
