package join

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

type Result struct {
	ID      uuid.UUID
	Dropped bool
}

type Service interface {
	Submit(ctx context.Context, req submission.JoinRequest) (Result, error)
}

type joinService struct {
	validator  *submission.Validator
	dispatcher dispatch.Dispatcher
	metrics    *observability.SubmissionMetrics
	logger     *slog.Logger
}

func New(v *submission.Validator, d dispatch.Dispatcher, m *observability.SubmissionMetrics, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &joinService{
		validator:  v,
		dispatcher: d,
		metrics:    m,
		logger:     logger.With("service", "join"),
	}
}

func (s *joinService) Submit(ctx context.Context, req submission.JoinRequest) (Result, error) {
	log := s.logger.With(reqctx.LogAttrs(ctx)...)
	kind := string(submission.KindJoin)

	if submission.IsAutomated(req.Company) {
		log.Info("join request dropped by honeypot")
		s.metrics.Record(ctx, kind, observability.OutcomeDropped)
		return Result{Dropped: true}, nil
	}

	j, err := s.validator.ValidateJoin(req)
	if err != nil {
		s.metrics.Record(ctx, kind, observability.OutcomeInvalid)
		if errors.Is(err, submission.ErrInvalid) {
			return Result{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		return Result{}, err
	}

	id, err := s.dispatcher.Dispatch(ctx, j)
	if err != nil {
		log.Error("join dispatch failed", "error", err)
		s.metrics.Record(ctx, kind, observability.OutcomeFailed)
		return Result{}, fmt.Errorf("%w: %w", ErrDispatch, err)
	}

	s.metrics.Record(ctx, kind, observability.OutcomeAccepted)
	return Result{ID: id}, nil
}
