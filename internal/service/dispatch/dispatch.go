package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/llante/llante_site/internal/submission"
	"github.com/llante/llante_site/pkg/email"
	"github.com/llante/llante_site/pkg/reqctx"
)

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// Dispatcher hands a validated submission to the outside world exactly once.
type Dispatcher interface {
	Dispatch(ctx context.Context, s submission.Submission) (uuid.UUID, error)
}

type LeadStore interface {
	CreateLead(ctx context.Context, s submission.Submission) (uuid.UUID, error)
	MarkNotified(ctx context.Context, kind submission.Kind, id uuid.UUID) error
}

type LeadMailer interface {
	SendLead(ctx context.Context, l email.Lead) error
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// LeadCreated is the event published after a lead is dispatched.
type LeadCreated struct {
	ID        uuid.UUID       `json:"id"`
	Kind      submission.Kind `json:"kind"`
	Locale    string          `json:"locale"`
	Notified  bool            `json:"notified"`
	CreatedAt time.Time       `json:"created_at"`
}

// Subject returns the event subject for kind under prefix.
func Subject(prefix string, kind submission.Kind) string {
	return prefix + ".lead.created." + string(kind)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type Options struct {
	Store     LeadStore // nil when no database is configured
	Mailer    LeadMailer
	Publisher Publisher // nil when NATS is not configured
	Prefix    string
	Logger    *slog.Logger
}

type leadDispatcher struct {
	store     LeadStore
	mailer    LeadMailer
	publisher Publisher
	prefix    string
	logger    *slog.Logger
	now       func() time.Time
}

// New returns the production dispatcher: store, then e-mail the operators,
// then announce the lead on the event bus. Nothing is retried.
func New(opts Options) Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "llante"
	}
	return &leadDispatcher{
		store:     opts.Store,
		mailer:    opts.Mailer,
		publisher: opts.Publisher,
		prefix:    prefix,
		logger:    logger.With("component", "dispatch"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (d *leadDispatcher) Dispatch(ctx context.Context, s submission.Submission) (uuid.UUID, error) {
	log := d.logger.With(reqctx.LogAttrs(ctx)...).With("kind", s.Kind())

	var (
		id  uuid.UUID
		err error
	)
	if d.store != nil {
		id, err = d.store.CreateLead(ctx, s)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrPersist, err)
		}
	} else {
		id, err = uuid.NewV7()
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrPersist, err)
		}
	}
	log = log.With("lead_id", id)

	notified, err := d.notify(ctx, id, s)
	switch {
	case err == nil:
	case errors.Is(err, email.ErrDisabled):
		if d.store == nil {
			return uuid.Nil, ErrNoSink
		}
		log.Warn("email disabled, lead stored without notification")
	default:
		return uuid.Nil, fmt.Errorf("%w: %w", ErrNotify, err)
	}

	if notified && d.store != nil {
		if err := d.store.MarkNotified(ctx, s.Kind(), id); err != nil {
			log.Warn("could not mark lead notified", "error", err)
		}
	}

	d.publish(log, LeadCreated{
		ID:        id,
		Kind:      s.Kind(),
		Locale:    string(s.Locale()),
		Notified:  notified,
		CreatedAt: d.now(),
	})

	log.Info("lead dispatched", "notified", notified)
	return id, nil
}

func (d *leadDispatcher) notify(ctx context.Context, id uuid.UUID, s submission.Submission) (bool, error) {
	if d.mailer == nil {
		return false, email.ErrDisabled
	}
	lead := email.Lead{
		ID:         id.String(),
		Kind:       string(s.Kind()),
		Locale:     string(s.Locale()),
		ReceivedAt: d.now(),
	}
	for _, f := range s.Fields() {
		lead.Fields = append(lead.Fields, email.LeadField{Name: f.Name, Value: f.Value})
	}
	if c, ok := s.(submission.Contact); ok {
		lead.ReplyTo = c.Email()
	}

	if err := d.mailer.SendLead(ctx, lead); err != nil {
		return false, err
	}
	return true, nil
}

func (d *leadDispatcher) publish(log *slog.Logger, ev LeadCreated) {
	if d.publisher == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Warn("could not encode lead event", "error", err)
		return
	}
	if err := d.publisher.Publish(Subject(d.prefix, ev.Kind), data); err != nil {
		log.Warn("could not publish lead event", "error", err)
	}
}
