// Package repo persists validated leads in Postgres.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/llante/llante_site/internal/submission"
)

var ErrUnknownKind = errors.New("repo: unknown submission kind")

const (
	contactsTable = "contacts"
	joinsTable    = "join_requests"
)

// Client is a squirrel-based repository over a Postgres connection.
type Client struct {
	db  *sql.DB
	psq sq.StatementBuilderType
	now func() time.Time
}

func New(db *sql.DB) *Client {
	return &Client{
		db:  db,
		psq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreateLead stores s and returns its new time-ordered ID.
func (c *Client) CreateLead(ctx context.Context, s submission.Submission) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate lead id: %w", err)
	}

	q, err := c.insertLead(id, s)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := q.RunWith(c.db).ExecContext(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("insert %s lead: %w", s.Kind(), err)
	}
	return id, nil
}

// MarkNotified records that the operator e-mail for a lead went out.
func (c *Client) MarkNotified(ctx context.Context, kind submission.Kind, id uuid.UUID) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	_, err = c.psq.Update(table).
		Set("notified_at", c.now()).
		Where(sq.Eq{"id": id}).
		RunWith(c.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("mark %s lead %s notified: %w", kind, id, err)
	}
	return nil
}

// CountSince returns how many leads of kind arrived after t.
func (c *Client) CountSince(ctx context.Context, kind submission.Kind, t time.Time) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var n int
	err = c.psq.Select("count(*)").
		From(table).
		Where(sq.GtOrEq{"created_at": t}).
		RunWith(c.db).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s leads: %w", kind, err)
	}
	return n, nil
}

func (c *Client) insertLead(id uuid.UUID, s submission.Submission) (sq.InsertBuilder, error) {
	now := c.now()
	switch v := s.(type) {
	case submission.Contact:
		return c.psq.Insert(contactsTable).
			Columns("id", "name", "email", "phone", "service", "message", "locale", "created_at").
			Values(id, v.Name(), v.Email(), v.Phone(), v.Service(), v.Message(), string(v.Locale()), now), nil
	case submission.Join:
		return c.psq.Insert(joinsTable).
			Columns("id", "area", "details", "contact", "locale", "created_at").
			Values(id, v.Area(), v.Details(), v.Contact(), string(v.Locale()), now), nil
	default:
		return sq.InsertBuilder{}, fmt.Errorf("%w: %T", ErrUnknownKind, s)
	}
}

func tableFor(kind submission.Kind) (string, error) {
	switch kind {
	case submission.KindContact:
		return contactsTable, nil
	case submission.KindJoin:
		return joinsTable, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
