package repo

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llante/llante_site/internal/locale"
	"github.com/llante/llante_site/internal/submission"
)

func testClient() *Client {
	c := New(nil)
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c
}

func testValidator() *submission.Validator {
	return submission.NewValidator(locale.MustNewSet([]string{"es", "en"}, "es"), submission.DefaultRules())
}

func TestInsertLead_Contact(t *testing.T) {
	c := testClient()
	contact, err := testValidator().ValidateContact(submission.ContactRequest{
		Name: "Ana", Email: "ana@x.com", Message: "Hola, quiero info",
	})
	require.NoError(t, err)

	id := uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057")
	q, err := c.insertLead(id, contact)
	require.NoError(t, err)

	query, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO contacts (id,name,email,phone,service,message,locale,created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)",
		query)
	assert.Equal(t, []any{id, "Ana", "ana@x.com", "", "", "Hola, quiero info", "es", c.now()}, args)
}

func TestInsertLead_Join(t *testing.T) {
	c := testClient()
	join, err := testValidator().ValidateJoin(submission.JoinRequest{Q1: "sales", Q3: "ana@x.com", Locale: "en"})
	require.NoError(t, err)

	q, err := c.insertLead(uuid.Nil, join)
	require.NoError(t, err)

	query, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO join_requests (id,area,details,contact,locale,created_at) VALUES ($1,$2,$3,$4,$5,$6)",
		query)
	assert.Equal(t, "en", args[4])
}

type otherSubmission struct{}

func (otherSubmission) Kind() submission.Kind      { return "newsletter" }
func (otherSubmission) Locale() locale.Locale      { return "es" }
func (otherSubmission) Fields() []submission.Field { return nil }

func TestInsertLead_UnknownKind(t *testing.T) {
	_, err := testClient().insertLead(uuid.Nil, otherSubmission{})
	assert.True(t, errors.Is(err, ErrUnknownKind))

	_, err = tableFor("newsletter")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
