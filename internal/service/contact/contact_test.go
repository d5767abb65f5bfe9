package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llante/llante_site/internal/locale"
	"github.com/llante/llante_site/internal/submission"
)

type spyDispatcher struct {
	mu    sync.Mutex
	calls []submission.Submission
	err   error
}

func (s *spyDispatcher) Dispatch(_ context.Context, sub submission.Submission) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sub)
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057"), nil
}

func newService(d *spyDispatcher) Service {
	v := submission.NewValidator(locale.MustNewSet([]string{"es", "en"}, "es"), submission.DefaultRules())
	return New(v, d, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubmit_Accepted(t *testing.T) {
	spy := &spyDispatcher{}
	res, err := newService(spy).Submit(context.Background(), submission.ContactRequest{
		Name: "Ana", Email: "ana@x.com", Message: "Hola, quiero info",
	})
	require.NoError(t, err)
	assert.False(t, res.Dropped)
	assert.NotEqual(t, uuid.Nil, res.ID)

	require.Len(t, spy.calls, 1)
	assert.Equal(t, locale.Locale("es"), spy.calls[0].Locale())
	assert.Equal(t, submission.KindContact, spy.calls[0].Kind())
}

func TestSubmit_HoneypotNeverDispatches(t *testing.T) {
	spy := &spyDispatcher{}
	svc := newService(spy)

	payloads := []submission.ContactRequest{
		{Name: "Ana", Email: "ana@x.com", Message: "Hola, quiero info", Website: "http://spam.example"},
		{Website: "x"},
		{Name: "A", Email: "not-an-email", Message: "hi", Website: "bot"},
		{Name: "Bot", Email: "bot@x.com", Message: "Buy now please", Locale: "en", Website: " filled "},
	}
	for _, p := range payloads {
		res, err := svc.Submit(context.Background(), p)
		require.NoError(t, err)
		assert.True(t, res.Dropped)
	}
	assert.Empty(t, spy.calls)
}

func TestSubmit_Invalid(t *testing.T) {
	spy := &spyDispatcher{}
	_, err := newService(spy).Submit(context.Background(), submission.ContactRequest{Name: "A", Email: "ana@x.com", Message: "Hola!"})

	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, submission.ErrInvalid)
	var verr *submission.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("name"))
	assert.Empty(t, spy.calls)
}

func TestSubmit_DispatchFailure(t *testing.T) {
	spy := &spyDispatcher{err: errors.New("smtp down")}
	_, err := newService(spy).Submit(context.Background(), submission.ContactRequest{
		Name: "Ana", Email: "ana@x.com", Message: "Hola, quiero info",
	})
	assert.ErrorIs(t, err, ErrDispatch)
	assert.Len(t, spy.calls, 1, "dispatch is attempted exactly once")
}
