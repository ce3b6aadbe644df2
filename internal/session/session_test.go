package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	adminID    = "6f1c7a52-2b0e-4c1e-9a53-0d6c3f1b9a11"
	customerID = "0b8f2d4e-7a61-4f0c-8e4d-5c2b1a9e7d22"
)

// =====================
// RoleChecker mock
// =====================

type RoleCheckerMock struct{ mock.Mock }

func (m *RoleCheckerMock) HasRole(ctx context.Context, userID, role string) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

// =====================
// TokenVerifier
// =====================

func TestTokenVerifier_RoundTrip(t *testing.T) {
	v := NewTokenVerifier(testSecret)
	raw, err := v.Sign(adminID, "ops@swiftlogix.test", time.Hour)
	require.NoError(t, err)

	s, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, adminID, s.UserID)
	assert.Equal(t, "ops@swiftlogix.test", s.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, 5*time.Second)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	v := NewTokenVerifier(testSecret)

	expired, err := v.Sign(adminID, "a@b.co", -time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewTokenVerifier("other").Sign(adminID, "a@b.co", time.Hour)
	require.NoError(t, err)

	notUUID, err := v.Sign("42", "a@b.co", time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": adminID}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":        "",
		"garbage":      "not.a.jwt",
		"expired":      expired,
		"wrong secret": otherSecret,
		"sub not uuid": notUUID,
		"alg none":     none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

// =====================
// Decide
// =====================

func TestDecide(t *testing.T) {
	user := &Session{UserID: customerID}

	cases := []struct {
		name string
		req  Requirement
		st   State
		want Decision
	}{
		{"public always renders", RequireNone, State{Pending: true}, DecisionRender},
		{"pending session", RequireSession, State{Pending: true}, DecisionPending},
		{"pending admin", RequireAdmin, State{Pending: true, Session: user}, DecisionPending},
		{"no session -> sign in", RequireSession, State{}, DecisionRedirectSignIn},
		{"no session admin route -> sign in", RequireAdmin, State{}, DecisionRedirectSignIn},
		{"session ok", RequireSession, State{Session: user}, DecisionRender},
		{"non admin -> home", RequireAdmin, State{Session: user}, DecisionRedirectHome},
		{"role check failed -> home", RequireAdmin, State{Session: user, Err: errors.New("rpc")}, DecisionRedirectHome},
		{"admin renders", RequireAdmin, State{Session: user, IsAdmin: true}, DecisionRender},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.req, tc.st))
		})
	}
}

// =====================
// Watcher
// =====================

type stateRecorder struct {
	mu     sync.Mutex
	states []State
	ch     chan State
}

func newStateRecorder() *stateRecorder {
	return &stateRecorder{ch: make(chan State, 16)}
}

func (r *stateRecorder) record(st State) {
	r.mu.Lock()
	r.states = append(r.states, st)
	r.mu.Unlock()
	r.ch <- st
}

func (r *stateRecorder) waitSettled(t *testing.T) State {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case st := <-r.ch:
			if !st.Pending {
				return st
			}
		case <-timeout:
			t.Fatal("watcher did not settle")
			return State{}
		}
	}
}

func TestWatcher_InitialResolution(t *testing.T) {
	roles := new(RoleCheckerMock)
	roles.On("HasRole", mock.Anything, adminID, "admin").Return(true, nil)

	w := NewWatcher(NewRequestProvider(&Session{UserID: adminID}), NewResolver(roles), nil)
	defer w.Close()

	st := w.Start(context.Background())
	assert.False(t, st.Pending)
	assert.True(t, st.IsAdmin)
	assert.Equal(t, DecisionRender, Decide(RequireAdmin, st))
	assert.Equal(t, st, w.State())
}

func TestWatcher_NoSessionSkipsRoleCheck(t *testing.T) {
	roles := new(RoleCheckerMock)

	w := NewWatcher(NewRequestProvider(nil), NewResolver(roles), nil)
	defer w.Close()

	st := w.Start(context.Background())
	assert.Equal(t, DecisionRedirectSignIn, Decide(RequireAdmin, st))
	roles.AssertNotCalled(t, "HasRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestWatcher_ReResolvesOnUserChange(t *testing.T) {
	roles := new(RoleCheckerMock)
	roles.On("HasRole", mock.Anything, customerID, "admin").Return(false, nil)
	roles.On("HasRole", mock.Anything, adminID, "admin").Return(true, nil)

	stream := NewStream(&Session{UserID: customerID})
	rec := newStateRecorder()
	w := NewWatcher(stream, NewResolver(roles), rec.record)
	defer w.Close()

	st := w.Start(context.Background())
	assert.Equal(t, DecisionRedirectHome, Decide(RequireAdmin, st))
	rec.waitSettled(t)

	//別ユーザーでログインし直す
	stream.Publish(EventSignedIn, &Session{UserID: adminID})
	st = rec.waitSettled(t)
	assert.True(t, st.IsAdmin)
	assert.Equal(t, DecisionRender, Decide(RequireAdmin, st))

	//解決中はpendingを通る
	rec.mu.Lock()
	var sawPending bool
	for _, s := range rec.states {
		if s.Pending && s.UserID() == adminID {
			sawPending = true
		}
	}
	rec.mu.Unlock()
	assert.True(t, sawPending)

	//ログアウト
	stream.Publish(EventSignedOut, nil)
	st = rec.waitSettled(t)
	assert.Equal(t, DecisionRedirectSignIn, Decide(RequireAdmin, st))
}

func TestWatcher_TokenRefreshSameUserDoesNotRecheck(t *testing.T) {
	roles := new(RoleCheckerMock)
	roles.On("HasRole", mock.Anything, adminID, "admin").Return(true, nil).Once()

	stream := NewStream(&Session{UserID: adminID})
	rec := newStateRecorder()
	w := NewWatcher(stream, NewResolver(roles), rec.record)
	defer w.Close()

	w.Start(context.Background())
	rec.waitSettled(t)

	exp := time.Now().Add(time.Hour)
	stream.Publish(EventTokenRefreshed, &Session{UserID: adminID, ExpiresAt: exp})
	st := rec.waitSettled(t)
	assert.True(t, st.IsAdmin)
	assert.Equal(t, exp, st.Session.ExpiresAt)
	roles.AssertNumberOfCalls(t, "HasRole", 1)
}

func TestWatcher_RoleCheckFailure(t *testing.T) {
	roles := new(RoleCheckerMock)
	roles.On("HasRole", mock.Anything, adminID, "admin").Return(true, errors.New("timeout"))

	w := NewWatcher(NewRequestProvider(&Session{UserID: adminID}), NewResolver(roles), nil)
	defer w.Close()

	st := w.Start(context.Background())
	assert.Error(t, st.Err)
	assert.False(t, st.IsAdmin)
}

func TestWatcher_CloseUnsubscribes(t *testing.T) {
	roles := new(RoleCheckerMock)
	roles.On("HasRole", mock.Anything, mock.Anything, "admin").Return(false, nil)

	stream := NewStream(&Session{UserID: customerID})
	w := NewWatcher(stream, NewResolver(roles), nil)
	w.Start(context.Background())
	w.Close()
	w.Close()

	stream.mu.Lock()
	n := len(stream.listeners)
	stream.mu.Unlock()
	assert.Equal(t, 0, n)

	stream.Publish(EventSignedIn, &Session{UserID: adminID})
	roles.AssertNumberOfCalls(t, "HasRole", 1)
}
