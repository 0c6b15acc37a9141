package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestSessionIssuer_IssueAndVerify(t *testing.T) {
	t.Parallel()

	s := NewSessionIssuer("super-secret", time.Hour, nil)

	tok, exp, err := s.Issue("user-123")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	uid, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uid)
}

func TestSessionIssuer_TenDayBoundary(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issuedAt}
	ttl := 10 * 24 * time.Hour
	s := NewSessionIssuer("secret", ttl, clock.Now)

	tok, exp, err := s.Issue("u1")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(ttl), exp)

	clock.t = issuedAt.Add(ttl - time.Second)
	_, err = s.Verify(tok)
	assert.NoError(t, err, "token must be accepted before T+10d")

	clock.t = issuedAt.Add(ttl)
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired, "token must be rejected at T+10d")

	clock.t = issuedAt.Add(ttl + time.Hour)
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSessionIssuer_SubSecondIssuance(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 900_000_000, time.UTC)
	clock := &fakeClock{t: issuedAt}
	ttl := 10 * 24 * time.Hour
	s := NewSessionIssuer("secret", ttl, clock.Now)

	tok, exp, err := s.Issue("u1")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Truncate(time.Second).Add(ttl), exp)

	clock.t = exp.Add(-500 * time.Millisecond)
	_, err = s.Verify(tok)
	assert.NoError(t, err)

	clock.t = exp
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSessionIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewSessionIssuer("right-secret", time.Hour, nil).Issue("u2")
	require.NoError(t, err)

	_, err = NewSessionIssuer("wrong-secret", time.Hour, nil).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSessionIssuer_Malformed(t *testing.T) {
	t.Parallel()

	s := NewSessionIssuer("k", time.Hour, nil)
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := s.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}

func TestSessionIssuer_EmptyUserID(t *testing.T) {
	t.Parallel()

	_, _, err := NewSessionIssuer("k", time.Hour, nil).Issue("")
	assert.Error(t, err)
}
