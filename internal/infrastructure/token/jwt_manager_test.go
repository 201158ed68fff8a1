package token

import (
	"errors"
	"testing"
	"time"

	domain "authgate/backend/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(secret string, now time.Time) *JWTManager {
	m := NewJWTManager(secret, time.Hour, "authgate")
	m.nowFunc = func() time.Time { return now }
	return m
}

func requireKind(t *testing.T, err error, want domain.FailureKind) {
	t.Helper()
	var verr *domain.VerificationError
	require.True(t, errors.As(err, &verr), "expected VerificationError, got %v", err)
	assert.Equal(t, want, verr.Kind)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()
	m := newTestManager("super-secret", time.Now())

	tok, err := m.Issue("user-123")
	require.NoError(t, err)

	subject, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestIssue_SetsClaims(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := newTestManager("k", now)

	tok, err := m.Issue("u1")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "authgate", claims.Issuer)
	assert.True(t, claims.IssuedAt.Time.Equal(now))
	assert.True(t, claims.ExpiresAt.Time.Equal(now.Add(time.Hour)))
}

func TestIssue_DefaultsExpiry(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("k", 0, "")
	assert.Equal(t, DefaultExpiry, m.expiration)
}

func TestIssue_SigningErrors(t *testing.T) {
	t.Parallel()

	_, err := newTestManager("", time.Now()).Issue("u1")
	assert.ErrorIs(t, err, domain.ErrSigning)

	_, err = newTestManager("k", time.Now()).Issue("")
	assert.ErrorIs(t, err, domain.ErrSigning)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()
	issuedAt := time.Now().Truncate(time.Second)
	tok, err := newTestManager("secret", issuedAt).Issue("u1")
	require.NoError(t, err)

	_, err = newTestManager("secret", issuedAt.Add(59*time.Minute)).Verify(tok)
	require.NoError(t, err)

	_, err = newTestManager("secret", issuedAt.Add(time.Hour)).Verify(tok)
	requireKind(t, err, domain.FailureExpired)

	_, err = newTestManager("secret", issuedAt.Add(2*time.Hour)).Verify(tok)
	requireKind(t, err, domain.FailureExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	now := time.Now()
	tok, err := newTestManager("right-secret", now).Issue("u2")
	require.NoError(t, err)

	_, err = newTestManager("wrong-secret", now).Verify(tok)
	requireKind(t, err, domain.FailureBadSignature)

	// signature is checked before expiry
	_, err = newTestManager("wrong-secret", now.Add(3*time.Hour)).Verify(tok)
	requireKind(t, err, domain.FailureBadSignature)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()
	m := newTestManager("k", time.Now())

	for _, raw := range []string{"", "garbage", "not.a.jwt", "a.b"} {
		_, err := m.Verify(raw)
		requireKind(t, err, domain.FailureMalformed)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()
	now := time.Now()
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "authgate",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestManager("k", now).Verify(unsigned)
	requireKind(t, err, domain.FailureBadSignature)
}

func TestVerify_RejectsTokenWithoutExpiry(t *testing.T) {
	t.Parallel()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u1",
		Issuer:  "authgate",
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = newTestManager("k", time.Now()).Verify(tok)
	requireKind(t, err, domain.FailureMalformed)
}

func TestVerify_RejectsEmptySubject(t *testing.T) {
	t.Parallel()
	now := time.Now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "authgate",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = newTestManager("k", now).Verify(tok)
	requireKind(t, err, domain.FailureMalformed)
}

func TestVerify_RejectsForeignIssuer(t *testing.T) {
	t.Parallel()
	now := time.Now()
	other := NewJWTManager("k", time.Hour, "someone-else")
	other.nowFunc = func() time.Time { return now }
	tok, err := other.Issue("u1")
	require.NoError(t, err)

	_, err = newTestManager("k", now).Verify(tok)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
