package token

import (
	"errors"
	"fmt"
	"time"

	domain "authgate/backend/internal/domain/auth"
	usecase "authgate/backend/internal/usecase/auth"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiry is the token lifetime used when none is configured.
const DefaultExpiry = time.Hour

// JWTManager issues and validates HS256 JWT tokens.
type JWTManager struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	nowFunc    func() time.Time
}

// NewJWTManager constructs a manager with the provided secret and expiration.
func NewJWTManager(secret string, expiration time.Duration, issuer string) *JWTManager {
	if expiration <= 0 {
		expiration = DefaultExpiry
	}
	return &JWTManager{
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
		nowFunc:    time.Now,
	}
}

// Ensure JWTManager implements the use case token interfaces.
var (
	_ usecase.TokenIssuer   = (*JWTManager)(nil)
	_ usecase.TokenVerifier = (*JWTManager)(nil)
)

// Issue creates a signed JWT asserting subject, valid for the configured expiration.
func (m *JWTManager) Issue(subject string) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("%w: secret is not configured", domain.ErrSigning)
	}
	if subject == "" {
		return "", fmt.Errorf("%w: subject is empty", domain.ErrSigning)
	}

	now := m.nowFunc().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSigning, err)
	}
	return signed, nil
}

// Verify parses tokenString and returns its subject. Every failure is a
// *domain.VerificationError carrying the reason.
func (m *JWTManager) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.nowFunc),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if len(m.secret) == 0 {
			return nil, errors.New("secret is not configured")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", &domain.VerificationError{Kind: classify(err), Err: err}
	}
	if !token.Valid {
		return "", &domain.VerificationError{Kind: domain.FailureMalformed, Err: errors.New("token not valid")}
	}
	if claims.Subject == "" {
		return "", &domain.VerificationError{Kind: domain.FailureMalformed, Err: jwt.ErrTokenRequiredClaimMissing}
	}
	return claims.Subject, nil
}

func classify(err error) domain.FailureKind {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.FailureMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.FailureBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.FailureExpired
	default:
		return domain.FailureMalformed
	}
}
