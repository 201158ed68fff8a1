package auth

import (
	"context"
	"fmt"
)

// FailureKind classifies why a token was rejected. The kinds are kept for
// operators only; clients always see ErrTokenInvalid.
type FailureKind int

const (
	// FailureMalformed covers tokens that cannot be decoded or lack required claims.
	FailureMalformed FailureKind = iota + 1
	// FailureBadSignature covers tokens signed with another key or algorithm.
	FailureBadSignature
	// FailureExpired covers correctly signed tokens past their expiry.
	FailureExpired
)

func (k FailureKind) String() string {
	switch k {
	case FailureMalformed:
		return "malformed"
	case FailureBadSignature:
		return "bad_signature"
	case FailureExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// VerificationError is returned by token verifiers for every rejected token.
type VerificationError struct {
	Kind FailureKind
	Err  error
}

func (e *VerificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("token %s", e.Kind)
	}
	return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrTokenInvalid) match any verification failure.
func (e *VerificationError) Is(target error) bool {
	return target == ErrTokenInvalid
}

// AuthContext is the request-scoped identity recovered from a verified token.
type AuthContext struct {
	UserID string
}

type ctxKeyAuth struct{}

// WithAuthContext returns a copy of ctx carrying ac.
func WithAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, ctxKeyAuth{}, ac)
}

// FromContext returns the AuthContext attached by the auth gate, if any.
func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(ctxKeyAuth{}).(AuthContext)
	if !ok || ac.UserID == "" {
		return AuthContext{}, false
	}
	return ac, true
}
