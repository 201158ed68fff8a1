package auth

// TokenIssuer signs a time-bounded token asserting a user identity.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// TokenVerifier recovers the identity asserted by a token. Failures are
// *auth.VerificationError values from the domain package.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
