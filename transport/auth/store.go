package auth

import (
	"context"
)

// CredentialStore holds the process wide access credential.
// session.Store is the production implementation.
type CredentialStore interface {
	// Token returns the held credential or empty string
	Token() string
	// SetToken stores a freshly issued credential
	SetToken(token string)
	// Clear drops the credential and the session derived from it
	Clear()
	// BeginRenewal flags a renewal in flight until the returned func is called
	BeginRenewal() (end func())
}

type sentTokenKey struct{}

type retriedKey struct{}

// WithSentToken pins the credential a request is sent with.
func WithSentToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sentTokenKey{}, token)
}

// SentToken returns the credential pinned on ctx
func SentToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sentTokenKey{}).(string)
	return token, ok
}

func withRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

// Retried reports whether the request already used its single renewal attempt.
func Retried(ctx context.Context) bool {
	retried, _ := ctx.Value(retriedKey{}).(bool)
	return retried
}
