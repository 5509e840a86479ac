package auth

import (
	"net/http"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/transport"
)

// Bearer attaches the held credential as the request's bearer authorization.
// Requests are sent unauthenticated when no credential is held.
func Bearer(store CredentialStore) transport.Middleware {
	return func(next transport.Doer) transport.Doer {
		return transport.DoerFunc(func(request *http.Request) (*http.Response, error) {
			token, ok := SentToken(request.Context())
			if !ok {
				token = store.Token()
			}
			outgoing := request.Clone(request.Context())
			outgoing.Header.Del(learnsphere.HeaderAuthorization)
			if token != "" {
				outgoing.Header.Set(learnsphere.HeaderAuthorization, "Bearer "+token)
			}
			return next.Do(outgoing)
		})
	}
}
