package transport

import (
	"net/http"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(request *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer
type DoerFunc func(request *http.Request) (*http.Response, error)

// Do calls f(request)
func (f DoerFunc) Do(request *http.Request) (*http.Response, error) {
	return f(request)
}

// Middleware decorates a Doer
type Middleware func(next Doer) Doer

// Chain wraps doer with middlewares; the first middleware is the outermost.
func Chain(doer Doer, middlewares ...Middleware) Doer {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		doer = middlewares[i](doer)
	}
	return doer
}
