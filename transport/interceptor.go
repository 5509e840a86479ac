package transport

import (
	"io"
	"net/http"
)

// Interceptor defines an interface for inspecting HTTP responses before they reach the caller.
// It allows for transparent recovery by returning a follow-up request
type Interceptor interface {
	// Intercept is called after a response is received (never on transport errors)
	// It receives the original request and the response
	// If it returns a non-nil request, that request will be sent as a follow-up and its result returned instead
	// If it returns nil, the original response is returned unchanged
	Intercept(request *http.Request, response *http.Response) (*http.Request, error)
}

// InterceptorFunc adapts a function to Interceptor
type InterceptorFunc func(request *http.Request, response *http.Response) (*http.Request, error)

// Intercept calls f(request, response)
func (f InterceptorFunc) Intercept(request *http.Request, response *http.Response) (*http.Request, error) {
	return f(request, response)
}

// Intercept returns a middleware sending at most one follow-up request per original request.
func Intercept(interceptor Interceptor) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(request *http.Request) (*http.Response, error) {
			response, err := next.Do(request)
			if err != nil {
				return nil, err
			}
			followUp, err := interceptor.Intercept(request, response)
			if err != nil {
				drain(response)
				return nil, err
			}
			if followUp == nil {
				return response, nil
			}
			drain(response)
			return next.Do(followUp)
		})
	}
}

func drain(response *http.Response) {
	if response == nil || response.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, response.Body)
	_ = response.Body.Close()
}
