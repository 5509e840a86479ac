package upload

import (
	"net/http"

	"github.com/viant/afs"
	"github.com/viant/learnsphere"
)

// Option configures an Uploader
type Option func(u *Uploader)

// WithHTTPClient sets the storage transfer client
func WithHTTPClient(client *http.Client) Option {
	return func(u *Uploader) {
		if client != nil {
			u.client = client
		}
	}
}

// WithFS sets the source file system
func WithFS(fs afs.Service) Option {
	return func(u *Uploader) {
		u.fs = fs
	}
}

// WithLogger sets the logger
func WithLogger(logger learnsphere.Logger) Option {
	return func(u *Uploader) {
		u.logger = logger
	}
}
