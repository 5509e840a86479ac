// Package upload implements the two-phase file upload: reserve, transfer, confirm.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/api"
)

const defaultMimeType = "application/octet-stream"

// Uploader transfers files through pre-signed storage URLs
type Uploader struct {
	uploads *api.Uploads
	client  *http.Client
	fs      afs.Service
	logger  learnsphere.Logger
}

// Upload reserves a file, streams reader to storage and confirms it.
// The storage transfer carries no bearer credential.
func (u *Uploader) Upload(ctx context.Context, name, mimeType string, size int64, reader io.Reader, progress Progress) (*learnsphere.FileMetadata, error) {
	if mimeType == "" {
		mimeType = MimeType(name)
	}
	reserved, err := u.uploads.Init(ctx, &learnsphere.UploadRequest{Filename: name, MimeType: mimeType, Size: size})
	if err != nil {
		return nil, fmt.Errorf("failed to init upload %v: %w", name, err)
	}
	if err = u.transfer(ctx, reserved, mimeType, size, reader, progress); err != nil {
		return nil, err
	}
	if progress != nil {
		progress(100)
	}
	ret, err := u.uploads.Complete(ctx, reserved.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete upload %v: %w", reserved.FileID, err)
	}
	return ret, nil
}

// UploadURL uploads a local or remote source readable by afs
func (u *Uploader) UploadURL(ctx context.Context, sourceURL string, progress Progress) (*learnsphere.FileMetadata, error) {
	object, err := u.fs.Object(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %v: %w", sourceURL, err)
	}
	if object.IsDir() {
		return nil, fmt.Errorf("failed to upload %v: source is a directory", sourceURL)
	}
	reader, err := u.fs.OpenURL(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %v: %w", sourceURL, err)
	}
	defer reader.Close()
	return u.Upload(ctx, object.Name(), "", object.Size(), reader, progress)
}

func (u *Uploader) transfer(ctx context.Context, reserved *learnsphere.UploadInit, mimeType string, size int64, reader io.Reader, progress Progress) error {
	method := strings.ToUpper(reserved.Method)
	if method == "" {
		method = http.MethodPut
	}
	body := newProgressReader(reader, size, progress)
	request, err := http.NewRequestWithContext(ctx, method, reserved.UploadURL, body)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	request.ContentLength = size
	request.Header.Set(learnsphere.HeaderContentType, mimeType)
	response, err := u.client.Do(request)
	if err != nil {
		return learnsphere.NewTransportError(err)
	}
	defer response.Body.Close()
	data, _ := io.ReadAll(response.Body)
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		ret := learnsphere.NewStatusError(response.StatusCode, data)
		ret.Method, ret.Path = method, "upload"
		return ret
	}
	u.logger.Debugf("uploaded file %v (%v bytes)", reserved.FileID, size)
	return nil
}

// MimeType guesses a content type from the file extension
func MimeType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return defaultMimeType
	}
	if ret := mime.TypeByExtension(ext); ret != "" {
		if index := strings.Index(ret, ";"); index != -1 {
			ret = strings.TrimSpace(ret[:index])
		}
		return ret
	}
	return defaultMimeType
}

// New creates an Uploader
func New(uploads *api.Uploads, options ...Option) *Uploader {
	ret := &Uploader{
		uploads: uploads,
		client:  &http.Client{},
		fs:      afs.New(),
		logger:  learnsphere.DefaultLogger,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
