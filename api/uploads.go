package api

import (
	"context"
	"net/http"

	"github.com/viant/learnsphere"
)

// Uploads wraps the two-phase upload endpoints
type Uploads struct {
	sender Sender
}

// Init reserves a file and returns a presigned upload target
func (u *Uploads) Init(ctx context.Context, request *learnsphere.UploadRequest) (*learnsphere.UploadInit, error) {
	ret := &learnsphere.UploadInit{}
	if err := u.sender.Do(ctx, http.MethodPost, learnsphere.PathUploadsInit, nil, request, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Complete confirms an uploaded file
func (u *Uploads) Complete(ctx context.Context, fileID string) (*learnsphere.FileMetadata, error) {
	body := map[string]string{"fileId": fileID}
	ret := struct {
		File *learnsphere.FileMetadata `json:"file"`
	}{}
	if err := u.sender.Do(ctx, http.MethodPost, learnsphere.PathUploadsComplete, nil, body, &ret); err != nil {
		return nil, err
	}
	if ret.File == nil {
		return &learnsphere.FileMetadata{ID: fileID}, nil
	}
	return ret.File, nil
}
