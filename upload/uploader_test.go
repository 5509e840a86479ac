package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/api"
)

// stubSender answers the upload endpoints in memory
type stubSender struct {
	storageURL string
	completed  []string
	requests   []learnsphere.UploadRequest
}

func (s *stubSender) Do(_ context.Context, method, path string, _ url.Values, body, out interface{}) error {
	var response interface{}
	switch path {
	case learnsphere.PathUploadsInit:
		request := body.(*learnsphere.UploadRequest)
		s.requests = append(s.requests, *request)
		response = learnsphere.UploadInit{UploadURL: s.storageURL + "/f-1", FileID: "f-1", Method: http.MethodPut}
	case learnsphere.PathUploadsComplete:
		fileID := body.(map[string]string)["fileId"]
		s.completed = append(s.completed, fileID)
		request := s.requests[len(s.requests)-1]
		response = map[string]interface{}{"file": learnsphere.FileMetadata{ID: fileID, Filename: request.Filename, MimeType: request.MimeType, Size: request.Size}}
	default:
		return learnsphere.NewStatusError(http.StatusNotFound, nil)
	}
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

type storage struct {
	mux           sync.Mutex
	status        int
	method        string
	contentType   string
	authorization string
	data          []byte
}

func (s *storage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	s.mux.Lock()
	defer s.mux.Unlock()
	s.method = r.Method
	s.contentType = r.Header.Get(learnsphere.HeaderContentType)
	s.authorization = r.Header.Get(learnsphere.HeaderAuthorization)
	s.data = data
	if s.status != 0 {
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(`{"error":{"code":"DENIED","message":"signature expired"}}`))
	}
}

type recorder struct {
	mux      sync.Mutex
	percents []int
}

func (r *recorder) progress(percent int) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.percents = append(r.percents, percent)
}

func newUploader(t *testing.T, store *storage) (*Uploader, *stubSender) {
	server := httptest.NewServer(store)
	t.Cleanup(server.Close)
	sender := &stubSender{storageURL: server.URL}
	return New(api.New(sender).Uploads, WithLogger(learnsphere.NopLogger{})), sender
}

func TestUploader_Upload(t *testing.T) {
	store := &storage{}
	uploader, sender := newUploader(t, store)
	payload := bytes.Repeat([]byte("x"), 64*1024)
	rec := &recorder{}

	meta, err := uploader.Upload(context.Background(), "lesson.pdf", "", int64(len(payload)), bytes.NewReader(payload), rec.progress)
	require.NoError(t, err)
	assert.Equal(t, "f-1", meta.ID)
	assert.Equal(t, "application/pdf", meta.MimeType)
	assert.Equal(t, []string{"f-1"}, sender.completed)

	store.mux.Lock()
	defer store.mux.Unlock()
	assert.Equal(t, http.MethodPut, store.method)
	assert.Equal(t, "application/pdf", store.contentType)
	assert.Empty(t, store.authorization)
	assert.Equal(t, payload, store.data)

	require.NotEmpty(t, rec.percents)
	assert.Equal(t, 100, rec.percents[len(rec.percents)-1])
	for i := 1; i < len(rec.percents); i++ {
		assert.GreaterOrEqual(t, rec.percents[i], rec.percents[i-1])
	}
}

func TestUploader_StorageFailure(t *testing.T) {
	store := &storage{status: http.StatusForbidden}
	uploader, sender := newUploader(t, store)
	rec := &recorder{}

	_, err := uploader.Upload(context.Background(), "cover.png", "image/png", 3, strings.NewReader("png"), rec.progress)
	require.Error(t, err)
	assert.True(t, learnsphere.IsForbidden(err))
	assert.Empty(t, sender.completed)
}

func TestUploader_UploadURL(t *testing.T) {
	store := &storage{}
	uploader, sender := newUploader(t, store)
	dir := t.TempDir()
	location := filepath.Join(dir, "notes.json")
	require.NoError(t, os.WriteFile(location, []byte(`{"lesson":1}`), 0o644))

	meta, err := uploader.UploadURL(context.Background(), location, nil)
	require.NoError(t, err)
	assert.Equal(t, "notes.json", meta.Filename)
	assert.Equal(t, "application/json", meta.MimeType)
	assert.EqualValues(t, 12, sender.requests[0].Size)
	store.mux.Lock()
	assert.Equal(t, []byte(`{"lesson":1}`), store.data)
	store.mux.Unlock()

	_, err = uploader.UploadURL(context.Background(), dir, nil)
	assert.Error(t, err)
}

func TestMimeType(t *testing.T) {
	tests := []struct {
		name   string
		expect string
	}{
		{name: "cover.PNG", expect: "image/png"},
		{name: "intro.html", expect: "text/html"},
		{name: "slides.pdf", expect: "application/pdf"},
		{name: "archive", expect: defaultMimeType},
		{name: "data.zzqx", expect: defaultMimeType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, MimeType(tt.name))
		})
	}
}

func TestProgressReader(t *testing.T) {
	rec := &recorder{}
	reader := newProgressReader(strings.NewReader("abcdefghij"), 10, rec.progress)
	buf := make([]byte, 3)
	for {
		if _, err := reader.Read(buf); err == io.EOF {
			break
		}
	}
	assert.Equal(t, []int{30, 60, 90, 100}, rec.percents)
}
