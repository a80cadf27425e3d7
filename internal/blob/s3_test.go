package blob

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type putRecord struct {
	path        string
	contentType string
	body        []byte
}

// recordingTransport 只处理 PutObject 的假 S3
type recordingTransport struct {
	mu     sync.Mutex
	puts   []putRecord
	status int
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	status := rt.status
	if status == 0 {
		status = http.StatusOK
	}
	if req.Method == http.MethodPut && status == http.StatusOK {
		body, _ := io.ReadAll(req.Body)
		rt.puts = append(rt.puts, putRecord{path: req.URL.Path, contentType: req.Header.Get("Content-Type"), body: body})
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     http.Header{"ETag": {"\"etag\""}},
		Request:    req,
	}, nil
}

func newMockArchive(t *testing.T, rt *recordingTransport, prefix string) *S3Archive {
	a, err := NewS3Archive(context.Background(), Config{
		Bucket:          "intake-pdfs",
		Prefix:          prefix,
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		HTTPClient:      &http.Client{Transport: rt},
	})
	require.NoError(t, err)
	return a
}

func TestS3Archive_PutPDF(t *testing.T) {
	rt := &recordingTransport{}
	a := newMockArchive(t, rt, "/intake/")

	key, err := a.PutPDF(context.Background(), "2024/03/01/DoeJane_Intake_1.pdf", []byte("%PDF-1.7 test"))
	require.NoError(t, err)
	assert.Equal(t, "intake/2024/03/01/DoeJane_Intake_1.pdf", key)

	require.Len(t, rt.puts, 1)
	assert.Equal(t, "/intake-pdfs/intake/2024/03/01/DoeJane_Intake_1.pdf", rt.puts[0].path)
	assert.Equal(t, "application/pdf", rt.puts[0].contentType)
	assert.True(t, bytes.Contains(rt.puts[0].body, []byte("%PDF-1.7 test")))
}

func TestS3Archive_PutPDFError(t *testing.T) {
	rt := &recordingTransport{status: http.StatusForbidden}
	a := newMockArchive(t, rt, "")
	_, err := a.PutPDF(context.Background(), "x.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to put pdf x.pdf"))
}

func TestNewS3Archive_RequiresBucket(t *testing.T) {
	_, err := NewS3Archive(context.Background(), Config{})
	assert.Error(t, err)
}

func TestArchiveKey(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024/03/01/DoeJane_Intake_1709294400.pdf", ArchiveKey(now, "DoeJane_Intake.pdf"))
}
