package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

func TestPDFClient_Generate(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &payload)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	c := NewPDFClient(srv.URL, time.Second, zap.NewNop())
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }

	pdf, err := c.Generate(context.Background(), validIntake())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), pdf)
	assert.Equal(t, "intake_form", payload["documentType"])
	assert.Equal(t, float64(1700000000000), payload["_requestTimestamp"])
	assert.Equal(t, "Jane", payload["firstName"])
}

func TestPDFClient_Errors(t *testing.T) {
	status := http.StatusOK
	body := ""
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()
	c := NewPDFClient(srv.URL, time.Second, zap.NewNop())

	_, err := c.Generate(context.Background(), validIntake())
	assert.True(t, errors.Is(err, ErrEmptyPDF))

	status, body = http.StatusBadGateway, "renderer crashed"
	_, err = c.Generate(context.Background(), validIntake())
	var ue *PDFUpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusBadGateway, ue.Status)
	assert.Equal(t, "renderer crashed", ue.Detail)

	in := validIntake()
	in.FirstName = ""
	_, err = c.Generate(context.Background(), in)
	requireRule(t, err, RuleMissingName)

	_, err = NewPDFClient("", 0, zap.NewNop()).Generate(context.Background(), validIntake())
	assert.True(t, errors.Is(err, ErrPDFNotConfigured))
}

func TestPDFFileName(t *testing.T) {
	assert.Equal(t, "DoeJane_Intake.pdf", PDFFileName(domain.Intake{FirstName: " Jane ", LastName: "Doe"}))
	assert.Equal(t, "OBrienMary-Kate_Intake.pdf", PDFFileName(domain.Intake{FirstName: "Mary-Kate", LastName: "O'Brien"}))
}

type fakeArchive struct {
	keys []string
	err  error
}

func (f *fakeArchive) PutPDF(_ context.Context, key string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return key, nil
}

type fakeGenerator struct {
	pdf []byte
	err error
}

func (f fakeGenerator) Generate(context.Context, domain.Intake) ([]byte, error) { return f.pdf, f.err }

func TestPDFService_Archive(t *testing.T) {
	archive := &fakeArchive{}
	s := NewPDFService(fakeGenerator{pdf: []byte("%PDF")}, archive, nil, zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	res, err := s.Generate(context.Background(), validIntake())
	require.NoError(t, err)
	assert.Equal(t, "DoeJane_Intake.pdf", res.FileName)
	require.Len(t, archive.keys, 1)
	assert.Equal(t, archive.keys[0], res.ArchiveKey)
	assert.Contains(t, res.ArchiveKey, "2024/03/01/DoeJane_Intake_")

	// 归档失败不影响返回
	s.archive = &fakeArchive{err: errors.New("s3 down")}
	res, err = s.Generate(context.Background(), validIntake())
	require.NoError(t, err)
	assert.Empty(t, res.ArchiveKey)
}

func TestPDFService_GeneratorError(t *testing.T) {
	s := NewPDFService(fakeGenerator{err: ErrEmptyPDF}, nil, nil, zap.NewNop())
	_, err := s.Generate(context.Background(), validIntake())
	assert.True(t, errors.Is(err, ErrEmptyPDF))
	assert.Equal(t, "empty", pdfResultLabel(err))
}

func TestPDFService_ArchivedEvent(t *testing.T) {
	pub := &fakePublisher{}
	s := NewPDFService(fakeGenerator{pdf: []byte("%PDF")}, &fakeArchive{}, nil, zap.NewNop()).
		WithNotifiers(NewNotifiers(zap.NewNop(), nil, NewMQTTNotifier(pub, "intake/submitted")))

	res, err := s.Generate(context.Background(), validIntake())
	require.NoError(t, err)
	require.NotEmpty(t, res.ArchiveKey)

	var ev SubmissionEvent
	require.NoError(t, json.Unmarshal(pub.payload, &ev))
	assert.Equal(t, EventPDFArchived, ev.Event)
	assert.Equal(t, res.ArchiveKey, ev.PDFKey)
	assert.Equal(t, "Jane Doe", ev.Name)
	assert.Zero(t, ev.ParticipantID)

	// 未归档不广播
	pub.payload = nil
	s.archive = nil
	_, err = s.Generate(context.Background(), validIntake())
	require.NoError(t, err)
	assert.Nil(t, pub.payload)
}
