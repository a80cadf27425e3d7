package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

func newSubmitServer(t *testing.T, status int, body string, calls *int32, got *domain.Intake) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, SubmitPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		if got != nil {
			b, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(b, got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmissionClient_Success(t *testing.T) {
	var calls int32
	var got domain.Intake
	srv := newSubmitServer(t, http.StatusOK,
		`{"success":true,"message":"Resident data saved successfully","data":{"name":"Jane Doe","intake_date":"2024-03-01","participant_id":42}}`,
		&calls, &got)
	c := NewSubmissionClient(srv.URL, 5*time.Second, zap.NewNop())

	in := validIntake()
	in.Email = "Jane@Example.com"
	res, err := c.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(42), res.ParticipantID)
	assert.Equal(t, "Participant data submitted successfully", res.Message)
	assert.Equal(t, int32(1), calls)

	// 发送的是规范化后的记录，调用方记录不变
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "Jane@Example.com", in.Email)
	// 提交体保留真实 SSN（脱敏只作用于日志）
	assert.Equal(t, "123-45-6789", got.SocialSecurityNumber)
}

func TestSubmissionClient_ValidationSkipsRequest(t *testing.T) {
	var calls int32
	srv := newSubmitServer(t, http.StatusOK, `{}`, &calls, nil)
	c := NewSubmissionClient(srv.URL, time.Second, zap.NewNop())

	in := validIntake()
	in.LastName = ""
	_, err := c.Submit(context.Background(), in)
	requireRule(t, err, RuleMissingName)
	assert.Zero(t, calls)
}

func TestSubmissionClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   SubmitErrorKind
		msg    string
	}{
		{"http error", http.StatusInternalServerError, `{"success":false,"message":"db down"}`, KindHTTP, `API request failed: {"success":false,"message":"db down"}`},
		{"empty", http.StatusOK, ``, KindEmptyResponse, "empty response from server (status 200)"},
		{"decode", http.StatusOK, `<html>`, KindDecode, ""},
		{"rejected", http.StatusOK, `{"success":false,"message":"Duplicate participant"}`, KindRejected, "Duplicate participant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := newSubmitServer(t, tt.status, tt.body, &calls, nil)
			c := NewSubmissionClient(srv.URL, time.Second, zap.NewNop())

			_, err := c.Submit(context.Background(), validIntake())
			var se *SubmitError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.kind, se.Kind)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, se.Error())
			}
			assert.Equal(t, int32(1), calls, "no retries")
		})
	}
}

func TestSubmissionClient_Transport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewSubmissionClient(url, time.Second, zap.NewNop())
	_, err := c.Submit(context.Background(), validIntake())
	var se *SubmitError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindTransport, se.Kind)
	assert.NotNil(t, errors.Unwrap(se))
}
