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

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/metrics"
)

type fakePublisher struct {
	topic   string
	qos     byte
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(topic string, qos byte, _ bool, payload []byte) error {
	f.topic, f.qos, f.payload = topic, qos, payload
	return f.err
}

func (f *fakePublisher) QoS() byte { return 1 }

type fakeStream struct {
	args *redis.XAddArgs
}

func (f *fakeStream) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.args = a
	return redis.NewStringResult("1-0", nil)
}

type failingNotifier struct{}

func (failingNotifier) Name() string                                  { return "broken" }
func (failingNotifier) Notify(context.Context, SubmissionEvent) error { return errors.New("down") }

func testEvent() SubmissionEvent {
	return NewSubmissionEvent(42, validIntake(), time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestWebhookNotifier(t *testing.T) {
	var got SubmissionEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	require.NoError(t, NewWebhookNotifier(srv.URL, time.Second).Notify(context.Background(), testEvent()))
	assert.Equal(t, int64(42), got.ParticipantID)
	assert.Equal(t, "Jane Doe", got.Name)

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	assert.Error(t, NewWebhookNotifier(bad.URL, time.Second).Notify(context.Background(), testEvent()))
}

func TestMQTTNotifier(t *testing.T) {
	pub := &fakePublisher{}
	require.NoError(t, NewMQTTNotifier(pub, "intake/submitted").Notify(context.Background(), testEvent()))
	assert.Equal(t, "intake/submitted", pub.topic)
	assert.Equal(t, byte(1), pub.qos)
	assert.Contains(t, string(pub.payload), `"participant_id":42`)
	assert.NotContains(t, string(pub.payload), "123-45-6789")
}

func TestStreamNotifier(t *testing.T) {
	fs := &fakeStream{}
	require.NoError(t, NewStreamNotifier(fs, "intake:submitted", 100).Notify(context.Background(), testEvent()))
	require.NotNil(t, fs.args)
	assert.Equal(t, "intake:submitted", fs.args.Stream)
	assert.Equal(t, int64(100), fs.args.MaxLen)
	values, ok := fs.args.Values.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, values["data"], `"event":"intake.submitted"`)
}

func TestNotifiers_FailuresAreCounted(t *testing.T) {
	pub := &fakePublisher{}
	m := metrics.New(nil)
	n := NewNotifiers(zap.NewNop(), m, failingNotifier{}, NewMQTTNotifier(pub, "t"))
	assert.Equal(t, 1, n.NotifyAll(context.Background(), testEvent()))
	assert.Equal(t, "t", pub.topic, "later notifiers still run")
}
