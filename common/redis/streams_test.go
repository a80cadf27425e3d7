package redis

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAdder struct {
	args *redis.XAddArgs
}

func (r *recordingAdder) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	r.args = a
	return redis.NewStringResult("1-0", nil)
}

func TestPublishJSONToStream(t *testing.T) {
	rec := &recordingAdder{}
	id, err := PublishJSONToStream(context.Background(), rec, "intake:submitted", 100, map[string]any{"participant_id": 7})
	require.NoError(t, err)
	assert.Equal(t, "1-0", id)
	assert.Equal(t, "intake:submitted", rec.args.Stream)
	assert.Equal(t, int64(100), rec.args.MaxLen)
	assert.True(t, rec.args.Approx)

	values := rec.args.Values.(map[string]any)
	assert.JSONEq(t, `{"participant_id":7}`, values["data"].(string))

	_, err = PublishJSONToStream(context.Background(), rec, "s", 0, map[string]any{})
	require.NoError(t, err)
	assert.Zero(t, rec.args.MaxLen)
	assert.False(t, rec.args.Approx)
}
