package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *Publisher) {
	t.Helper()
	mr := miniredis.RunT(t)
	p, err := Connect(context.Background(), "redis://"+mr.Addr(), "docver")
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return mr, p
}

func TestPublish_DeliversToSubscriber(t *testing.T) {
	mr, p := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	sub := rdb.Subscribe(ctx, "docver:version:upload")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n, err := p.Publish(ctx, "version:upload", map[string]any{"doc_id": "d", "version": 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "docver:version:upload", msg.Channel)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "d", got["doc_id"])
	assert.Equal(t, float64(2), got["version"])
}

func TestPublish_NoSubscribers(t *testing.T) {
	_, p := setup(t)
	n, err := p.Publish(context.Background(), "vote:cast", struct{}{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConnect_Errors(t *testing.T) {
	_, err := Connect(context.Background(), "not a url", "docver")
	assert.Error(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()
	_, err = Connect(context.Background(), "redis://"+addr, "docver")
	assert.Error(t, err)
}

func TestChannel(t *testing.T) {
	p := &Publisher{prefix: "docs"}
	assert.Equal(t, "docs:version:delete", p.Channel("version:delete"))
}
