package logger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	mu       sync.Mutex
	messages map[int64][]string
}

func (c *recordingClient) SendMessage(chatID int64, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.messages == nil {
		c.messages = make(map[int64][]string)
	}
	c.messages[chatID] = append(c.messages[chatID], text)
	return nil
}

func (c *recordingClient) count(chatID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages[chatID])
}

func (c *recordingClient) last(chatID int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := c.messages[chatID]
	return msgs[len(msgs)-1]
}

func TestLogsReachChannel(t *testing.T) {
	client := &recordingClient{}
	Init(client, 42)
	t.Cleanup(func() { Init(nil, 0) })

	Success("song saved\nID: abc")

	require.Eventually(t, func() bool { return client.count(42) == 1 }, time.Second, 10*time.Millisecond)
	assert.Contains(t, client.last(42), "✅ SUCCESS")
	assert.Contains(t, client.last(42), "song saved\nID: abc")
}

func TestNoChannelWithoutClient(t *testing.T) {
	Init(nil, 0)
	assert.NotPanics(t, func() { Info("nobody listens") })
}

func TestLogWithErr(t *testing.T) {
	client := &recordingClient{}
	Init(client, 7)
	t.Cleanup(func() { Init(nil, 0) })

	assert.NoError(t, LogWithErr("all good", nil))

	cause := errors.New("boom")
	err := LogWithErr("delete failed", cause)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "delete failed: boom", err.Error())

	require.Eventually(t, func() bool { return client.count(7) == 2 }, time.Second, 10*time.Millisecond)
}
