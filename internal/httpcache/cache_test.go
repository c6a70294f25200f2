package httpcache

import (
	"testing"
	"time"

	"github.com/erpl-go/erpl/internal/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHttpCache_PutGet(t *testing.T) {
	c := New(time.Minute, time.Hour)
	defer c.Close()

	resp := &httpx.Response{StatusCode: 200, Body: []byte("ok")}
	c.Put("k1", resp)

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, resp, got)
}

func TestHttpCache_MissOnUnknownKey(t *testing.T) {
	c := New(time.Minute, time.Hour)
	defer c.Close()

	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestHttpCache_ExpiresAfterTTL(t *testing.T) {
	c := New(10*time.Millisecond, time.Hour)
	defer c.Close()

	c.Put("k1", &httpx.Response{StatusCode: 200})
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("k1")
	assert.False(t, ok)
}

func TestHttpCache_SweeperRemovesExpiredEntries(t *testing.T) {
	c := New(5*time.Millisecond, 10*time.Millisecond)
	defer c.Close()

	c.Put("k1", &httpx.Response{StatusCode: 200})
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 0, c.Len())
}

func TestHttpCache_Evict(t *testing.T) {
	c := New(time.Minute, time.Hour)
	defer c.Close()

	c.Put("k1", &httpx.Response{StatusCode: 200})
	c.Evict("k1")

	_, ok := c.Get("k1")
	assert.False(t, ok)
}

func TestHttpCache_Stats(t *testing.T) {
	c := New(time.Minute, time.Hour)
	defer c.Close()

	c.Put("k1", &httpx.Response{StatusCode: 200})
	c.Get("k1")
	c.Get("missing")

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}
