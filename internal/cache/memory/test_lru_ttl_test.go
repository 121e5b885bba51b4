package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUTTLEvictsLeastRecent(t *testing.T) {
	c := NewLRUTTL[string, int](2, 0, time.Minute)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	_, _ = c.Get("a")
	c.Set("c", 3, 0)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRUTTLRespectsByteLimit(t *testing.T) {
	c := NewLRUTTL[string, string](10, 8, time.Minute)
	c.Set("a", "aaaa", 4)
	c.Set("b", "bbbb", 4)
	c.Set("c", "cccc", 4)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 8, c.Bytes())

	c.Set("b", "bb", 2)
	assert.Equal(t, 6, c.Bytes())
}

func TestLRUTTLExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewLRUTTL[string, int](4, 0, time.Second).WithClock(func() time.Time { return now })
	c.Set("a", 1, 0)

	now = now.Add(500 * time.Millisecond)
	_, ok := c.Get("a")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUTTLDeleteAndClear(t *testing.T) {
	c := NewLRUTTL[string, int](4, 0, time.Minute)
	c.Set("a", 1, 3)
	c.Set("b", 2, 3)
	c.Delete("a")
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 3, c.Bytes())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Bytes())

	var nilCache *LRUTTL[string, int]
	_, ok := nilCache.Get("a")
	assert.False(t, ok)
}
