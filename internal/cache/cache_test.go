package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetGetHit(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	key := Key("Hello World", "es")
	c.Set(key, "Hola Mundo")

	v, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "Hola Mundo", v)

	stats := c.Stats()
	require.Equal(t, int64(1), stats.Hits)
	require.Equal(t, int64(0), stats.Misses)
}

func TestGetMissIncrementsMisses(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	_, ok := c.Get(Key("nope", "fr"))
	require.False(t, ok)
	require.Equal(t, int64(1), c.Stats().Misses)
}

func TestNormalizeCollapsesAndLowercases(t *testing.T) {
	require.Equal(t, "hello world", Normalize("  Hello   World  "))
}

func TestExpiryWinsOverPresence(t *testing.T) {
	c := New(Config{TTL: 10 * time.Millisecond})
	defer c.Close()

	key := Key("content", "fr")
	c.Set(key, "contenu")
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(key)
	require.False(t, ok)
}

func TestLRUEvictionOnCapacity(t *testing.T) {
	c := New(Config{MaxEntries: 2})
	defer c.Close()

	c.Set("a", "1")
	c.Set("b", "2")
	// touch "a" so it is more recently accessed than "b"
	_, _ = c.Get("a")
	c.Set("c", "3")

	_, aOK := c.Get("a")
	_, bOK := c.Get("b")
	_, cOK := c.Get("c")

	require.True(t, aOK)
	require.False(t, bOK)
	require.True(t, cOK)
}

func TestClearResetsStats(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	c.Set("a", "1")
	_, _ = c.Get("a")
	c.Clear()

	stats := c.Stats()
	require.Equal(t, 0, stats.Entries)
	require.Equal(t, int64(0), stats.Hits)
	require.Equal(t, int64(0), stats.Misses)
}

func TestConcurrentAccessDoesNotDropEntries(t *testing.T) {
	c := New(Config{MaxEntries: 1000})
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key(string(rune('a'+i%26)), "en")
			c.Set(key, "v")
			c.Get(key)
		}(i)
	}
	wg.Wait()

	stats := c.Stats()
	require.Equal(t, 26, stats.Entries)
}

func TestHitRateMonotoneNonDecreasingForIdenticalInputs(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	key := Key("same text", "de")
	c.Set(key, "gleicher Text")

	var last float64
	for i := 0; i < 5; i++ {
		c.Get(key)
		rate := c.Stats().HitRate
		require.GreaterOrEqual(t, rate, last)
		last = rate
	}
}
