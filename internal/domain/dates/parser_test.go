package dates

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

func TestParser_Parse(t *testing.T) {
	p := NewParser(16)

	d, ok := p.Parse("2024-01-01")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d)

	tests := []string{"01/01/2024", "2024/01/01", "", "2024-13-01", "2024-02-30", "not a date"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, ok := p.Parse(input)
			assert.False(t, ok)
		})
	}
}

func TestParser_LayoutsAreDistinct(t *testing.T) {
	p := NewParser(16)

	_, ok := p.ParseSlashed("2023-03-01")
	assert.False(t, ok, "slashed path must not accept canonical input")

	d, ok := p.ParseSlashed("2023/03/01")
	require.True(t, ok)
	assert.Equal(t, time.March, d.Month())

	d, ok = p.ParseClustering("2023/03/01")
	require.True(t, ok)
	assert.Equal(t, 1, d.Day())

	d, ok = p.ParseClustering("2023-03-02")
	require.True(t, ok)
	assert.Equal(t, 2, d.Day())
}

func TestParser_ParseStrict(t *testing.T) {
	p := NewParser(16)

	_, err := p.ParseStrict("01/01/2024")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedDate)
	assert.Contains(t, err.Error(), "does not match format")

	d, err := p.ParseStrict("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())
}

func TestParser_DayOfMonth(t *testing.T) {
	p := NewParser(16)

	for want, input := range map[int]string{1: "2024-01-01", 2: "2024-01-02", 31: "2024-01-31"} {
		got, err := p.DayOfMonth(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := p.DayOfMonth("garbage")
	assert.ErrorIs(t, err, ErrMalformedDate)
}

func TestParser_CachesOnlySuccesses(t *testing.T) {
	p := NewParser(16)

	p.Parse("2024-01-01")
	p.Parse("2024-01-01")
	p.Parse("bad")
	assert.Equal(t, 1, p.CacheSize())

	p.ParseSlashed("2024/01/01")
	assert.Equal(t, 2, p.CacheSize())
}

func TestCache_Bounded(t *testing.T) {
	c := NewCache(2)
	c.Set("a", time.Unix(1, 0))
	c.Set("b", time.Unix(2, 0))
	c.Set("c", time.Unix(3, 0))

	assert.Equal(t, 2, c.Size())
	_, found := c.Get("a")
	assert.False(t, found, "oldest entry should be evicted")

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCache_DefaultSize(t *testing.T) {
	c := NewCache(0)
	for i := 0; i < DefaultCacheSize+10; i++ {
		c.Set(time.Unix(int64(i), 0).String(), time.Unix(int64(i), 0))
	}
	assert.Equal(t, DefaultCacheSize, c.Size())
}

func TestParser_ConcurrentUse(t *testing.T) {
	p := NewParser(8)
	inputs := []string{"2024-01-01", "2024-02-01", "2024-03-01", "bad", "2024/01/01"}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for _, in := range inputs {
				p.Parse(in)
				p.ParseClustering(in)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, p.CacheSize(), 8)
}

func TestTimeline(t *testing.T) {
	p := NewParser(16)
	txs := []transaction.Transaction{
		{Name: "A", Date: "2025-01-01"},
		{Name: "A", Date: "bogus"},
		{Name: "A", Date: "2025-01-11"},
	}

	tl := NewTimeline(txs, p.Parse)

	require.Len(t, tl, 3)
	assert.True(t, tl[0].Valid)
	assert.False(t, tl[1].Valid)
	assert.Equal(t, 1, tl.Invalid())
	require.Len(t, tl.Dates(), 2)
	assert.Equal(t, 10, DaysBetween(tl.Dates()[0], tl.Dates()[1]))
}
