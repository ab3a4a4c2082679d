package market

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func bar(date string, close float64) Bar {
	return Bar{Time: day(date), Close: decimal.NewFromFloat(close)}
}

func TestNormalize(t *testing.T) {
	tbl := []struct {
		in  []Bar
		out []Bar
	}{
		{
			in:  []Bar{bar("2024-01-03", 3), bar("2024-01-01", 1), bar("2024-01-02", 2)},
			out: []Bar{bar("2024-01-01", 1), bar("2024-01-02", 2), bar("2024-01-03", 3)},
		},
		{
			in:  []Bar{bar("2024-01-01", 1), bar("2024-01-01", 5), bar("2024-01-02", 2)},
			out: []Bar{bar("2024-01-01", 5), bar("2024-01-02", 2)},
		},
		{
			in:  []Bar{bar("2024-01-01", 1), bar("2024-01-02", 0), bar("2024-01-03", -4)},
			out: []Bar{bar("2024-01-01", 1)},
		},
		{
			in:  []Bar{},
			out: []Bar{},
		},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			got := Normalize(c.in)
			require.Len(t, got, len(c.out))

			for j, b := range got {
				assert.Equal(t, c.out[j].Time, b.Time)
				assert.True(t, c.out[j].Close.Equal(b.Close), "close at %d: expected %s got %s", j, c.out[j].Close, b.Close)
			}
		})
	}
}

func TestMerge_freshBarsWin(t *testing.T) {
	cached := []Bar{bar("2024-01-01", 1), bar("2024-01-02", 2)}
	fresh := []Bar{bar("2024-01-02", 2.5), bar("2024-01-03", 3)}

	got := Merge(cached, fresh)
	require.Len(t, got, 3)

	assert.True(t, decimal.NewFromFloat(2.5).Equal(got[1].Close))
	assert.Equal(t, day("2024-01-03"), got[2].Time)
}

func TestLastN(t *testing.T) {
	bars := []Bar{bar("2024-01-01", 1), bar("2024-01-02", 2), bar("2024-01-03", 3)}

	assert.Len(t, LastN(bars, 2), 2)
	assert.Equal(t, day("2024-01-02"), LastN(bars, 2)[0].Time)
	assert.Len(t, LastN(bars, 5), 3)
	assert.Len(t, LastN(bars, 0), 0)
}

func TestCloses(t *testing.T) {
	bars := []Bar{bar("2024-01-01", 1.5), bar("2024-01-02", 2.25)}
	assert.Equal(t, []float64{1.5, 2.25}, Closes(bars))
}

func TestSameDay(t *testing.T) {
	tbl := []struct {
		a, b time.Time
		same bool
	}{
		{a: day("2024-01-01"), b: day("2024-01-01").Add(23 * time.Hour), same: true},
		{a: day("2024-01-01"), b: day("2024-01-02"), same: false},
		{a: day("2024-01-01").Add(5 * time.Hour), b: day("2024-01-01"), same: true},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			assert.Equal(t, c.same, SameDay(c.a, c.b))
		})
	}
}
