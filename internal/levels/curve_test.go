package levels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCurve(t *testing.T) *Curve {
	t.Helper()
	c, err := New([]Level{
		{Name: "Novice", XP: 0},
		{Name: "Apprentice", XP: 100},
		{Name: "Adept", XP: 300},
	})
	require.NoError(t, err)
	return c
}

func TestFromXP(t *testing.T) {
	c := testCurve(t)

	tests := []struct {
		total    int
		index    int
		name     string
		start    int
		toNext   int
		nextName string
	}{
		{total: -40, index: 0, name: "Novice", start: 0, toNext: 140, nextName: "Apprentice"},
		{total: 0, index: 0, name: "Novice", start: 0, toNext: 100, nextName: "Apprentice"},
		{total: 99, index: 0, name: "Novice", start: 0, toNext: 1, nextName: "Apprentice"},
		{total: 100, index: 1, name: "Apprentice", start: 100, toNext: 200, nextName: "Adept"},
		{total: 300, index: 2, name: "Adept", start: 300, toNext: 0},
		{total: 9000, index: 2, name: "Adept", start: 300, toNext: 0},
	}

	for _, tt := range tests {
		p := c.FromXP(tt.total)
		assert.Equal(t, tt.index, p.Index, "index for %d", tt.total)
		assert.Equal(t, tt.name, p.Name, "name for %d", tt.total)
		assert.Equal(t, tt.start, p.XPAtLevelStart, "start for %d", tt.total)
		assert.Equal(t, tt.toNext, p.XPToNext, "xpToNext for %d", tt.total)
		assert.Equal(t, tt.nextName, p.NextName, "next name for %d", tt.total)
	}
}

func TestFromXP_Monotonic(t *testing.T) {
	c := Default()
	prev := c.FromXP(-500).Index
	for xp := -499; xp <= 5000; xp++ {
		idx := c.FromXP(xp).Index
		require.GreaterOrEqual(t, idx, prev, "level dropped at %d XP", xp)
		prev = idx
	}
	top := c.FromXP(1_000_000)
	assert.Equal(t, len(c.Levels())-1, top.Index)
	assert.Equal(t, 0, top.XPToNext)
}

func TestProgressFraction(t *testing.T) {
	c := testCurve(t)
	assert.InDelta(t, 0.5, c.FromXP(200).Fraction(), 1e-9)
	assert.Equal(t, 1.0, c.FromXP(500).Fraction())
	assert.Equal(t, 0.0, c.FromXP(-10).Fraction())
}

func TestNew_RejectsBadTables(t *testing.T) {
	cases := map[string][]Level{
		"empty":          nil,
		"positive start": {{Name: "A", XP: 10}},
		"not increasing": {{Name: "A", XP: 0}, {Name: "B", XP: 50}, {Name: "C", XP: 50}},
		"unnamed":        {{Name: "A", XP: 0}, {XP: 10}},
	}
	for name, table := range cases {
		_, err := New(table)
		assert.Error(t, err, name)
	}
}

func TestLoad_CustomTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.yaml")
	doc := "levels:\n  - name: Pebble\n    xp: 0\n  - name: Boulder\n    xp: 20\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Boulder", c.FromXP(25).Name)
	assert.Equal(t, 0, c.FromXP(25).XPToNext)
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Levels(), c.Levels())
}
