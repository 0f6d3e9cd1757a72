package levels

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_levels.yaml
var defaultTable []byte

// Level is one row of the level table: the name and the cumulative XP at
// which it starts.
type Level struct {
	Name string `yaml:"name"`
	XP   int    `yaml:"xp"`
}

// Progress describes where a total XP value sits on the curve.
type Progress struct {
	TotalXP        int
	Index          int
	Name           string
	XPAtLevelStart int
	// XPToNext is the XP still needed for the next level; 0 at the top level.
	XPToNext int
	// NextName is empty at the top level.
	NextName string
}

// Fraction returns how far through the current level the total is, in [0,1].
func (p Progress) Fraction() float64 {
	if p.XPToNext == 0 {
		return 1
	}
	span := p.TotalXP - p.XPAtLevelStart + p.XPToNext
	if span <= 0 {
		return 0
	}
	done := float64(p.TotalXP-p.XPAtLevelStart) / float64(span)
	if done < 0 {
		return 0
	}
	return done
}

// Curve maps cumulative XP to levels using an ordered threshold table.
type Curve struct {
	levels []Level
}

// New validates levels and returns a Curve. Thresholds must be strictly
// increasing and the first one must not be positive, so every total has a
// level.
func New(levels []Level) (*Curve, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("level table is empty")
	}
	if levels[0].XP > 0 {
		return nil, fmt.Errorf("first level %q must start at 0 XP or below, got %d", levels[0].Name, levels[0].XP)
	}
	for i, l := range levels {
		if l.Name == "" {
			return nil, fmt.Errorf("level %d has no name", i)
		}
		if i > 0 && l.XP <= levels[i-1].XP {
			return nil, fmt.Errorf("level %q threshold %d must be greater than %q threshold %d", l.Name, l.XP, levels[i-1].Name, levels[i-1].XP)
		}
	}
	cp := make([]Level, len(levels))
	copy(cp, levels)
	return &Curve{levels: cp}, nil
}

type tableFile struct {
	Levels []Level `yaml:"levels"`
}

// Parse builds a Curve from a YAML level table.
func Parse(data []byte) (*Curve, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse level table: %w", err)
	}
	return New(tf.Levels)
}

// Load reads a level table from path. An empty path yields the built-in table.
func Load(path string) (*Curve, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level table: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in level table.
func Default() *Curve {
	c, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("built-in level table is invalid: %v", err))
	}
	return c
}

// Levels returns a copy of the table.
func (c *Curve) Levels() []Level {
	cp := make([]Level, len(c.levels))
	copy(cp, c.levels)
	return cp
}

// FromXP maps a cumulative XP total to its level. Totals below the first
// threshold (possible after penalties) map to the first level.
func (c *Curve) FromXP(total int) Progress {
	idx := 0
	for i, l := range c.levels {
		if total >= l.XP {
			idx = i
		} else {
			break
		}
	}

	p := Progress{
		TotalXP:        total,
		Index:          idx,
		Name:           c.levels[idx].Name,
		XPAtLevelStart: c.levels[idx].XP,
	}
	if idx+1 < len(c.levels) {
		next := c.levels[idx+1]
		p.XPToNext = next.XP - total
		p.NextName = next.Name
	}
	return p
}
