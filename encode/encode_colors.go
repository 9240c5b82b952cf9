package encode

import (
	"github.com/signadot/tagload/ir"

	"github.com/fatih/color"
)

// ColorAttr names the part of the output being colored.
type ColorAttr int

const (
	TagColor ColorAttr = iota
	KeyColor
	ValueColor
	SepColor
)

// Palette colors encoder output. Tags, keys and separators have one color
// each, values are colored by type. A nil color leaves its text plain.
type Palette struct {
	Tag    *color.Color
	Key    *color.Color
	Sep    *color.Color
	Values map[ir.Type]*color.Color
}

func NewPalette() *Palette {
	return &Palette{
		Tag: forced(color.FgBlue, color.Bold),
		Key: forced(color.FgHiCyan),
		Sep: forced(color.FgHiMagenta),
		Values: map[ir.Type]*color.Color{
			ir.NullType:   forced(color.FgMagenta),
			ir.BoolType:   forced(color.FgCyan),
			ir.NumberType: forced(color.FgHiBlue),
			ir.TimeType:   forced(color.FgYellow),
			ir.StringType: forced(color.FgGreen),
		},
	}
}

// forced colors regardless of color.NoColor; callers decide when to color.
func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// Color renders s, the a part of a node of type t.
func (p *Palette) Color(t ir.Type, a ColorAttr, s string) string {
	var c *color.Color
	switch a {
	case TagColor:
		c = p.Tag
	case KeyColor:
		c = p.Key
	case SepColor:
		c = p.Sep
	case ValueColor:
		c = p.Values[t]
	}
	if c == nil {
		return s
	}
	return c.Sprint(s)
}
