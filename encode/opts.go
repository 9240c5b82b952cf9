package encode

import (
	"github.com/signadot/tagload/format"
	"github.com/signadot/tagload/ir"
)

type EncodeOption func(*EncState)

type EncState struct {
	format format.Format
	indent int
	Color  func(t ir.Type, a ColorAttr, s string) string
}

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

func EncodeColors(p *Palette) EncodeOption {
	return func(es *EncState) {
		if p == nil {
			es.Color = nil
			return
		}
		es.Color = p.Color
	}
}

func newEncState(opts []EncodeOption) *EncState {
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

func (es *EncState) color(t ir.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}
