package parse

import (
	"bytes"
	"unicode/utf8"

	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/token"
)

// fillEmptyTags gives every tag without content an explicit null, so that
// `a: !t` followed by a sibling key, or a lone `!t` at the end of input,
// parses as a tagged null. Line numbers are unchanged.
func fillEmptyTags(d []byte) []byte {
	tks := lexer.Tokenize(string(d))
	var at []*token.Token
	for i, tk := range tks {
		if tk.Type == token.InvalidType {
			return d
		}
		if tk.Type == token.TagType && emptyTag(tks, i) {
			at = append(at, tk)
		}
	}
	if len(at) == 0 {
		return d
	}
	lines := bytes.SplitAfter(d, []byte("\n"))
	// from the end, so earlier insertions do not move later ones.
	for i := len(at) - 1; i >= 0; i-- {
		tk := at[i]
		ln := tk.Position.Line - 1
		if ln < 0 || ln >= len(lines) {
			continue
		}
		off := tagOffset(lines[ln], tk)
		if off < 0 {
			continue
		}
		end := off + len(tk.Value)
		filled := make([]byte, 0, len(lines[ln])+5)
		filled = append(filled, lines[ln][:end]...)
		filled = append(filled, " null"...)
		filled = append(filled, lines[ln][end:]...)
		lines[ln] = filled
	}
	return bytes.Join(lines, nil)
}

// emptyTag reports whether the tag at tks[i] has no content: nothing follows
// it, or the next token starts a later line no deeper than the entry owning
// the tag.
func emptyTag(tks token.Tokens, i int) bool {
	tag := tks[i]
	if tag.Position == nil {
		return false
	}
	var next *token.Token
	for _, tk := range tks[i+1:] {
		if tk.Type != token.CommentType {
			next = tk
			break
		}
	}
	if next == nil {
		return true
	}
	switch next.Type {
	case token.DocumentHeaderType, token.DocumentEndType:
		return true
	}
	if next.Position == nil || next.Position.Line <= tag.Position.Line {
		return false
	}
	return next.Position.Column <= ownerColumn(tks, i)
}

// ownerColumn is the column of the mapping key or sequence dash the tag at
// tks[i] belongs to, or 0 at document level.
func ownerColumn(tks token.Tokens, i int) int {
	j := i - 1
	for j >= 0 && (tks[j].Type == token.AnchorType || j > 0 && tks[j-1].Type == token.AnchorType) {
		j--
	}
	if j < 0 {
		return 0
	}
	switch tks[j].Type {
	case token.MappingValueType:
		if j > 0 && tks[j-1].Position != nil {
			return tks[j-1].Position.Column
		}
	case token.SequenceEntryType:
		if tks[j].Position != nil {
			return tks[j].Position.Column
		}
	}
	return 0
}

// tagOffset finds the byte offset of tk within its line, trying its
// column as a rune count and then as a byte count.
func tagOffset(line []byte, tk *token.Token) int {
	col := tk.Position.Column - 1
	val := []byte(tk.Value)
	if col < 0 {
		return -1
	}
	off, n := 0, 0
	for off < len(line) && n < col {
		_, sz := utf8.DecodeRune(line[off:])
		off += sz
		n++
	}
	if bytes.HasPrefix(line[off:], val) {
		return off
	}
	if col < len(line) && bytes.HasPrefix(line[col:], val) {
		return col
	}
	return -1
}
