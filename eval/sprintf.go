package eval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/tagload/ir"
)

// directive is one parsed conversion such as "%-08.3f" or "%<port>d".
type directive struct {
	flags string
	width string
	prec  string
	hasP  bool
	verb  byte
	pos   int
	name  string
	// direct is set for "%{name}", which substitutes without conversion.
	direct bool
}

type formatter struct {
	src   string
	args  []any
	named *ir.Map
	next  int
	// mode is 0 until the first argument reference fixes one of
	// sequential, absolute or named.
	mode byte
}

// sprintf formats src printf style, for the conversions
// s d i u f e E g G x X o b B c p and %%, with flags, width, precision,
// absolute positions ("%1$s") and names ("%<name>s", "%{name}"). named is
// used instead of args when not nil.
func sprintf(src string, args []any, named *ir.Map) (string, error) {
	f := &formatter{src: src, args: args, named: named}
	b := &strings.Builder{}
	for i := 0; i < len(src); {
		c := src[i]
		if c != '%' {
			b.WriteByte(c)
			i++
			continue
		}
		d, n, err := f.parse(i)
		if err != nil {
			return "", err
		}
		i = n
		if d.verb == '%' {
			b.WriteByte('%')
			continue
		}
		v, err := f.arg(d)
		if err != nil {
			return "", err
		}
		s, err := d.format(v)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	if f.named == nil && f.mode == 's' && f.next < len(f.args) {
		return "", fmt.Errorf("%w: %d arguments for %d placeholders in %q", ErrFormatMismatch, len(f.args), f.next, src)
	}
	if f.named == nil && f.mode == 0 && len(f.args) != 0 {
		return "", fmt.Errorf("%w: %d arguments for no placeholders in %q", ErrFormatMismatch, len(f.args), src)
	}
	return b.String(), nil
}

func (f *formatter) parse(i int) (directive, int, error) {
	d := directive{}
	start := i
	i++
	bad := func(msg string) (directive, int, error) {
		return d, 0, fmt.Errorf("%w: %s in %q at %q", ErrFormatMismatch, msg, f.src, f.src[start:min(i+1, len(f.src))])
	}
	if i < len(f.src) && f.src[i] == '%' {
		d.verb = '%'
		return d, i + 1, nil
	}
	for i < len(f.src) {
		c := f.src[i]
		switch {
		case strings.IndexByte("-+ 0#", c) != -1:
			d.flags += string(c)
			i++
		case c == '<' || c == '{':
			if d.name != "" {
				return bad("named reference after named")
			}
			end := byte('>')
			if c == '{' {
				end = '}'
			}
			j := strings.IndexByte(f.src[i:], end)
			if j == -1 {
				return bad("unterminated name")
			}
			d.name = f.src[i+1 : i+j]
			i += j + 1
			if c == '{' {
				d.direct = true
				d.verb = 's'
				return d, i, nil
			}
		case c >= '1' && c <= '9' && d.width == "":
			j := i
			for j < len(f.src) && f.src[j] >= '0' && f.src[j] <= '9' {
				j++
			}
			if j < len(f.src) && f.src[j] == '$' {
				if d.pos != 0 {
					return bad("position after position")
				}
				d.pos, _ = strconv.Atoi(f.src[i:j])
				i = j + 1
				continue
			}
			d.width = f.src[i:j]
			i = j
		case c == '.':
			j := i + 1
			for j < len(f.src) && f.src[j] >= '0' && f.src[j] <= '9' {
				j++
			}
			d.prec = f.src[i+1 : j]
			d.hasP = true
			i = j
		case strings.IndexByte("sdiufeEgGxXobBcp", c) != -1:
			d.verb = c
			return d, i + 1, nil
		default:
			return bad(fmt.Sprintf("malformed format string - %%%c", c))
		}
	}
	return bad("incomplete format specifier")
}

func (f *formatter) setMode(m byte) error {
	if f.mode != 0 && f.mode != m {
		return fmt.Errorf("%w: %q mixes %s and %s references", ErrFormatMismatch, f.src, modeName(f.mode), modeName(m))
	}
	f.mode = m
	return nil
}

func modeName(m byte) string {
	switch m {
	case 'n':
		return "named"
	case 'a':
		return "absolute"
	}
	return "sequential"
}

func (f *formatter) arg(d directive) (any, error) {
	switch {
	case d.name != "":
		if err := f.setMode('n'); err != nil {
			return nil, err
		}
		if f.named == nil {
			return nil, fmt.Errorf("%w: %q refers to %q without named arguments", ErrFormatMismatch, f.src, d.name)
		}
		v, ok := f.named.Get(ir.Key(d.name))
		if !ok {
			return nil, fmt.Errorf("%w: key %q not found for %q", ErrFormatMismatch, d.name, f.src)
		}
		return v, nil
	case f.named != nil:
		return nil, fmt.Errorf("%w: %q has unnamed placeholders but named arguments", ErrFormatMismatch, f.src)
	case d.pos != 0:
		if err := f.setMode('a'); err != nil {
			return nil, err
		}
		if d.pos > len(f.args) {
			return nil, fmt.Errorf("%w: position %d of %q beyond %d arguments", ErrFormatMismatch, d.pos, f.src, len(f.args))
		}
		return f.args[d.pos-1], nil
	}
	if err := f.setMode('s'); err != nil {
		return nil, err
	}
	if f.next >= len(f.args) {
		return nil, fmt.Errorf("%w: too few arguments for %q", ErrFormatMismatch, f.src)
	}
	v := f.args[f.next]
	f.next++
	return v, nil
}

func (d directive) goFormat(verb byte, flags string) string {
	res := "%" + flags + d.width
	if d.hasP {
		res += "." + d.prec
		if d.prec == "" {
			res += "0"
		}
	}
	return res + string(verb)
}

func (d directive) format(v any) (string, error) {
	if d.direct {
		s, err := text(v)
		if err != nil {
			return "", d.mismatch(v)
		}
		return s, nil
	}
	switch d.verb {
	case 's', 'p':
		s, err := text(v)
		if err != nil {
			return "", d.mismatch(v)
		}
		if d.verb == 'p' {
			s = inspect(v)
		}
		return fmt.Sprintf(d.goFormat('s', strings.ReplaceAll(d.flags, "0", "")), s), nil
	case 'c':
		var r rune
		switch x := v.(type) {
		case string:
			if x == "" {
				return "", d.mismatch(v)
			}
			r = []rune(x)[0]
		default:
			i, ok := toInt(v)
			if !ok {
				return "", d.mismatch(v)
			}
			r = rune(i)
		}
		return fmt.Sprintf("%"+strings.ReplaceAll(d.flags, "0", "")+d.width+"c", r), nil
	case 'f', 'e', 'E', 'g', 'G':
		x, ok := toFloat(v)
		if !ok {
			return "", d.mismatch(v)
		}
		dd := d
		if !dd.hasP && (d.verb == 'g' || d.verb == 'G') {
			dd.hasP, dd.prec = true, "6"
		}
		return fmt.Sprintf(dd.goFormat(d.verb, d.flags), x), nil
	}
	i, ok := toInt(v)
	if !ok {
		return "", d.mismatch(v)
	}
	switch d.verb {
	case 'd', 'i', 'u':
		return fmt.Sprintf(d.goFormat('d', d.flags), i), nil
	case 'B':
		s := fmt.Sprintf(d.goFormat('b', d.flags), i)
		return strings.Replace(s, "0b", "0B", 1), nil
	default:
		return fmt.Sprintf(d.goFormat(d.verb, d.flags), i), nil
	}
}

func (d directive) mismatch(v any) error {
	return fmt.Errorf("%w: can't convert %T (%v) for %%%c", ErrFormatMismatch, v, v, d.verb)
}

func text(v any) (string, error) {
	switch x := v.(type) {
	case []any, *ir.Map:
		return fmt.Sprint(x), nil
	}
	return Stringify(v)
}

func inspect(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	}
	s, _ := text(v)
	return s
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int64(math.Trunc(x)), true
	case string:
		i, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(x), "_", ""), 0, 64)
		return i, err == nil
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}
