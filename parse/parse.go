package parse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/signadot/tagload/ir"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// Parse reads the first document of d. It returns a nil node for an empty
// document.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{}
	for _, f := range opts {
		f(pOpts)
	}
	if len(d) != 0 && d[len(d)-1] != '\n' {
		d = append(d[:len(d):len(d)], '\n')
	}
	file, err := parser.ParseBytes(fillEmptyTags(d), 0)
	if err != nil {
		if pOpts.filename != "" {
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, pOpts.filename, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return nil, nil
	}
	p := &docParser{opts: pOpts, anchors: map[string]*ir.Node{}}
	res, err := p.node(file.Docs[0].Body)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type docParser struct {
	opts    *parseOpts
	anchors map[string]*ir.Node
}

func (p *docParser) node(an ast.Node) (*ir.Node, error) {
	if an == nil {
		return ir.Null(), nil
	}
	var (
		res *ir.Node
		err error
	)
	switch x := an.(type) {
	case *ast.TagNode:
		return p.tagged(x)
	case *ast.AnchorNode:
		res, err = p.node(x.Value)
		if err != nil {
			return nil, err
		}
		p.anchors[x.Name.GetToken().Value] = res
		return res, nil
	case *ast.AliasNode:
		name := x.Value.GetToken().Value
		target, ok := p.anchors[name]
		if !ok {
			return nil, fmt.Errorf("%w %q at line %d", ErrAlias, name, line(x))
		}
		res = clone(target)
	case *ast.MappingNode:
		res, err = p.mapping(x.Values)
	case *ast.MappingValueNode:
		res, err = p.mapping([]*ast.MappingValueNode{x})
	case *ast.SequenceNode:
		items := make([]*ir.Node, 0, len(x.Values))
		for _, v := range x.Values {
			item, err := p.node(v)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		res = ir.FromSlice(items)
	case *ast.NullNode, *ast.CommentGroupNode:
		res = ir.Null()
	case *ast.BoolNode:
		res = ir.FromBool(x.Value)
	case *ast.IntegerNode:
		switch v := x.Value.(type) {
		case int64:
			res = ir.FromInt(v)
		case uint64:
			if v <= math.MaxInt64 {
				res = ir.FromInt(int64(v))
				break
			}
			res = ir.FromUint(v)
		default:
			res, err = intFromText(x.GetToken().Value)
		}
	case *ast.FloatNode:
		res = ir.FromFloat(x.Value)
	case *ast.InfinityNode:
		res = ir.FromFloat(x.Value)
	case *ast.NanNode:
		res = ir.FromFloat(math.NaN())
	case *ast.LiteralNode:
		res = ir.FromString(x.Value.Value)
	case *ast.StringNode:
		res = p.str(x.Value, quoted(x))
	default:
		return nil, fmt.Errorf("%w: unexpected %s at line %d", ErrParse, an.Type(), line(an))
	}
	if err != nil {
		return nil, err
	}
	if tok := an.GetToken(); tok != nil && tok.Position != nil {
		res.WithPos(tok.Position.Line, tok.Position.Column)
		switch an.(type) {
		case *ast.IntegerNode, *ast.FloatNode, *ast.InfinityNode, *ast.NanNode, *ast.BoolNode, *ast.NullNode:
			res.Text = tok.Value
		}
	}
	return res, nil
}

func (p *docParser) str(s string, quoted bool) *ir.Node {
	if p.opts.timestamps && !quoted {
		if ts, ok := parseTimestamp(s); ok {
			res := ir.FromTime(ts)
			res.Text = s
			return res
		}
	}
	return ir.FromString(s)
}

func (p *docParser) tagged(x *ast.TagNode) (*ir.Node, error) {
	tag := x.Start.Value
	if strings.HasPrefix(tag, "!!") {
		return p.coreTagged(strings.TrimPrefix(tag, "!!"), x)
	}
	var (
		res *ir.Node
		err error
	)
	if s, ok := x.Value.(*ast.StringNode); ok && !quoted(s) {
		res, err = p.plain(s)
	} else {
		res, err = p.node(x.Value)
	}
	if err != nil {
		return nil, err
	}
	if x.Start.Position != nil {
		res.WithPos(x.Start.Position.Line, x.Start.Position.Column)
	}
	return res.WithTag(strings.TrimPrefix(tag, "!")), nil
}

// plain types the text of a scalar under a local tag, which the scanner
// always leaves as a string.
func (p *docParser) plain(s *ast.StringNode) (*ir.Node, error) {
	tk := token.New(s.Value, s.Value, s.GetToken().Position)
	var an ast.Node
	switch tk.Type {
	case token.NullType:
		an = ast.Null(tk)
	case token.BoolType:
		an = ast.Bool(tk)
	case token.IntegerType, token.BinaryIntegerType, token.OctetIntegerType, token.HexIntegerType:
		an = ast.Integer(tk)
	case token.FloatType:
		an = ast.Float(tk)
	case token.InfinityType:
		an = ast.Infinity(tk)
	case token.NanType:
		an = ast.Nan(tk)
	default:
		return p.str(s.Value, false), nil
	}
	return p.node(an)
}

func quoted(s *ast.StringNode) bool {
	tok := s.GetToken()
	return tok != nil && (tok.Type == token.SingleQuoteType || tok.Type == token.DoubleQuoteType)
}

func (p *docParser) coreTagged(tag string, x *ast.TagNode) (*ir.Node, error) {
	res, err := p.node(x.Value)
	if err != nil {
		return nil, err
	}
	text := res.Text
	if res.Type == ir.StringType {
		text = res.String
	}
	var conv *ir.Node
	switch tag {
	case "str":
		if !res.Type.IsLeaf() {
			break
		}
		conv = ir.FromString(text)
		if res.Type == ir.NullType {
			conv = ir.FromString("")
		}
	case "int":
		conv, err = intFromText(text)
	case "float":
		f, perr := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
		if perr != nil {
			err = perr
			break
		}
		conv = ir.FromFloat(f)
	case "bool":
		b, perr := strconv.ParseBool(text)
		if perr != nil {
			err = perr
			break
		}
		conv = ir.FromBool(b)
	case "null":
		conv = ir.Null()
	case "timestamp":
		ts, ok := parseTimestamp(text)
		if !ok {
			err = fmt.Errorf("not a timestamp: %q", text)
			break
		}
		conv = ir.FromTime(ts)
	case "map", "seq", "binary":
		return res, nil
	default:
		return nil, fmt.Errorf("%w: unknown core tag !!%s at line %d", ErrParse, tag, line(x))
	}
	if err != nil || conv == nil {
		return nil, fmt.Errorf("%w !!%s at line %d: %v", ErrCoreTag, tag, line(x), err)
	}
	conv.WithPos(res.Line, res.Column)
	return conv, nil
}

type entry struct {
	kv     ir.KeyVal
	merged bool
}

func (p *docParser) mapping(mvs []*ast.MappingValueNode) (*ir.Node, error) {
	var entries []entry
	explicit := map[ir.Key]bool{}
	for _, mv := range mvs {
		if mv.Key.IsMergeKey() {
			merged, err := p.merge(mv.Value)
			if err != nil {
				return nil, err
			}
			for _, kv := range merged {
				entries = append(entries, entry{kv: kv, merged: true})
			}
			continue
		}
		key, err := p.key(mv.Key)
		if err != nil {
			return nil, err
		}
		val, err := p.node(mv.Value)
		if err != nil {
			return nil, err
		}
		explicit[key] = true
		entries = append(entries, entry{kv: ir.KeyVal{Key: key, Val: val}})
	}
	kvs := make([]ir.KeyVal, 0, len(entries))
	seen := map[ir.Key]bool{}
	for _, e := range entries {
		if e.merged && (explicit[e.kv.Key] || seen[e.kv.Key]) {
			continue
		}
		seen[e.kv.Key] = true
		kvs = append(kvs, e.kv)
	}
	return ir.FromKeyVals(kvs), nil
}

// merge expands the value of a `<<` key.
func (p *docParser) merge(an ast.Node) ([]ir.KeyVal, error) {
	var srcs []ast.Node
	if seq, ok := an.(*ast.SequenceNode); ok {
		srcs = seq.Values
	} else {
		srcs = []ast.Node{an}
	}
	var res []ir.KeyVal
	for _, src := range srcs {
		m, err := p.node(src)
		if err != nil {
			return nil, err
		}
		if m.Type != ir.ObjectType || m.Tag != "" {
			return nil, fmt.Errorf("%w (line %d)", ErrMerge, line(src))
		}
		for i, k := range m.Keys {
			res = append(res, ir.KeyVal{Key: k, Val: m.Values[i]})
		}
	}
	return res, nil
}

func (p *docParser) key(an ast.Node) (ir.Key, error) {
	if mk, ok := an.(*ast.MappingKeyNode); ok {
		an = mk.Value
	}
	switch x := an.(type) {
	case *ast.TagNode:
		return "", fmt.Errorf("%w: %s at line %d", ErrKeyTag, x.Start.Value, line(x))
	case *ast.StringNode:
		return ir.Key(x.Value), nil
	case *ast.LiteralNode:
		return ir.Key(x.Value.Value), nil
	case *ast.NullNode:
		return "", nil
	case *ast.AliasNode, *ast.AnchorNode:
		n, err := p.node(x)
		if err != nil {
			return "", err
		}
		if !n.Type.IsLeaf() || n.Tag != "" {
			return "", fmt.Errorf("%w (line %d)", ErrKeyType, line(x))
		}
		return keyOf(n), nil
	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode, *ast.InfinityNode, *ast.NanNode:
		n, err := p.node(x)
		if err != nil {
			return "", err
		}
		return keyOf(n), nil
	}
	return "", fmt.Errorf("%w (line %d)", ErrKeyType, line(an))
}

// keyOf renders a scalar key the way ref segments render, so `1.0: x` is
// found by `!ref [1.0]` and `True: x` by `!ref [true]`.
func keyOf(n *ir.Node) ir.Key {
	switch v := n.Value().(type) {
	case string:
		return ir.Key(v)
	case int64:
		return ir.Key(strconv.FormatInt(v, 10))
	case uint64:
		return ir.Key(strconv.FormatUint(v, 10))
	case float64:
		return ir.Key(strconv.FormatFloat(v, 'g', -1, 64))
	case bool:
		return ir.Key(strconv.FormatBool(v))
	}
	return ir.Key(n.Text)
}

func intFromText(s string) (*ir.Node, error) {
	s = strings.ReplaceAll(s, "_", "")
	if strings.HasPrefix(s, "0o") {
		s = "0" + s[2:]
	}
	i, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return ir.FromInt(i), nil
	}
	u, uerr := strconv.ParseUint(s, 0, 64)
	if uerr == nil {
		return ir.FromUint(u), nil
	}
	return nil, err
}

var timestampRE = regexp.MustCompile(`^[0-9]{4}-[0-9]{1,2}-[0-9]{1,2}(([Tt]|[ \t]+)[0-9]{1,2}:[0-9]{2}:[0-9]{2}(\.[0-9]*)?([ \t]*(Z|[-+][0-9]{1,2}(:[0-9]{2})?))?)?$`)

var timestampLayouts = []string{
	"2006-1-2T15:4:5.999999999Z07:00",
	"2006-1-2t15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999 Z07:00",
	"2006-1-2 15:4:5.999999999 -07",
	"2006-1-2 15:4:5.999999999-07",
	"2006-1-2T15:4:5.999999999",
	"2006-1-2 15:4:5.999999999",
	"2006-1-2",
}

func parseTimestamp(s string) (time.Time, bool) {
	if !timestampRE.MatchString(s) {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func line(an ast.Node) int {
	if an == nil {
		return 0
	}
	tok := an.GetToken()
	if tok == nil || tok.Position == nil {
		return 0
	}
	return tok.Position.Line
}

func clone(y *ir.Node) *ir.Node {
	res := &ir.Node{}
	*res = *y
	res.Parent = nil
	res.ParentIndex = 0
	res.ParentKey = ""
	switch y.Type {
	case ir.ObjectType:
		kvs := make([]ir.KeyVal, len(y.Keys))
		for i, k := range y.Keys {
			kvs[i] = ir.KeyVal{Key: k, Val: clone(y.Values[i])}
		}
		c := ir.FromKeyVals(kvs)
		res.Keys, res.Values = c.Keys, c.Values
		for _, v := range res.Values {
			v.Parent = res
		}
	case ir.ArrayType:
		items := make([]*ir.Node, len(y.Values))
		for i, v := range y.Values {
			items[i] = clone(v)
		}
		c := ir.FromSlice(items)
		res.Values = c.Values
		for _, v := range res.Values {
			v.Parent = res
		}
	}
	return res
}
