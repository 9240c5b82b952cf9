package ir

import (
	"strconv"
	"time"
)

// Key is the canonical form of a mapping key.
type Key string

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentKey   Key
	Keys        []Key
	Values      []*Node

	// Tag is the tag name without its leading '!', empty when untagged.
	Tag  string
	Text string

	Line   int
	Column int

	String  string
	Bool    bool
	Int64   *int64
	Uint64  *uint64
	Float64 *float64
	Time    *time.Time
}

func (y *Node) WithTag(tag string) *Node {
	y.Tag = tag
	return y
}

func (y *Node) WithPos(line, column int) *Node {
	y.Line = line
	y.Column = column
	return y
}

func FromString(v string) *Node {
	return &Node{
		Type:   StringType,
		String: v,
		Text:   v,
	}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
		Text:  strconv.FormatInt(v, 10),
	}
}

func FromUint(v uint64) *Node {
	return &Node{
		Type:   NumberType,
		Uint64: &v,
		Text:   strconv.FormatUint(v, 10),
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
		Text:    strconv.FormatFloat(f, 'g', -1, 64),
	}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
		Text: strconv.FormatBool(v),
	}
}

func FromTime(t time.Time) *Node {
	return &Node{
		Type: TimeType,
		Time: &t,
		Text: t.Format(time.RFC3339Nano),
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

type KeyVal struct {
	Key Key
	Val *Node
}

// FromKeyVals builds an object node. A repeated key keeps the position of
// its first occurrence and the value of its last.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType}
	index := make(map[Key]int, len(kvs))
	for _, kv := range kvs {
		if i, ok := index[kv.Key]; ok {
			res.Values[i] = kv.Val
			continue
		}
		index[kv.Key] = len(res.Keys)
		res.Keys = append(res.Keys, kv.Key)
		res.Values = append(res.Values, kv.Val)
	}
	for i, v := range res.Values {
		v.Parent = res
		v.ParentIndex = i
		v.ParentKey = res.Keys[i]
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type: ArrayType,
	}
	res.Values = make([]*Node, len(ySlice))
	for i, y := range ySlice {
		res.Values[i] = y
		y.Parent = res
		y.ParentIndex = i
	}
	return res
}

// Get returns the value under key in an object node, or nil.
func Get(y *Node, key Key) *Node {
	if y.Type != ObjectType {
		return nil
	}
	for i := range y.Keys {
		if y.Keys[i] == key {
			return y.Values[i]
		}
	}
	return nil
}

// Value returns the Go value of a scalar node. It returns nil for
// containers.
func (y *Node) Value() any {
	switch y.Type {
	case StringType:
		return y.String
	case BoolType:
		return y.Bool
	case NumberType:
		switch {
		case y.Int64 != nil:
			return *y.Int64
		case y.Uint64 != nil:
			return *y.Uint64
		case y.Float64 != nil:
			return *y.Float64
		}
		return y.Text
	case TimeType:
		if y.Time != nil {
			return *y.Time
		}
		return y.Text
	default:
		return nil
	}
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

// Tags returns the tagged nodes of the tree in pre-order.
func (y *Node) Tags() []*Node {
	var res []*Node
	y.Visit(func(n *Node, isPost bool) (bool, error) {
		if !isPost && n.Tag != "" {
			res = append(res, n)
		}
		return true, nil
	})
	return res
}
