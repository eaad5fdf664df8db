// Package jsondoc provides an order-preserving JSON document model.
//
// package.json and bun.lock files are rewritten rather than regenerated, so the
// order of keys written by the user or by the package manager must survive a
// read-modify-write cycle. Values held by an Object are one of *Object, []any,
// string, json.Number, bool or nil.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/tailscale/hujson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.trai.ch/zerr"
)

var (
	// ErrNotObject is returned when a document's top-level value is not an object.
	ErrNotObject = zerr.New("json document is not an object")

	errUnsupportedValue = zerr.New("unsupported json value")
)

// Object is a JSON object that remembers the insertion order of its keys.
type Object struct {
	fields *orderedmap.OrderedMap[string, any]
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{fields: orderedmap.New[string, any]()}
}

// Parse decodes a JSON or JSONC (comments, trailing commas) document whose
// top-level value is an object.
func Parse(data []byte) (*Object, error) {
	root, err := hujson.Parse(data)
	if err != nil {
		return nil, zerr.Wrap(err, "invalid json")
	}

	v, err := fromAST(root.Value)
	if err != nil {
		return nil, zerr.Wrap(err, "invalid json")
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

func fromAST(v hujson.ValueTrimmed) (any, error) {
	switch t := v.(type) {
	case *hujson.Object:
		obj := NewObject()
		for _, member := range t.Members {
			name, ok := member.Name.Value.(hujson.Literal)
			if !ok || name.Kind() != '"' {
				return nil, zerr.With(zerr.Wrap(errUnsupportedValue, ""), "reason", "object key is not a string")
			}
			val, err := fromAST(member.Value.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(name.String(), val)
		}
		return obj, nil
	case *hujson.Array:
		arr := make([]any, 0, len(t.Elements))
		for _, elem := range t.Elements {
			val, err := fromAST(elem.Value)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil
	case hujson.Literal:
		switch t.Kind() {
		case 'n':
			return nil, nil
		case 't', 'f':
			return t.Bool(), nil
		case '"':
			return t.String(), nil
		case '0':
			return json.Number(string(t)), nil
		}
	}
	return nil, errUnsupportedValue
}

// toAST is the inverse of fromAST. The resulting value carries no whitespace.
func toAST(v any) (hujson.Value, error) {
	switch t := v.(type) {
	case *Object:
		obj := &hujson.Object{Members: make([]hujson.ObjectMember, 0, t.Len())}
		for pair := t.fields.Oldest(); pair != nil; pair = pair.Next() {
			val, err := toAST(pair.Value)
			if err != nil {
				return hujson.Value{}, err
			}
			obj.Members = append(obj.Members, hujson.ObjectMember{
				Name:  hujson.Value{Value: hujson.String(pair.Key)},
				Value: val,
			})
		}
		return hujson.Value{Value: obj}, nil
	case []any:
		arr := &hujson.Array{Elements: make([]hujson.ArrayElement, 0, len(t))}
		for _, elem := range t {
			val, err := toAST(elem)
			if err != nil {
				return hujson.Value{}, err
			}
			arr.Elements = append(arr.Elements, val)
		}
		return hujson.Value{Value: arr}, nil
	default:
		lit, err := literal(t)
		if err != nil {
			return hujson.Value{}, err
		}
		return hujson.Value{Value: lit}, nil
	}
}

func literal(v any) (hujson.Literal, error) {
	switch t := v.(type) {
	case nil:
		return hujson.Literal("null"), nil
	case string:
		return hujson.String(t), nil
	case bool:
		return hujson.Bool(t), nil
	case json.Number:
		return hujson.Literal(t.String()), nil
	case int:
		return hujson.Int(int64(t)), nil
	case int64:
		return hujson.Int(t), nil
	case float64:
		return hujson.Float(t), nil
	default:
		return nil, zerr.With(zerr.Wrap(errUnsupportedValue, ""), "type", fmt.Sprintf("%T", t))
	}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return o.fields.Len()
}

// Keys returns the keys in document order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	return o.fields.GetPair(key) != nil
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	return o.fields.Get(key)
}

// GetObject returns the value under key if it is an object.
func (o *Object) GetObject(key string) (*Object, bool) {
	v, ok := o.fields.Value(key).(*Object)
	return v, ok
}

// GetString returns the value under key if it is a string.
func (o *Object) GetString(key string) (string, bool) {
	v, ok := o.fields.Value(key).(string)
	return v, ok
}

// GetArray returns the value under key if it is an array.
func (o *Object) GetArray(key string) ([]any, bool) {
	v, ok := o.fields.Value(key).([]any)
	return v, ok
}

// Set stores value under key. An existing key keeps its position, a new key
// is appended.
func (o *Object) Set(key string, value any) {
	o.fields.Set(key, value)
}

// SetAfter stores value under key, placing a new key directly after the
// first of the anchors that exists. Without a matching anchor the key is
// appended.
func (o *Object) SetAfter(key string, value any, anchors ...string) {
	if _, exists := o.fields.Set(key, value); exists {
		return
	}
	for _, anchor := range anchors {
		if anchor != key && o.fields.MoveAfter(key, anchor) == nil {
			return
		}
	}
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	_, present := o.fields.Delete(key)
	return present
}

// Rename moves the value stored under from to the key to, keeping the
// position of from. An existing value under to is replaced.
func (o *Object) Rename(from, to string) bool {
	v, exists := o.fields.Get(from)
	if !exists {
		return false
	}
	if from == to {
		return true
	}
	o.fields.Delete(to)
	o.fields.Set(to, v)
	_ = o.fields.MoveAfter(to, from)
	o.fields.Delete(from)
	return true
}

// Filter keeps only the entries for which keep returns true.
func (o *Object) Filter(keep func(key string, value any) bool) {
	var drop []string
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !keep(pair.Key, pair.Value) {
			drop = append(drop, pair.Key)
		}
	}
	for _, key := range drop {
		o.fields.Delete(key)
	}
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	c := &Object{fields: orderedmap.New[string, any](o.fields.Len())}
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		c.fields.Set(pair.Key, cloneValue(pair.Value))
	}
	return c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return t
	}
}

// StringMap returns the string-valued entries of o. A nil object yields nil.
func StringMap(o *Object) map[string]string {
	if o == nil {
		return nil
	}
	m := make(map[string]string, o.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if s, ok := pair.Value.(string); ok {
			m[pair.Key] = s
		}
	}
	return m
}

// FromStringMap builds an object from m with keys in sorted order.
func FromStringMap(m map[string]string) *Object {
	obj := NewObject()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		obj.Set(k, m[k])
	}
	return obj
}

// Strings returns the string elements of an array value.
func Strings(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// FromStrings builds an array value from ss.
func FromStrings(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// MarshalJSON encodes the object compactly, preserving key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	v, err := toAST(o)
	if err != nil {
		return nil, err
	}
	return v.Pack(), nil
}

// Decode unmarshals the object into target using encoding/json semantics.
func (o *Object) Decode(target any) error {
	data, err := o.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// Marshal renders v the way JSON.stringify(v, null, indent) does, followed by a
// newline.
func Marshal(v any, indent string) ([]byte, error) {
	ast, err := toAST(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, ast.Pack(), "", indent); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteScalar writes a string, number, bool or null without HTML escaping.
func WriteScalar(w io.Writer, v any) error {
	lit, err := literal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(lit)
	return err
}
