// Package motion provides the motion record value model and its file container.
//
// A loaded file is a tree of Values. The root of a motion clip is a Record
// holding named arrays and scalar metadata, but the container accepts any
// Value at the root so the inspector can report on bare arrays, sequences and
// scalars as well.
package motion

import (
	"fmt"
	"math"
	"strconv"

	"github.com/elliotchance/orderedmap/v2"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindRecord Kind = iota
	KindArray
	KindSequence
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindArray:
		return "array"
	case KindSequence:
		return "sequence"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one node of a motion file.
type Value interface {
	Kind() Kind
}

// Well-known record fields.
const (
	FieldFPS          = "fps"
	FieldRootPos      = "root_pos"
	FieldRootRot      = "root_rot"
	FieldDofPos       = "dof_pos"
	FieldLocalBodyPos = "local_body_pos"
	FieldLinkBodyList = "link_body_list"
)

// RequiredFields lists the fields every motion clip must carry, in report order.
var RequiredFields = []string{FieldFPS, FieldRootPos, FieldRootRot, FieldDofPos}

// FrameFields lists the per-frame arrays whose leading dimensions must agree.
var FrameFields = []string{FieldRootPos, FieldRootRot, FieldDofPos}

// Number is a numeric scalar. Integer records whether the value was written
// as an integer so it prints back the same way.
type Number struct {
	Value   float64
	Integer bool
}

func (Number) Kind() Kind { return KindNumber }

func (n Number) String() string {
	if n.Integer && math.Abs(n.Value) < 1<<63 {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// String is a text scalar.
type String string

func (String) Kind() Kind { return KindString }

// Sequence is an ordered list of values.
type Sequence struct {
	Items []Value
}

func (*Sequence) Kind() Kind { return KindSequence }

// Len returns the number of items.
func (s *Sequence) Len() int { return len(s.Items) }

// NewStringSequence builds a sequence of String items.
func NewStringSequence(items ...string) *Sequence {
	seq := &Sequence{Items: make([]Value, 0, len(items))}
	for _, item := range items {
		seq.Items = append(seq.Items, String(item))
	}
	return seq
}

// Strings returns the items as Go strings; ok is false if any item is not a String.
func (s *Sequence) Strings() ([]string, bool) {
	out := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		str, isStr := item.(String)
		if !isStr {
			return nil, false
		}
		out = append(out, string(str))
	}
	return out, true
}

// Record is an insertion-ordered mapping of field names to values.
type Record struct {
	fields *orderedmap.OrderedMap[string, Value]
}

func (*Record) Kind() Kind { return KindRecord }

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{fields: orderedmap.NewOrderedMap[string, Value]()}
}

// Set stores v under key. Replacing an existing key keeps its position.
func (r *Record) Set(key string, v Value) {
	r.fields.Set(key, v)
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	return r.fields.Get(key)
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.fields.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (r *Record) Delete(key string) bool {
	return r.fields.Delete(key)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return r.fields.Len()
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.fields.Len())
	for el := r.fields.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}
	return keys
}

// Each calls fn for every field in insertion order.
func (r *Record) Each(fn func(key string, v Value)) {
	for el := r.fields.Front(); el != nil; el = el.Next() {
		fn(el.Key, el.Value)
	}
}

// Array returns the field as an array, if present and array-valued.
func (r *Record) Array(key string) (*Array, bool) {
	v, ok := r.fields.Get(key)
	if !ok {
		return nil, false
	}
	arr, ok := v.(*Array)
	return arr, ok
}

// Number returns the field as a number, if present and numeric.
func (r *Record) Number(key string) (Number, bool) {
	v, ok := r.fields.Get(key)
	if !ok {
		return Number{}, false
	}
	n, ok := v.(Number)
	return n, ok
}

// MissingKeys returns the subset of keys absent from the record, in the given order.
func (r *Record) MissingKeys(keys ...string) []string {
	var missing []string
	for _, key := range keys {
		if !r.Has(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// RequireFields checks that every field in RequiredFields is present.
func RequireFields(r *Record) error {
	if missing := r.MissingKeys(RequiredFields...); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
