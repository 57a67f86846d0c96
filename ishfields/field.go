// Package ishfields models the metadata fields exchanged with the CMS.
//
// Three field kinds share the Field interface:
//
//   - MetadataField carries a value to write on Create or Update.
//   - RequestedField names a value to return on Read.
//   - FilterField restricts a Find or Search by comparing a value.
//
// Fields is the ordered collection that is serialized to and parsed from
// the CMS's ishfields XML.
package ishfields

import (
	"strings"

	"github.com/rws/go-ishremote/enums"
)

// Field is a single metadata field reference.
type Field interface {
	// Name is the uppercased field name, e.g. FTITLE.
	Name() string
	// Level is the card level the field lives on.
	Level() enums.Level
	// ValueType is the requested or written representation.
	ValueType() enums.ValueType
	// Key identifies the field for deduplication under the given action mode.
	Key(mode enums.ActionMode) string
	// Clone returns a copy of the field.
	Clone() Field
}

type base struct {
	name      string
	level     enums.Level
	valueType enums.ValueType
}

func newBase(name string, level enums.Level, vt enums.ValueType) base {
	if vt == "" {
		vt = enums.ValueTypeValue
	}
	if level == "" {
		level = enums.LevelNone
	}
	return base{
		name:      NormalizeName(name),
		level:     level,
		valueType: vt,
	}
}

func (b base) Name() string               { return b.name }
func (b base) Level() enums.Level         { return b.level }
func (b base) ValueType() enums.ValueType { return b.valueType }

func (b base) key(mode enums.ActionMode, op enums.FilterOperator) string {
	switch mode {
	case enums.ActionCreate, enums.ActionUpdate:
		return b.name + "=" + string(b.level)
	case enums.ActionFind, enums.ActionSearch:
		return b.name + "=" + string(b.level) + "=" + string(b.valueType) + "=" + string(op)
	default:
		return b.name + "=" + string(b.level) + "=" + string(b.valueType)
	}
}

// NormalizeName trims and uppercases a field name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// MetadataField is a field with a value to write.
type MetadataField struct {
	base
	value string
}

// NewMetadataField creates a value-typed metadata field.
func NewMetadataField(name string, level enums.Level, value string) *MetadataField {
	return &MetadataField{base: newBase(name, level, enums.ValueTypeValue), value: value}
}

// NewMetadataFieldOfType creates a metadata field with an explicit value type.
func NewMetadataFieldOfType(name string, level enums.Level, vt enums.ValueType, value string) *MetadataField {
	return &MetadataField{base: newBase(name, level, vt), value: value}
}

// Value returns the field value.
func (f *MetadataField) Value() string { return f.value }

// Key implements Field.
func (f *MetadataField) Key(mode enums.ActionMode) string { return f.key(mode, "") }

// Clone implements Field.
func (f *MetadataField) Clone() Field {
	c := *f
	return &c
}

// RequestedField names a field to return from a read.
type RequestedField struct {
	base
}

// NewRequestedField creates a requested field. An empty value type means value.
func NewRequestedField(name string, level enums.Level, vt enums.ValueType) *RequestedField {
	return &RequestedField{base: newBase(name, level, vt)}
}

// Key implements Field.
func (f *RequestedField) Key(mode enums.ActionMode) string { return f.key(mode, "") }

// Clone implements Field.
func (f *RequestedField) Clone() Field {
	c := *f
	return &c
}

// FilterField restricts a find or search.
type FilterField struct {
	base
	operator enums.FilterOperator
	value    string
}

// NewFilterField creates a value-typed filter field. Operators that do
// not compare against a value drop the given value.
func NewFilterField(name string, level enums.Level, op enums.FilterOperator, value string) *FilterField {
	return NewFilterFieldOfType(name, level, enums.ValueTypeValue, op, value)
}

// NewFilterFieldOfType creates a filter field with an explicit value type.
func NewFilterFieldOfType(name string, level enums.Level, vt enums.ValueType, op enums.FilterOperator, value string) *FilterField {
	if op == "" {
		op = enums.OperatorEqual
	}
	if !op.TakesValue() {
		value = ""
	}
	return &FilterField{base: newBase(name, level, vt), operator: op, value: value}
}

// Operator returns the filter operator.
func (f *FilterField) Operator() enums.FilterOperator { return f.operator }

// Value returns the compared value.
func (f *FilterField) Value() string { return f.value }

// Key implements Field.
func (f *FilterField) Key(mode enums.ActionMode) string { return f.key(mode, f.operator) }

// Clone implements Field.
func (f *FilterField) Clone() Field {
	c := *f
	return &c
}

// WithValueType returns a copy of f carrying vt, keeping its kind.
func WithValueType(f Field, vt enums.ValueType) Field {
	switch x := f.(type) {
	case *MetadataField:
		return NewMetadataFieldOfType(x.name, x.level, vt, x.value)
	case *FilterField:
		return NewFilterFieldOfType(x.name, x.level, vt, x.operator, x.value)
	default:
		return NewRequestedField(f.Name(), f.Level(), vt)
	}
}

// PropertyName is the flattened property name of a field value, e.g.
// ftitle_logical_value or doclanguage_lng_value.
func PropertyName(name string, level enums.Level, vt enums.ValueType) string {
	n := strings.ToLower(strings.ReplaceAll(NormalizeName(name), "-", ""))
	return n + "_" + string(level) + "_" + string(vt)
}
