package ishfields

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/rws/go-ishremote/enums"
)

// Fields is an ordered collection of fields.
type Fields struct {
	fields []Field
}

// New returns a collection holding the given fields as-is.
func New(fields ...Field) *Fields {
	fs := &Fields{}
	for _, f := range fields {
		fs.Add(f)
	}
	return fs
}

// Len returns the number of fields.
func (fs *Fields) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.fields)
}

// Fields returns a copy of the field slice.
func (fs *Fields) Fields() []Field {
	if fs == nil {
		return nil
	}
	return append([]Field(nil), fs.fields...)
}

// Add appends a field without deduplication.
func (fs *Fields) Add(f Field) *Fields {
	if f != nil {
		fs.fields = append(fs.fields, f)
	}
	return fs
}

// AddOrUpdate adds f, replacing in place any field with the same key
// under mode. Create and Update key on name and level, Read and Delete
// on name, level and value type, Find and Search additionally on the
// filter operator.
func (fs *Fields) AddOrUpdate(f Field, mode enums.ActionMode) *Fields {
	if f == nil {
		return fs
	}
	key := f.Key(mode)
	for i, existing := range fs.fields {
		if existing.Key(mode) == key {
			fs.fields[i] = f
			return fs
		}
	}
	fs.fields = append(fs.fields, f)
	return fs
}

// Remove drops every field with the given name and level.
func (fs *Fields) Remove(name string, level enums.Level) *Fields {
	if fs == nil {
		return fs
	}
	name = NormalizeName(name)
	kept := fs.fields[:0]
	for _, f := range fs.fields {
		if f.Name() == name && f.Level() == level {
			continue
		}
		kept = append(kept, f)
	}
	fs.fields = kept
	return fs
}

// RemoveValueType drops fields matching name, level and value type.
func (fs *Fields) RemoveValueType(name string, level enums.Level, vt enums.ValueType) *Fields {
	if fs == nil {
		return fs
	}
	name = NormalizeName(name)
	kept := fs.fields[:0]
	for _, f := range fs.fields {
		if f.Name() == name && f.Level() == level && f.ValueType() == vt {
			continue
		}
		kept = append(kept, f)
	}
	fs.fields = kept
	return fs
}

// Retrieve returns the fields with the given name and level.
func (fs *Fields) Retrieve(name string, level enums.Level) []Field {
	if fs == nil {
		return nil
	}
	name = NormalizeName(name)
	var out []Field
	for _, f := range fs.fields {
		if f.Name() == name && f.Level() == level {
			out = append(out, f)
		}
	}
	return out
}

// Value returns the first metadata value for name, level and value type.
func (fs *Fields) Value(name string, level enums.Level, vt enums.ValueType) (string, bool) {
	for _, f := range fs.Retrieve(name, level) {
		if f.ValueType() != vt {
			continue
		}
		switch x := f.(type) {
		case *MetadataField:
			return x.Value(), true
		case *FilterField:
			return x.Value(), true
		}
	}
	return "", false
}

// Clone returns a deep copy.
func (fs *Fields) Clone() *Fields {
	out := &Fields{}
	if fs == nil {
		return out
	}
	for _, f := range fs.fields {
		out.fields = append(out.fields, f.Clone())
	}
	return out
}

// Metadata returns the metadata fields.
func (fs *Fields) Metadata() []*MetadataField {
	var out []*MetadataField
	for _, f := range fs.Fields() {
		if m, ok := f.(*MetadataField); ok {
			out = append(out, m)
		}
	}
	return out
}

// Requested returns the requested fields.
func (fs *Fields) Requested() []*RequestedField {
	var out []*RequestedField
	for _, f := range fs.Fields() {
		if r, ok := f.(*RequestedField); ok {
			out = append(out, r)
		}
	}
	return out
}

// Filters returns the filter fields.
func (fs *Fields) Filters() []*FilterField {
	var out []*FilterField
	for _, f := range fs.Fields() {
		if x, ok := f.(*FilterField); ok {
			out = append(out, x)
		}
	}
	return out
}

// ToRequested converts every field into a requested field, deduplicated
// as a read. Used to read back what was just written.
func (fs *Fields) ToRequested() *Fields {
	out := &Fields{}
	for _, f := range fs.Fields() {
		out.AddOrUpdate(NewRequestedField(f.Name(), f.Level(), f.ValueType()), enums.ActionRead)
	}
	return out
}

type xmlFields struct {
	XMLName xml.Name   `xml:"ishfields"`
	Fields  []xmlField `xml:"ishfield"`
}

type xmlField struct {
	Name      string `xml:"name,attr"`
	Level     string `xml:"level,attr"`
	ValueType string `xml:"ishvaluetype,attr,omitempty"`
	Operator  string `xml:"ishoperator,attr,omitempty"`
	Value     string `xml:",chardata"`
}

// MarshalXMLString serializes the collection to ishfields XML.
func (fs *Fields) MarshalXMLString() (string, error) {
	doc := xmlFields{}
	for _, f := range fs.Fields() {
		xf := xmlField{
			Name:      f.Name(),
			Level:     string(f.Level()),
			ValueType: string(f.ValueType()),
		}
		switch x := f.(type) {
		case *MetadataField:
			xf.Value = x.Value()
		case *FilterField:
			xf.Operator = string(x.Operator())
			xf.Value = x.Value()
		}
		doc.Fields = append(doc.Fields, xf)
	}
	b, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal ishfields: %w", err)
	}
	return string(b), nil
}

// String renders the collection as ishfields XML, or an empty string on error.
func (fs *Fields) String() string {
	s, _ := fs.MarshalXMLString()
	return s
}

// Parse reads ishfields XML into metadata fields. Fields carrying an
// ishoperator attribute become filter fields. An empty document yields
// an empty collection.
func Parse(data string) (*Fields, error) {
	if strings.TrimSpace(data) == "" {
		return New(), nil
	}
	var doc xmlFields
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("parse ishfields: %w", err)
	}
	return fromXML(doc.Fields)
}

func fromXML(xfs []xmlField) (*Fields, error) {
	fs := New()
	for _, xf := range xfs {
		level, err := enums.ParseLevel(xf.Level)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", xf.Name, err)
		}
		vt := enums.ValueTypeValue
		if xf.ValueType != "" {
			if vt, err = enums.ParseValueType(xf.ValueType); err != nil {
				return nil, fmt.Errorf("field %s: %w", xf.Name, err)
			}
		}
		if xf.Operator != "" {
			op, err := enums.ParseFilterOperator(xf.Operator)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", xf.Name, err)
			}
			fs.Add(NewFilterFieldOfType(xf.Name, level, vt, op, xf.Value))
			continue
		}
		fs.Add(NewMetadataFieldOfType(xf.Name, level, vt, xf.Value))
	}
	return fs, nil
}

// XMLField is the wire form of one ishfield element. Object and folder
// payloads embed it directly.
type XMLField = xmlField

// FromXMLFields converts already decoded ishfield elements.
func FromXMLFields(xfs []XMLField) (*Fields, error) {
	return fromXML(xfs)
}
