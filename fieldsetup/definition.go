package fieldsetup

import (
	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
)

// Definition declares one field of one ISHType at one level, and what the
// server allows to be done with it.
type Definition struct {
	ISHType  enums.ISHType  `yaml:"ishtype"`
	Level    enums.Level    `yaml:"level"`
	Name     string         `yaml:"name"`
	DataType enums.DataType `yaml:"datatype"`

	// ReferenceType is the card type an ishtype field points at.
	ReferenceType enums.ISHType `yaml:"referencetype,omitempty"`
	// ReferenceLov is the list of values an ishlov field draws from.
	ReferenceLov string `yaml:"referencelov,omitempty"`

	IsMandatory   bool `yaml:"mandatory,omitempty"`
	IsMultiValue  bool `yaml:"multivalue,omitempty"`
	AllowOnRead   bool `yaml:"read,omitempty"`
	AllowOnCreate bool `yaml:"create,omitempty"`
	AllowOnUpdate bool `yaml:"update,omitempty"`
	AllowOnSearch bool `yaml:"search,omitempty"`
	IsSystem      bool `yaml:"system,omitempty"`
	IsBasic       bool `yaml:"basic,omitempty"`
	IsDescriptive bool `yaml:"descriptive,omitempty"`

	Label       string `yaml:"label,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Key identifies the definition as ISHType=level=NAME.
func (d Definition) Key() string {
	return Key(d.ISHType, d.Level, d.Name)
}

// Key builds a definition key.
func Key(ishType enums.ISHType, level enums.Level, name string) string {
	return string(ishType) + "=" + string(level) + "=" + ishfields.NormalizeName(name)
}

// ValueTypes lists the value types that can be read for this field. Value
// is always present; element and id only exist for references.
func (d Definition) ValueTypes() []enums.ValueType {
	if d.DataType.IsReference() {
		return []enums.ValueType{enums.ValueTypeValue, enums.ValueTypeElement, enums.ValueTypeID}
	}
	return []enums.ValueType{enums.ValueTypeValue}
}

// AcceptsValueType reports whether vt is meaningful for this field.
func (d Definition) AcceptsValueType(vt enums.ValueType) bool {
	for _, x := range d.ValueTypes() {
		if x == vt {
			return true
		}
	}
	return false
}

// Allows reports whether the field may be used under mode.
func (d Definition) Allows(mode enums.ActionMode) bool {
	switch mode {
	case enums.ActionCreate:
		return d.AllowOnCreate
	case enums.ActionUpdate:
		return d.AllowOnUpdate
	case enums.ActionRead:
		return d.AllowOnRead
	case enums.ActionFind, enums.ActionSearch:
		return d.AllowOnSearch
	default:
		return false
	}
}

// normalized returns a copy with an uppercased name and defaulted data type.
func (d Definition) normalized() Definition {
	d.Name = ishfields.NormalizeName(d.Name)
	if d.DataType == "" {
		d.DataType = enums.DataTypeString
	}
	if d.Level == "" {
		d.Level = enums.LevelNone
	}
	return d
}
