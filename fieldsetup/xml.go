package fieldsetup

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rws/go-ishremote/enums"
)

// fieldSetupDoc is the answer of Settings25.RetrieveFieldSetupByIshType.
type fieldSetupDoc struct {
	XMLName xml.Name      `xml:"ishfieldsetup"`
	Types   []typeElement `xml:"ishtypedefinition"`
}

type typeElement struct {
	Name   string         `xml:"name,attr"`
	Fields []fieldElement `xml:"ishfielddefinition"`
}

type fieldElement struct {
	Name          string `xml:"name,attr"`
	Level         string `xml:"level,attr"`
	DataType      string `xml:"datatype,attr"`
	IsMandatory   string `xml:"ismandatory,attr"`
	IsMultiValue  string `xml:"ismultivalue,attr"`
	AllowOnRead   string `xml:"allowonread,attr"`
	AllowOnCreate string `xml:"allowoncreate,attr"`
	AllowOnUpdate string `xml:"allowonupdate,attr"`
	AllowOnSearch string `xml:"allowonsearch,attr"`
	IsSystem      string `xml:"issystem,attr"`
	IsBasic       string `xml:"isbasic,attr"`
	IsDescriptive string `xml:"isdescriptive,attr"`
	Label         string `xml:"label"`
	Description   string `xml:"description"`
	LovRef        struct {
		Name string `xml:"name,attr"`
	} `xml:"ishlovref"`
	TypeRef struct {
		Name string `xml:"name,attr"`
	} `xml:"ishtyperef"`
}

// ParseXML builds a Setup from the server's field setup XML. Types the
// client does not know are skipped with a debug log; malformed field
// definitions are an error.
func ParseXML(logger *slog.Logger, data string) (*Setup, error) {
	var doc fieldSetupDoc
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("parse field setup: %w", err)
	}
	s := New(logger)

	for _, te := range doc.Types {
		ishType, err := enums.ParseISHType(te.Name)
		if err != nil {
			s.logger.Debug("fieldsetup: skipping unknown ishtype", "ishtype", te.Name)
			continue
		}
		for _, fe := range te.Fields {
			d, err := fe.definition(ishType)
			if err != nil {
				return nil, fmt.Errorf("parse field setup %s.%s: %w", te.Name, fe.Name, err)
			}
			s.AddOrUpdate(d)
		}
	}
	return s, nil
}

func (fe fieldElement) definition(ishType enums.ISHType) (Definition, error) {
	if strings.TrimSpace(fe.Name) == "" {
		return Definition{}, fmt.Errorf("missing name")
	}
	level, err := enums.ParseLevel(fe.Level)
	if err != nil {
		return Definition{}, err
	}
	dataType := enums.DataTypeString
	if fe.DataType != "" {
		if dataType, err = enums.ParseDataType(fe.DataType); err != nil {
			return Definition{}, err
		}
	}

	d := Definition{
		ISHType:      ishType,
		Level:        level,
		Name:         fe.Name,
		DataType:     dataType,
		ReferenceLov: fe.LovRef.Name,
		Label:        strings.TrimSpace(fe.Label),
		Description:  strings.TrimSpace(fe.Description),
	}
	if fe.TypeRef.Name != "" {
		if d.ReferenceType, err = enums.ParseISHType(fe.TypeRef.Name); err != nil {
			return Definition{}, err
		}
	}

	flags := []struct {
		raw string
		dst *bool
	}{
		{fe.IsMandatory, &d.IsMandatory},
		{fe.IsMultiValue, &d.IsMultiValue},
		{fe.AllowOnRead, &d.AllowOnRead},
		{fe.AllowOnCreate, &d.AllowOnCreate},
		{fe.AllowOnUpdate, &d.AllowOnUpdate},
		{fe.AllowOnSearch, &d.AllowOnSearch},
		{fe.IsSystem, &d.IsSystem},
		{fe.IsBasic, &d.IsBasic},
		{fe.IsDescriptive, &d.IsDescriptive},
	}
	for _, f := range flags {
		if f.raw == "" {
			continue
		}
		v, err := strconv.ParseBool(f.raw)
		if err != nil {
			return Definition{}, fmt.Errorf("flag %q: %w", f.raw, err)
		}
		*f.dst = v
	}
	return d, nil
}
