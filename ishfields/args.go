package ishfields

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rws/go-ishremote/enums"
)

// argPattern matches NAME[level].valuetype~operator=value where every
// part after NAME is optional.
var argPattern = regexp.MustCompile(`^\s*([A-Za-z0-9_\-]+)(?:\[([A-Za-z]+)\])?(?:\.([A-Za-z]+))?(?:~([A-Za-z]+))?(?:(=)(.*))?$`)

type parsedArg struct {
	name     string
	level    enums.Level
	vt       enums.ValueType
	op       enums.FilterOperator
	hasValue bool
	value    string
}

func parseArg(arg string, defaultLevel enums.Level) (parsedArg, error) {
	m := argPattern.FindStringSubmatch(arg)
	if m == nil {
		return parsedArg{}, fmt.Errorf("invalid field expression %q", arg)
	}
	p := parsedArg{
		name:     NormalizeName(m[1]),
		level:    defaultLevel,
		vt:       enums.ValueTypeValue,
		hasValue: m[5] == "=",
		value:    m[6],
	}
	var err error
	if m[2] != "" {
		if p.level, err = enums.ParseLevel(m[2]); err != nil {
			return parsedArg{}, fmt.Errorf("field expression %q: %w", arg, err)
		}
	}
	if m[3] != "" {
		if p.vt, err = enums.ParseValueType(m[3]); err != nil {
			return parsedArg{}, fmt.Errorf("field expression %q: %w", arg, err)
		}
	}
	if m[4] != "" {
		if p.op, err = enums.ParseFilterOperator(m[4]); err != nil {
			return parsedArg{}, fmt.Errorf("field expression %q: %w", arg, err)
		}
	}
	return p, nil
}

// ParseFieldArg parses NAME[level][.valuetype]=value into a metadata field.
func ParseFieldArg(arg string, defaultLevel enums.Level) (*MetadataField, error) {
	p, err := parseArg(arg, defaultLevel)
	if err != nil {
		return nil, err
	}
	if !p.hasValue {
		return nil, fmt.Errorf("field expression %q: missing =value", arg)
	}
	if p.op != "" {
		return nil, fmt.Errorf("field expression %q: operator not allowed on metadata", arg)
	}
	if p.vt == enums.ValueTypeAll {
		return nil, fmt.Errorf("field expression %q: value type all cannot be written", arg)
	}
	return NewMetadataFieldOfType(p.name, p.level, p.vt, p.value), nil
}

// ParseRequestedArg parses NAME[level][.valuetype] into a requested field.
func ParseRequestedArg(arg string, defaultLevel enums.Level) (*RequestedField, error) {
	p, err := parseArg(arg, defaultLevel)
	if err != nil {
		return nil, err
	}
	if p.hasValue || p.op != "" {
		return nil, fmt.Errorf("field expression %q: requested fields take no value", arg)
	}
	return NewRequestedField(p.name, p.level, p.vt), nil
}

// ParseFilterArg parses NAME[level][.valuetype][~operator][=value] into a
// filter field. The operator defaults to equal; empty and notempty need
// no value.
func ParseFilterArg(arg string, defaultLevel enums.Level) (*FilterField, error) {
	p, err := parseArg(arg, defaultLevel)
	if err != nil {
		return nil, err
	}
	if p.op == "" {
		p.op = enums.OperatorEqual
	}
	if p.op.TakesValue() && !p.hasValue {
		return nil, fmt.Errorf("field expression %q: operator %s needs a value", arg, p.op)
	}
	if p.vt == enums.ValueTypeAll {
		return nil, fmt.Errorf("field expression %q: value type all cannot be filtered", arg)
	}
	return NewFilterFieldOfType(p.name, p.level, p.vt, p.op, p.value), nil
}

// ParseFieldArgs parses a list of metadata expressions into a collection
// deduplicated for mode.
func ParseFieldArgs(args []string, defaultLevel enums.Level, mode enums.ActionMode) (*Fields, error) {
	fs := New()
	for _, a := range args {
		if strings.TrimSpace(a) == "" {
			continue
		}
		f, err := ParseFieldArg(a, defaultLevel)
		if err != nil {
			return nil, err
		}
		fs.AddOrUpdate(f, mode)
	}
	return fs, nil
}

// ParseRequestedArgs parses a list of requested field expressions.
func ParseRequestedArgs(args []string, defaultLevel enums.Level) (*Fields, error) {
	fs := New()
	for _, a := range args {
		if strings.TrimSpace(a) == "" {
			continue
		}
		f, err := ParseRequestedArg(a, defaultLevel)
		if err != nil {
			return nil, err
		}
		fs.AddOrUpdate(f, enums.ActionRead)
	}
	return fs, nil
}

// ParseFilterArgs parses a list of filter expressions.
func ParseFilterArgs(args []string, defaultLevel enums.Level) (*Fields, error) {
	fs := New()
	for _, a := range args {
		if strings.TrimSpace(a) == "" {
			continue
		}
		f, err := ParseFilterArg(a, defaultLevel)
		if err != nil {
			return nil, err
		}
		fs.AddOrUpdate(f, enums.ActionFind)
	}
	return fs, nil
}
