package fieldsetup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
)

// ErrUnsupportedActionMode is returned when a conversion is asked for an
// action mode it does not serve.
var ErrUnsupportedActionMode = errors.New("fieldsetup: unsupported action mode")

// Setup is the client-side field catalog. It filters, normalizes and
// deduplicates field requests against the definitions the server reports
// (or the bundled catalog for older servers).
//
// Setup is safe for concurrent use.
type Setup struct {
	logger *slog.Logger

	mu     sync.RWMutex
	defs   map[string]Definition
	strict enums.StrictMetadataPreference
}

// New creates a Setup holding the given definitions. A nil logger uses
// slog.Default().
func New(logger *slog.Logger, defs ...Definition) *Setup {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Setup{
		logger: logger,
		defs:   make(map[string]Definition, len(defs)),
		strict: enums.StrictContinue,
	}
	for _, d := range defs {
		d = d.normalized()
		s.defs[d.Key()] = d
	}
	return s
}

// StrictMetadataPreference returns the current preference.
func (s *Setup) StrictMetadataPreference() enums.StrictMetadataPreference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strict
}

// SetStrictMetadataPreference changes how unknown or disallowed fields are treated.
func (s *Setup) SetStrictMetadataPreference(p enums.StrictMetadataPreference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strict = p
}

// Len returns the number of definitions.
func (s *Setup) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.defs)
}

// AddOrUpdate stores d, replacing a definition with the same key.
func (s *Setup) AddOrUpdate(d Definition) {
	d = d.normalized()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs[d.Key()] = d
}

// Merge copies the definitions of other into s. Definitions of other win.
func (s *Setup) Merge(other *Setup) {
	if other == nil || other == s {
		return
	}
	for _, d := range other.Definitions() {
		s.AddOrUpdate(d)
	}
}

// Lookup returns the definition of name on level for ishType.
func (s *Setup) Lookup(ishType enums.ISHType, level enums.Level, name string) (Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.defs[Key(ishType, level, name)]
	return d, ok
}

// Definitions returns the definitions of the given types, or of every
// type when none is given, ordered by ISHType, level and name.
func (s *Setup) Definitions(ishTypes ...enums.ISHType) []Definition {
	want := make(map[enums.ISHType]bool, len(ishTypes))
	for _, t := range ishTypes {
		want[t] = true
	}

	s.mu.RLock()
	out := make([]Definition, 0, len(s.defs))
	for _, d := range s.defs {
		if len(want) > 0 && !want[d.ISHType] {
			continue
		}
		out = append(out, d)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ISHType != b.ISHType {
			return a.ISHType < b.ISHType
		}
		if a.Level != b.Level {
			return a.Level.Ordinal() < b.Level.Ordinal()
		}
		return a.Name < b.Name
	})
	return out
}

// lookupAny returns the definitions of the field for any of ishTypes.
func (s *Setup) lookupAny(ishTypes []enums.ISHType, level enums.Level, name string) []Definition {
	var out []Definition
	for _, t := range ishTypes {
		if d, ok := s.Lookup(t, level, name); ok {
			out = append(out, d)
		}
	}
	return out
}

// ToMetadataFields prepares fields for a Create or Update. Only metadata
// fields whose definition, for any of ishTypes, allows the mode and the
// value type survive. What is dropped depends on the strict metadata
// preference. supplied names the fields the operation passes as its own
// parameters; they are not reported as missing on Create.
func (s *Setup) ToMetadataFields(mode enums.ActionMode, ishTypes []enums.ISHType, fields *ishfields.Fields, supplied ...string) (*ishfields.Fields, error) {
	if mode != enums.ActionCreate && mode != enums.ActionUpdate {
		return nil, fmt.Errorf("%w: %s for metadata fields", ErrUnsupportedActionMode, mode)
	}
	strict := s.StrictMetadataPreference()
	out := ishfields.New()

	for _, f := range fields.Fields() {
		mf, ok := f.(*ishfields.MetadataField)
		if !ok {
			s.report(strict, mode, ishTypes, f, "not a metadata field")
			continue
		}
		if mf.ValueType() == enums.ValueTypeAll {
			s.report(strict, mode, ishTypes, f, "value type all cannot be written")
			continue
		}
		if strict == enums.StrictOff {
			out.AddOrUpdate(mf, mode)
			continue
		}
		if reason := s.check(mode, ishTypes, f); reason != "" {
			s.report(strict, mode, ishTypes, f, reason)
			continue
		}
		out.AddOrUpdate(mf, mode)
	}

	if mode == enums.ActionCreate && len(ishTypes) == 1 && strict != enums.StrictOff {
		missing := slices.DeleteFunc(s.MissingMandatory(ishTypes[0], out), func(name string) bool {
			return slices.Contains(supplied, name)
		})
		if len(missing) > 0 {
			s.log(strict, "missing mandatory fields on create",
				"ishtype", ishTypes[0], "fields", strings.Join(missing, ","))
		}
	}
	return out, nil
}

// ToRequestedFields prepares the fields to request on a Read. The
// group's default fields of every ISHType come first, followed by the
// caller's fields. ValueTypeAll expands into every value type the field
// supports. The result holds one field per name, level and value type.
func (s *Setup) ToRequestedFields(group enums.RequestedMetadataGroup, ishTypes []enums.ISHType, fields *ishfields.Fields) *ishfields.Fields {
	strict := s.StrictMetadataPreference()
	out := ishfields.New()

	for _, d := range s.Definitions(ishTypes...) {
		if !inGroup(group, d) {
			continue
		}
		for _, vt := range d.defaultValueTypes() {
			out.AddOrUpdate(ishfields.NewRequestedField(d.Name, d.Level, vt), enums.ActionRead)
		}
	}

	for _, f := range fields.ToRequested().Fields() {
		defs := s.lookupAny(ishTypes, f.Level(), f.Name())
		for _, vt := range expandValueType(f.ValueType(), defs) {
			rf := ishfields.WithValueType(f, vt)
			if strict == enums.StrictOff {
				out.AddOrUpdate(rf, enums.ActionRead)
				continue
			}
			if reason := s.check(enums.ActionRead, ishTypes, rf); reason != "" {
				s.report(strict, enums.ActionRead, ishTypes, rf, reason)
				continue
			}
			out.AddOrUpdate(rf, enums.ActionRead)
		}
	}
	return out
}

// ToFilterFields prepares the filter fields of a Find or Search. Only
// filter fields that are searchable for any of ishTypes survive.
func (s *Setup) ToFilterFields(mode enums.ActionMode, ishTypes []enums.ISHType, fields *ishfields.Fields) (*ishfields.Fields, error) {
	if mode != enums.ActionFind && mode != enums.ActionSearch {
		return nil, fmt.Errorf("%w: %s for filter fields", ErrUnsupportedActionMode, mode)
	}
	strict := s.StrictMetadataPreference()
	out := ishfields.New()

	for _, f := range fields.Fields() {
		ff, ok := f.(*ishfields.FilterField)
		if !ok {
			s.report(strict, mode, ishTypes, f, "not a filter field")
			continue
		}
		if ff.ValueType() == enums.ValueTypeAll {
			s.report(strict, mode, ishTypes, f, "value type all cannot be filtered")
			continue
		}
		if strict == enums.StrictOff {
			out.AddOrUpdate(ff, mode)
			continue
		}
		if reason := s.check(mode, ishTypes, f); reason != "" {
			s.report(strict, mode, ishTypes, f, reason)
			continue
		}
		out.AddOrUpdate(ff, mode)
	}
	return out, nil
}

// MissingMandatory lists the mandatory, creatable, non-system fields of
// ishType that fields does not provide.
func (s *Setup) MissingMandatory(ishType enums.ISHType, fields *ishfields.Fields) []string {
	var missing []string
	for _, d := range s.Definitions(ishType) {
		if !d.IsMandatory || !d.AllowOnCreate || d.IsSystem {
			continue
		}
		if len(fields.Retrieve(d.Name, d.Level)) == 0 {
			missing = append(missing, d.Name)
		}
	}
	return missing
}

// check returns why f cannot be used under mode, or "" if it can.
func (s *Setup) check(mode enums.ActionMode, ishTypes []enums.ISHType, f ishfields.Field) string {
	defs := s.lookupAny(ishTypes, f.Level(), f.Name())
	if len(defs) == 0 {
		return "unknown field"
	}
	allowed := false
	for _, d := range defs {
		if !d.Allows(mode) {
			continue
		}
		allowed = true
		if d.AcceptsValueType(f.ValueType()) {
			return ""
		}
	}
	if !allowed {
		return "not allowed on " + strings.ToLower(string(mode))
	}
	return "value type " + string(f.ValueType()) + " not supported"
}

func (s *Setup) report(strict enums.StrictMetadataPreference, mode enums.ActionMode, ishTypes []enums.ISHType, f ishfields.Field, reason string) {
	s.log(strict, "removed field",
		"mode", mode,
		"ishtypes", joinTypes(ishTypes),
		"name", f.Name(),
		"level", f.Level(),
		"valuetype", f.ValueType(),
		"reason", reason,
	)
}

func (s *Setup) log(strict enums.StrictMetadataPreference, msg string, args ...any) {
	level := slog.LevelWarn
	if strict == enums.StrictSilentlyContinue {
		level = slog.LevelDebug
	}
	s.logger.Log(context.Background(), level, "fieldsetup: "+msg, args...)
}

func inGroup(group enums.RequestedMetadataGroup, d Definition) bool {
	if !d.AllowOnRead {
		return false
	}
	switch group {
	case enums.RequestedAll:
		return true
	case enums.RequestedBasic:
		return d.IsBasic || d.IsDescriptive
	default:
		return d.IsDescriptive
	}
}

// defaultValueTypes are requested for group defaults: the value, and the
// element for references since that is what identifies the target.
func (d Definition) defaultValueTypes() []enums.ValueType {
	if d.DataType.IsReference() {
		return []enums.ValueType{enums.ValueTypeValue, enums.ValueTypeElement}
	}
	return []enums.ValueType{enums.ValueTypeValue}
}

func expandValueType(vt enums.ValueType, defs []Definition) []enums.ValueType {
	if vt != enums.ValueTypeAll {
		return []enums.ValueType{vt}
	}
	if len(defs) == 0 {
		return []enums.ValueType{enums.ValueTypeValue}
	}
	seen := map[enums.ValueType]bool{}
	var out []enums.ValueType
	for _, d := range defs {
		for _, x := range d.ValueTypes() {
			if !seen[x] {
				seen[x] = true
				out = append(out, x)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal() < out[j].Ordinal() })
	return out
}

func joinTypes(ts []enums.ISHType) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
