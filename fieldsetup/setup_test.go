package fieldsetup

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
)

func testDefinitions() []Definition {
	return []Definition{
		{ISHType: enums.ISHModule, Level: enums.LevelLogical, Name: "FTITLE", DataType: enums.DataTypeString,
			IsMandatory: true, AllowOnRead: true, AllowOnCreate: true, AllowOnUpdate: true, AllowOnSearch: true, IsDescriptive: true},
		{ISHType: enums.ISHModule, Level: enums.LevelLogical, Name: "FDESCRIPTION", DataType: enums.DataTypeLongText,
			AllowOnRead: true, AllowOnCreate: true, AllowOnUpdate: true, IsBasic: true},
		{ISHType: enums.ISHModule, Level: enums.LevelLng, Name: "FSTATUS", DataType: enums.DataTypeISHLov, ReferenceLov: "DSTATUS",
			IsMandatory: true, AllowOnRead: true, AllowOnCreate: true, AllowOnUpdate: true, AllowOnSearch: true, IsDescriptive: true},
		{ISHType: enums.ISHModule, Level: enums.LevelLng, Name: "FAUTHOR", DataType: enums.DataTypeISHType, ReferenceType: enums.ISHUser,
			IsMandatory: true, AllowOnRead: true, AllowOnCreate: true, AllowOnUpdate: true, AllowOnSearch: true},
		{ISHType: enums.ISHModule, Level: enums.LevelLng, Name: "CHECKED-OUT-BY", DataType: enums.DataTypeISHType, ReferenceType: enums.ISHUser,
			AllowOnRead: true, AllowOnSearch: true, IsSystem: true},
		{ISHType: enums.ISHIllustration, Level: enums.LevelLng, Name: "FRESOLUTION", DataType: enums.DataTypeISHLov,
			IsMandatory: true, AllowOnRead: true, AllowOnCreate: true, AllowOnSearch: true, IsDescriptive: true},
	}
}

func newTestSetup(t *testing.T) (*Setup, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(logger, testDefinitions()...), &buf
}

func names(fs *ishfields.Fields) []string {
	var out []string
	for _, f := range fs.Fields() {
		out = append(out, f.Name()+"/"+string(f.Level())+"/"+string(f.ValueType()))
	}
	return out
}

func TestSetup_Lookup(t *testing.T) {
	s, _ := newTestSetup(t)

	d, ok := s.Lookup(enums.ISHModule, enums.LevelLng, "fstatus")
	require.True(t, ok)
	assert.Equal(t, "DSTATUS", d.ReferenceLov)

	_, ok = s.Lookup(enums.ISHModule, enums.LevelLogical, "FSTATUS")
	assert.False(t, ok, "level is part of the key")
}

func TestSetup_DefinitionsSorted(t *testing.T) {
	s, _ := newTestSetup(t)
	var got []string
	for _, d := range s.Definitions(enums.ISHModule) {
		got = append(got, string(d.Level)+"/"+d.Name)
	}
	want := []string{"logical/FDESCRIPTION", "logical/FTITLE", "lng/CHECKED-OUT-BY", "lng/FAUTHOR", "lng/FSTATUS"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Definitions() mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, s.Definitions(), len(testDefinitions()))
}

func TestSetup_Merge(t *testing.T) {
	s, _ := newTestSetup(t)
	server := New(nil, Definition{ISHType: enums.ISHModule, Level: enums.LevelLogical, Name: "FTITLE", AllowOnRead: true})
	s.Merge(server)

	d, ok := s.Lookup(enums.ISHModule, enums.LevelLogical, "FTITLE")
	require.True(t, ok)
	assert.False(t, d.AllowOnCreate, "merged definition wins")
	assert.Equal(t, len(testDefinitions()), s.Len())
}

func TestToMetadataFields(t *testing.T) {
	t.Run("unsupported mode", func(t *testing.T) {
		s, _ := newTestSetup(t)
		_, err := s.ToMetadataFields(enums.ActionRead, []enums.ISHType{enums.ISHModule}, ishfields.New())
		assert.True(t, errors.Is(err, ErrUnsupportedActionMode))
	})

	t.Run("continue drops and warns", func(t *testing.T) {
		s, buf := newTestSetup(t)
		in := ishfields.New(
			ishfields.NewMetadataField("FTITLE", enums.LevelLogical, "Topic"),
			ishfields.NewMetadataField("CHECKED-OUT-BY", enums.LevelLng, "admin"),
			ishfields.NewMetadataField("FUNKNOWN", enums.LevelLogical, "x"),
			ishfields.NewMetadataFieldOfType("FTITLE", enums.LevelLogical, enums.ValueTypeElement, "y"),
			ishfields.NewRequestedField("FSTATUS", enums.LevelLng, enums.ValueTypeValue),
		)
		out, err := s.ToMetadataFields(enums.ActionUpdate, []enums.ISHType{enums.ISHModule}, in)
		require.NoError(t, err)

		assert.Equal(t, []string{"FTITLE/logical/value"}, names(out))
		log := buf.String()
		assert.Contains(t, log, "level=WARN")
		assert.Contains(t, log, "not allowed on update")
		assert.Contains(t, log, "unknown field")
		assert.Contains(t, log, "value type element not supported")
		assert.Contains(t, log, "not a metadata field")
	})

	t.Run("silently continue logs at debug", func(t *testing.T) {
		s, buf := newTestSetup(t)
		s.SetStrictMetadataPreference(enums.StrictSilentlyContinue)
		in := ishfields.New(ishfields.NewMetadataField("FUNKNOWN", enums.LevelLogical, "x"))
		out, err := s.ToMetadataFields(enums.ActionUpdate, []enums.ISHType{enums.ISHModule}, in)
		require.NoError(t, err)

		assert.Equal(t, 0, out.Len())
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.NotContains(t, buf.String(), "level=WARN")
	})

	t.Run("off passes through but deduplicates", func(t *testing.T) {
		s, buf := newTestSetup(t)
		s.SetStrictMetadataPreference(enums.StrictOff)
		in := ishfields.New(
			ishfields.NewMetadataField("FUNKNOWN", enums.LevelLogical, "a"),
			ishfields.NewMetadataField("funknown", enums.LevelLogical, "b"),
			ishfields.NewMetadataField("CHECKED-OUT-BY", enums.LevelLng, "admin"),
		)
		out, err := s.ToMetadataFields(enums.ActionCreate, []enums.ISHType{enums.ISHModule}, in)
		require.NoError(t, err)

		assert.Equal(t, []string{"FUNKNOWN/logical/value", "CHECKED-OUT-BY/lng/value"}, names(out))
		v, _ := out.Value("FUNKNOWN", enums.LevelLogical, enums.ValueTypeValue)
		assert.Equal(t, "b", v)
		assert.Empty(t, buf.String())
	})

	t.Run("any of the ishtypes allows", func(t *testing.T) {
		s, _ := newTestSetup(t)
		in := ishfields.New(ishfields.NewMetadataField("FRESOLUTION", enums.LevelLng, "VRESLOW"))
		out, err := s.ToMetadataFields(enums.ActionCreate, []enums.ISHType{enums.ISHModule, enums.ISHIllustration}, in)
		require.NoError(t, err)
		assert.Equal(t, 1, out.Len())
	})

	t.Run("create warns about missing mandatory fields", func(t *testing.T) {
		s, buf := newTestSetup(t)
		in := ishfields.New(ishfields.NewMetadataField("FTITLE", enums.LevelLogical, "Topic"))
		_, err := s.ToMetadataFields(enums.ActionCreate, []enums.ISHType{enums.ISHModule}, in)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "missing mandatory fields")
		assert.Contains(t, buf.String(), "FAUTHOR,FSTATUS")
	})

	t.Run("fields supplied as parameters are not missing", func(t *testing.T) {
		s, buf := newTestSetup(t)
		in := ishfields.New(
			ishfields.NewMetadataField("FTITLE", enums.LevelLogical, "Topic"),
			ishfields.NewMetadataField("FAUTHOR", enums.LevelLng, "admin"),
		)
		_, err := s.ToMetadataFields(enums.ActionCreate, []enums.ISHType{enums.ISHModule}, in, "FSTATUS")
		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "missing mandatory fields")
	})
}

func TestToRequestedFields(t *testing.T) {
	types := []enums.ISHType{enums.ISHModule}

	t.Run("descriptive group defaults", func(t *testing.T) {
		s, _ := newTestSetup(t)
		out := s.ToRequestedFields(enums.RequestedDescriptive, types, nil)
		want := []string{"FTITLE/logical/value", "FSTATUS/lng/value", "FSTATUS/lng/element"}
		if diff := cmp.Diff(want, names(out)); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("basic group adds basic fields", func(t *testing.T) {
		s, _ := newTestSetup(t)
		out := s.ToRequestedFields(enums.RequestedBasic, types, nil)
		assert.Contains(t, names(out), "FDESCRIPTION/logical/value")
		assert.NotContains(t, names(out), "FAUTHOR/lng/value")
	})

	t.Run("all group takes every readable field", func(t *testing.T) {
		s, _ := newTestSetup(t)
		out := s.ToRequestedFields(enums.RequestedAll, types, nil)
		assert.Contains(t, names(out), "FAUTHOR/lng/element")
		assert.Contains(t, names(out), "CHECKED-OUT-BY/lng/value")
	})

	t.Run("value type all expands and deduplicates", func(t *testing.T) {
		s, _ := newTestSetup(t)
		in := ishfields.New(
			ishfields.NewRequestedField("FSTATUS", enums.LevelLng, enums.ValueTypeAll),
			ishfields.NewRequestedField("FTITLE", enums.LevelLogical, enums.ValueTypeAll),
		)
		out := s.ToRequestedFields(enums.RequestedDescriptive, types, in)
		want := []string{"FTITLE/logical/value", "FSTATUS/lng/value", "FSTATUS/lng/element", "FSTATUS/lng/id"}
		if diff := cmp.Diff(want, names(out)); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown field dropped unless off", func(t *testing.T) {
		s, buf := newTestSetup(t)
		in := ishfields.New(ishfields.NewRequestedField("FUNKNOWN", enums.LevelLogical, enums.ValueTypeAll))
		out := s.ToRequestedFields(enums.RequestedDescriptive, types, in)
		assert.NotContains(t, names(out), "FUNKNOWN/logical/value")
		assert.Contains(t, buf.String(), "unknown field")

		s.SetStrictMetadataPreference(enums.StrictOff)
		out = s.ToRequestedFields(enums.RequestedDescriptive, types, in)
		assert.Contains(t, names(out), "FUNKNOWN/logical/value")
	})

	t.Run("id value type rejected on plain field", func(t *testing.T) {
		s, _ := newTestSetup(t)
		in := ishfields.New(ishfields.NewRequestedField("FTITLE", enums.LevelLogical, enums.ValueTypeID))
		out := s.ToRequestedFields(enums.RequestedDescriptive, types, in)
		assert.NotContains(t, names(out), "FTITLE/logical/id")
	})
}

func TestToFilterFields(t *testing.T) {
	types := []enums.ISHType{enums.ISHModule}

	t.Run("unsupported mode", func(t *testing.T) {
		s, _ := newTestSetup(t)
		_, err := s.ToFilterFields(enums.ActionCreate, types, ishfields.New())
		assert.ErrorIs(t, err, ErrUnsupportedActionMode)
	})

	t.Run("keeps searchable filters", func(t *testing.T) {
		s, buf := newTestSetup(t)
		in := ishfields.New(
			ishfields.NewFilterField("FSTATUS", enums.LevelLng, enums.OperatorEqual, "Draft"),
			ishfields.NewFilterField("FDESCRIPTION", enums.LevelLogical, enums.OperatorLike, "%x%"),
			ishfields.NewFilterField("FAUTHOR", enums.LevelLng, enums.OperatorNotEmpty, "ignored"),
			ishfields.NewMetadataField("FTITLE", enums.LevelLogical, "x"),
		)
		out, err := s.ToFilterFields(enums.ActionFind, types, in)
		require.NoError(t, err)

		require.Equal(t, []string{"FSTATUS/lng/value", "FAUTHOR/lng/value"}, names(out))
		assert.Equal(t, "", out.Filters()[1].Value())
		assert.Contains(t, buf.String(), "not allowed on find")
		assert.Contains(t, buf.String(), "not a filter field")
	})

	t.Run("range on one field keeps both operators", func(t *testing.T) {
		s, _ := newTestSetup(t)
		in := ishfields.New(
			ishfields.NewFilterField("FTITLE", enums.LevelLogical, enums.OperatorGreaterThan, "a"),
			ishfields.NewFilterField("FTITLE", enums.LevelLogical, enums.OperatorLessThan, "m"),
		)
		out, err := s.ToFilterFields(enums.ActionSearch, types, in)
		require.NoError(t, err)
		assert.Equal(t, 2, out.Len())
	})
}

func TestMissingMandatory(t *testing.T) {
	s, _ := newTestSetup(t)
	fs := ishfields.New(
		ishfields.NewMetadataField("FTITLE", enums.LevelLogical, "t"),
		ishfields.NewMetadataField("FSTATUS", enums.LevelLng, "Draft"),
	)
	assert.Equal(t, []string{"FAUTHOR"}, s.MissingMandatory(enums.ISHModule, fs))
}

func TestDefinition_ValueTypes(t *testing.T) {
	plain := Definition{DataType: enums.DataTypeString}
	ref := Definition{DataType: enums.DataTypeISHLov}

	assert.Equal(t, []enums.ValueType{enums.ValueTypeValue}, plain.ValueTypes())
	assert.True(t, ref.AcceptsValueType(enums.ValueTypeID))
	assert.False(t, plain.AcceptsValueType(enums.ValueTypeElement))
	assert.Equal(t, "ISHModule=lng=FSTATUS", Key(enums.ISHModule, enums.LevelLng, "fstatus"))
}
