package ishfields

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rws/go-ishremote/enums"
)

func TestNewMetadataField_Normalizes(t *testing.T) {
	f := NewMetadataField(" ftitle ", enums.LevelLogical, "Hello")
	assert.Equal(t, "FTITLE", f.Name())
	assert.Equal(t, enums.LevelLogical, f.Level())
	assert.Equal(t, enums.ValueTypeValue, f.ValueType())
	assert.Equal(t, "Hello", f.Value())
}

func TestNewFilterField_EmptyOperatorDropsValue(t *testing.T) {
	f := NewFilterField("FRESOLUTION", enums.LevelLng, enums.OperatorEmpty, "ignored")
	assert.Equal(t, "", f.Value())

	f = NewFilterField("FTITLE", enums.LevelLogical, "", "x")
	assert.Equal(t, enums.OperatorEqual, f.Operator())
}

func TestFields_AddOrUpdate(t *testing.T) {
	t.Run("create keys on name and level", func(t *testing.T) {
		fs := New()
		fs.AddOrUpdate(NewMetadataField("FTITLE", enums.LevelLogical, "one"), enums.ActionCreate)
		fs.AddOrUpdate(NewMetadataField("FAUTHOR", enums.LevelLng, "admin"), enums.ActionCreate)
		fs.AddOrUpdate(NewMetadataFieldOfType("FTITLE", enums.LevelLogical, enums.ValueTypeElement, "two"), enums.ActionCreate)

		require.Equal(t, 2, fs.Len())
		got := fs.Fields()
		assert.Equal(t, "FTITLE", got[0].Name(), "replacement keeps position")
		assert.Equal(t, "two", got[0].(*MetadataField).Value())
	})

	t.Run("read keys on value type", func(t *testing.T) {
		fs := New()
		fs.AddOrUpdate(NewRequestedField("FSTATUS", enums.LevelLng, enums.ValueTypeValue), enums.ActionRead)
		fs.AddOrUpdate(NewRequestedField("FSTATUS", enums.LevelLng, enums.ValueTypeElement), enums.ActionRead)
		fs.AddOrUpdate(NewRequestedField("fstatus", enums.LevelLng, enums.ValueTypeValue), enums.ActionRead)
		assert.Equal(t, 2, fs.Len())
	})

	t.Run("find keys on operator", func(t *testing.T) {
		fs := New()
		fs.AddOrUpdate(NewFilterField("MODIFIED-ON", enums.LevelLng, enums.OperatorGreaterThan, "01/01/2024"), enums.ActionFind)
		fs.AddOrUpdate(NewFilterField("MODIFIED-ON", enums.LevelLng, enums.OperatorLessThan, "01/01/2025"), enums.ActionFind)
		fs.AddOrUpdate(NewFilterField("MODIFIED-ON", enums.LevelLng, enums.OperatorLessThan, "01/06/2025"), enums.ActionFind)

		require.Equal(t, 2, fs.Len())
		v, ok := fs.Value("MODIFIED-ON", enums.LevelLng, enums.ValueTypeValue)
		require.True(t, ok)
		assert.Equal(t, "01/01/2024", v)
		assert.Equal(t, "01/06/2025", fs.Filters()[1].Value())
	})
}

func TestFields_Remove(t *testing.T) {
	fs := New(
		NewRequestedField("FTITLE", enums.LevelLogical, enums.ValueTypeValue),
		NewRequestedField("FSTATUS", enums.LevelLng, enums.ValueTypeValue),
		NewRequestedField("FSTATUS", enums.LevelLng, enums.ValueTypeElement),
	)

	fs.RemoveValueType("fstatus", enums.LevelLng, enums.ValueTypeElement)
	assert.Equal(t, 2, fs.Len())

	fs.Remove("FSTATUS", enums.LevelLng)
	assert.Equal(t, 1, fs.Len())
	assert.Empty(t, fs.Retrieve("FSTATUS", enums.LevelLng))
}

func TestFields_MarshalXMLString(t *testing.T) {
	fs := New(
		NewMetadataField("FTITLE", enums.LevelLogical, "Fish & <Chips>"),
		NewRequestedField("FAUTHOR", enums.LevelLng, enums.ValueTypeElement),
		NewFilterField("FRESOLUTION", enums.LevelLng, enums.OperatorNotEmpty, ""),
	)

	got, err := fs.MarshalXMLString()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "<ishfields>"))
	assert.Contains(t, got, `<ishfield name="FTITLE" level="logical" ishvaluetype="value">Fish &amp; &lt;Chips&gt;</ishfield>`)
	assert.Contains(t, got, `<ishfield name="FAUTHOR" level="lng" ishvaluetype="element"></ishfield>`)
	assert.Contains(t, got, `<ishfield name="FRESOLUTION" level="lng" ishvaluetype="value" ishoperator="notempty"></ishfield>`)
}

func TestParse(t *testing.T) {
	data := `<ishfields>
  <ishfield name="FTITLE" level="logical" ishvaluetype="value">Intro</ishfield>
  <ishfield name="FSTATUS" level="lng" ishvaluetype="element">VSTATUSDRAFT</ishfield>
  <ishfield name="FAUTHOR" level="lng">admin</ishfield>
  <ishfield name="VERSION" level="version" ishoperator="greaterthan">1</ishfield>
</ishfields>`

	fs, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 4, fs.Len())

	v, ok := fs.Value("FSTATUS", enums.LevelLng, enums.ValueTypeElement)
	assert.True(t, ok)
	assert.Equal(t, "VSTATUSDRAFT", v)

	v, _ = fs.Value("FAUTHOR", enums.LevelLng, enums.ValueTypeValue)
	assert.Equal(t, "admin", v, "missing ishvaluetype means value")

	require.Len(t, fs.Filters(), 1)
	assert.Equal(t, enums.OperatorGreaterThan, fs.Filters()[0].Operator())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(`<ishfields><ishfield name="X" level="card">1</ishfield></ishfields>`)
	assert.ErrorIs(t, err, enums.ErrUnknownEnum)

	_, err = Parse(`<ishfields><ishfield`)
	assert.Error(t, err)

	fs, err := Parse("  ")
	require.NoError(t, err)
	assert.Equal(t, 0, fs.Len())
}

func TestToRequested(t *testing.T) {
	fs := New(
		NewMetadataField("FTITLE", enums.LevelLogical, "a"),
		NewMetadataField("FTITLE", enums.LevelLogical, "b"),
		NewMetadataFieldOfType("FAUTHOR", enums.LevelLng, enums.ValueTypeElement, "USER1"),
	)
	req := fs.ToRequested()
	require.Equal(t, 2, req.Len())
	assert.Len(t, req.Requested(), 2)
}

func TestFields_NilReceiver(t *testing.T) {
	var fs *Fields
	assert.NotPanics(t, func() {
		assert.Nil(t, fs.Remove("FTITLE", enums.LevelLogical))
		assert.Nil(t, fs.RemoveValueType("FTITLE", enums.LevelLogical, enums.ValueTypeValue))
	})
	assert.Equal(t, 0, fs.Len())
	assert.Empty(t, fs.Retrieve("FTITLE", enums.LevelLogical))
	assert.Equal(t, 0, fs.Clone().Len())
}

func TestWithValueType(t *testing.T) {
	rf := WithValueType(NewRequestedField("fauthor", enums.LevelLng, enums.ValueTypeAll), enums.ValueTypeElement)
	require.IsType(t, &RequestedField{}, rf)
	assert.Equal(t, "FAUTHOR", rf.Name())
	assert.Equal(t, enums.ValueTypeElement, rf.ValueType())

	ff := WithValueType(NewFilterField("FSTATUS", enums.LevelLng, enums.OperatorEqual, "Draft"), enums.ValueTypeElement)
	require.IsType(t, &FilterField{}, ff)
	assert.Equal(t, enums.OperatorEqual, ff.(*FilterField).Operator())
	assert.Equal(t, "Draft", ff.(*FilterField).Value())

	mf := WithValueType(NewMetadataField("FTITLE", enums.LevelLogical, "t"), enums.ValueTypeValue)
	assert.Equal(t, "t", mf.(*MetadataField).Value())
}

func TestPropertyName(t *testing.T) {
	assert.Equal(t, "ftitle_logical_value", PropertyName("FTITLE", enums.LevelLogical, enums.ValueTypeValue))
	assert.Equal(t, "doclanguage_lng_element", PropertyName("DOC-LANGUAGE", enums.LevelLng, enums.ValueTypeElement))
}
