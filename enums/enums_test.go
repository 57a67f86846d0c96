package enums

import (
	"errors"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "logical", want: LevelLogical},
		{in: "LNG", want: LevelLng},
		{in: " Version ", want: LevelVersion},
		{in: "none", want: LevelNone},
		{in: "card", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownEnum) {
					t.Fatalf("ParseLevel(%q) error = %v, want ErrUnknownEnum", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelOrdinal(t *testing.T) {
	if LevelLogical.Ordinal() >= LevelVersion.Ordinal() {
		t.Error("logical should order before version")
	}
	if LevelVersion.Ordinal() >= LevelLng.Ordinal() {
		t.Error("version should order before lng")
	}
	if Level("bogus").Ordinal() != -1 {
		t.Error("unknown level should have ordinal -1")
	}
}

func TestDataTypeIsReference(t *testing.T) {
	refs := map[DataType]bool{
		DataTypeString:             false,
		DataTypeLongText:           false,
		DataTypeNumber:             false,
		DataTypeDateTime:           false,
		DataTypeISHLov:             true,
		DataTypeISHType:            true,
		DataTypeISHMetadataBinding: true,
	}
	for dt, want := range refs {
		if got := dt.IsReference(); got != want {
			t.Errorf("%s.IsReference() = %v, want %v", dt, got, want)
		}
	}
}

func TestFilterOperatorTakesValue(t *testing.T) {
	if OperatorEmpty.TakesValue() || OperatorNotEmpty.TakesValue() {
		t.Error("empty and notempty must not take a value")
	}
	if !OperatorLike.TakesValue() {
		t.Error("like must take a value")
	}

	op, err := ParseFilterOperator("GreaterThanOrEqual")
	if err != nil {
		t.Fatalf("ParseFilterOperator error = %v", err)
	}
	if op != OperatorGreaterThanOrEqual {
		t.Errorf("op = %q, want %q", op, OperatorGreaterThanOrEqual)
	}
}

func TestISHTypeIsDocumentObject(t *testing.T) {
	for _, typ := range DocumentObjectTypes() {
		if !typ.IsDocumentObject() {
			t.Errorf("%s should be a document object", typ)
		}
	}
	for _, typ := range []ISHType{ISHFolder, ISHUser, ISHPublication, ISHBaseline} {
		if typ.IsDocumentObject() {
			t.Errorf("%s should not be a document object", typ)
		}
	}
}

func TestParseStrictMetadataPreference(t *testing.T) {
	got, err := ParseStrictMetadataPreference("silentlycontinue")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if got != StrictSilentlyContinue {
		t.Errorf("got %q, want %q", got, StrictSilentlyContinue)
	}
	if _, err := ParseStrictMetadataPreference("Stop"); !errors.Is(err, ErrUnknownEnum) {
		t.Errorf("error = %v, want ErrUnknownEnum", err)
	}
}
