// Package enums holds the constants shared by the field setup engine,
// the ishfields payload types and the API25 service wrappers.
//
// Every enumeration is a string-backed type whose value is the wire form
// used by the CMS XML payloads. Parse functions are case-insensitive and
// return ErrUnknownEnum for anything they do not recognize.
package enums

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEnum is returned when a string does not map to a known enum value.
var ErrUnknownEnum = errors.New("enums: unknown value")

func parse[T ~string](kind, s string, all []T) (T, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, v := range all {
		if strings.ToLower(string(v)) == want {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrUnknownEnum, kind, s)
}

// Level is the card hierarchy tier a field lives on.
type Level string

const (
	LevelNone       Level = "none"
	LevelLogical    Level = "logical"
	LevelVersion    Level = "version"
	LevelLng        Level = "lng"
	LevelAnnotation Level = "annotation"
	LevelReply      Level = "reply"
	LevelDetail     Level = "detail"
	LevelData       Level = "data"
	LevelProgress   Level = "progress"
	LevelTask       Level = "task"
	LevelHistory    Level = "history"
	LevelCompute    Level = "compute"
)

var levels = []Level{
	LevelNone, LevelLogical, LevelVersion, LevelLng, LevelAnnotation, LevelReply,
	LevelDetail, LevelData, LevelProgress, LevelTask, LevelHistory, LevelCompute,
}

// Levels returns all levels in hierarchy order.
func Levels() []Level { return append([]Level(nil), levels...) }

// ParseLevel parses a level name.
func ParseLevel(s string) (Level, error) { return parse("level", s, levels) }

func (l Level) String() string { return string(l) }

// Ordinal is the position of the level in the card hierarchy, -1 if unknown.
func (l Level) Ordinal() int {
	for i, v := range levels {
		if v == l {
			return i
		}
	}
	return -1
}

// ValueType selects which representation of a field value is read or written.
type ValueType string

const (
	ValueTypeValue   ValueType = "value"
	ValueTypeElement ValueType = "element"
	ValueTypeID      ValueType = "id"
	// ValueTypeAll is client-side only. It is expanded into the value
	// types a field definition supports before anything is sent.
	ValueTypeAll ValueType = "all"
)

var valueTypes = []ValueType{ValueTypeValue, ValueTypeElement, ValueTypeID, ValueTypeAll}

// ParseValueType parses a value type name.
func ParseValueType(s string) (ValueType, error) { return parse("value type", s, valueTypes) }

func (v ValueType) String() string { return string(v) }

// Ordinal orders value types as value, element, id, all.
func (v ValueType) Ordinal() int {
	for i, x := range valueTypes {
		if x == v {
			return i
		}
	}
	return -1
}

// FilterOperator is the comparison applied by a metadata filter field.
type FilterOperator string

const (
	OperatorEqual              FilterOperator = "equal"
	OperatorNotEqual           FilterOperator = "notequal"
	OperatorIn                 FilterOperator = "in"
	OperatorNotIn              FilterOperator = "notin"
	OperatorLike               FilterOperator = "like"
	OperatorGreaterThan        FilterOperator = "greaterthan"
	OperatorLessThan           FilterOperator = "lessthan"
	OperatorGreaterThanOrEqual FilterOperator = "greaterthanorequal"
	OperatorLessThanOrEqual    FilterOperator = "lessthanorequal"
	OperatorEmpty              FilterOperator = "empty"
	OperatorNotEmpty           FilterOperator = "notempty"
)

var operators = []FilterOperator{
	OperatorEqual, OperatorNotEqual, OperatorIn, OperatorNotIn, OperatorLike,
	OperatorGreaterThan, OperatorLessThan, OperatorGreaterThanOrEqual,
	OperatorLessThanOrEqual, OperatorEmpty, OperatorNotEmpty,
}

// ParseFilterOperator parses an operator name.
func ParseFilterOperator(s string) (FilterOperator, error) {
	return parse("filter operator", s, operators)
}

func (o FilterOperator) String() string { return string(o) }

// TakesValue reports whether the operator compares against a value.
func (o FilterOperator) TakesValue() bool {
	return o != OperatorEmpty && o != OperatorNotEmpty
}

// ActionMode is the client-side intent that selects which field rules apply.
type ActionMode string

const (
	ActionCreate ActionMode = "Create"
	ActionRead   ActionMode = "Read"
	ActionUpdate ActionMode = "Update"
	ActionDelete ActionMode = "Delete"
	ActionFind   ActionMode = "Find"
	ActionSearch ActionMode = "Search"
)

var actionModes = []ActionMode{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionFind, ActionSearch}

// ParseActionMode parses an action mode.
func ParseActionMode(s string) (ActionMode, error) { return parse("action mode", s, actionModes) }

func (a ActionMode) String() string { return string(a) }

// DataType is the declared type of a field in the field setup.
type DataType string

const (
	DataTypeString             DataType = "string"
	DataTypeLongText           DataType = "longtext"
	DataTypeNumber             DataType = "number"
	DataTypeDateTime           DataType = "datetime"
	DataTypeISHLov             DataType = "ishlov"
	DataTypeISHType            DataType = "ishtype"
	DataTypeISHMetadataBinding DataType = "ishmetadatabinding"
)

var dataTypes = []DataType{
	DataTypeString, DataTypeLongText, DataTypeNumber, DataTypeDateTime,
	DataTypeISHLov, DataTypeISHType, DataTypeISHMetadataBinding,
}

// ParseDataType parses a data type name.
func ParseDataType(s string) (DataType, error) { return parse("data type", s, dataTypes) }

func (d DataType) String() string { return string(d) }

// IsReference reports whether values of this type point at another
// entity (a list of values, a card or a metadata binding). Only those
// fields carry element and id representations.
func (d DataType) IsReference() bool {
	return d == DataTypeISHLov || d == DataTypeISHType || d == DataTypeISHMetadataBinding
}

// ISHType is a content object type recognized by the CMS.
type ISHType string

const (
	ISHNone           ISHType = "ISHNone"
	ISHModule         ISHType = "ISHModule"
	ISHMasterDoc      ISHType = "ISHMasterDoc"
	ISHLibrary        ISHType = "ISHLibrary"
	ISHTemplate       ISHType = "ISHTemplate"
	ISHIllustration   ISHType = "ISHIllustration"
	ISHPublication    ISHType = "ISHPublication"
	ISHFolder         ISHType = "ISHFolder"
	ISHUser           ISHType = "ISHUser"
	ISHUserRole       ISHType = "ISHUserRole"
	ISHUserGroup      ISHType = "ISHUserGroup"
	ISHOutputFormat   ISHType = "ISHOutputFormat"
	ISHBaseline       ISHType = "ISHBaseline"
	ISHEDT            ISHType = "ISHEDT"
	ISHEvent          ISHType = "ISHEvent"
	ISHTranslationJob ISHType = "ISHTranslationJob"
	ISHConfiguration  ISHType = "ISHConfiguration"
	ISHBackgroundTask ISHType = "ISHBackgroundTask"
	ISHAnnotation     ISHType = "ISHAnnotation"
)

var ishTypes = []ISHType{
	ISHNone, ISHModule, ISHMasterDoc, ISHLibrary, ISHTemplate, ISHIllustration,
	ISHPublication, ISHFolder, ISHUser, ISHUserRole, ISHUserGroup, ISHOutputFormat,
	ISHBaseline, ISHEDT, ISHEvent, ISHTranslationJob, ISHConfiguration,
	ISHBackgroundTask, ISHAnnotation,
}

// ISHTypes returns every known ISHType.
func ISHTypes() []ISHType { return append([]ISHType(nil), ishTypes...) }

// DocumentObjectTypes are the ISHTypes served by DocumentObj25.
func DocumentObjectTypes() []ISHType {
	return []ISHType{ISHModule, ISHMasterDoc, ISHLibrary, ISHTemplate, ISHIllustration}
}

// ParseISHType parses an ISHType name.
func ParseISHType(s string) (ISHType, error) { return parse("ishtype", s, ishTypes) }

func (t ISHType) String() string { return string(t) }

// IsDocumentObject reports whether the type is a versioned, language
// dependent document object.
func (t ISHType) IsDocumentObject() bool {
	switch t {
	case ISHModule, ISHMasterDoc, ISHLibrary, ISHTemplate, ISHIllustration:
		return true
	}
	return false
}

// StrictMetadataPreference controls how the field setup treats fields it
// cannot validate.
type StrictMetadataPreference string

const (
	// StrictContinue drops unknown or disallowed fields and warns.
	StrictContinue StrictMetadataPreference = "Continue"
	// StrictSilentlyContinue drops unknown or disallowed fields quietly.
	StrictSilentlyContinue StrictMetadataPreference = "SilentlyContinue"
	// StrictOff disables field checks; fields go to the server as given.
	StrictOff StrictMetadataPreference = "Off"
)

var strictPrefs = []StrictMetadataPreference{StrictContinue, StrictSilentlyContinue, StrictOff}

// ParseStrictMetadataPreference parses a strict metadata preference.
func ParseStrictMetadataPreference(s string) (StrictMetadataPreference, error) {
	return parse("strict metadata preference", s, strictPrefs)
}

func (p StrictMetadataPreference) String() string { return string(p) }

// RequestedMetadataGroup selects the default fields requested on reads.
type RequestedMetadataGroup string

const (
	RequestedDescriptive RequestedMetadataGroup = "Descriptive"
	RequestedBasic       RequestedMetadataGroup = "Basic"
	RequestedAll         RequestedMetadataGroup = "All"
)

var requestedGroups = []RequestedMetadataGroup{RequestedDescriptive, RequestedBasic, RequestedAll}

// ParseRequestedMetadataGroup parses a requested metadata group.
func ParseRequestedMetadataGroup(s string) (RequestedMetadataGroup, error) {
	return parse("requested metadata group", s, requestedGroups)
}

func (g RequestedMetadataGroup) String() string { return string(g) }

// FolderType is the kind of content a repository folder holds.
type FolderType string

const (
	FolderNone         FolderType = "ISHNone"
	FolderModule       FolderType = "ISHModule"
	FolderMasterDoc    FolderType = "ISHMasterDoc"
	FolderLibrary      FolderType = "ISHLibrary"
	FolderTemplate     FolderType = "ISHTemplate"
	FolderIllustration FolderType = "ISHIllustration"
	FolderPublication  FolderType = "ISHPublication"
	FolderReference    FolderType = "ISHReference"
	FolderQuery        FolderType = "ISHQuery"
)

var folderTypes = []FolderType{
	FolderNone, FolderModule, FolderMasterDoc, FolderLibrary, FolderTemplate,
	FolderIllustration, FolderPublication, FolderReference, FolderQuery,
}

// ParseFolderType parses a folder type.
func ParseFolderType(s string) (FolderType, error) { return parse("folder type", s, folderTypes) }

func (f FolderType) String() string { return string(f) }

// VersionFilter restricts folder content to the latest versions or not.
type VersionFilter string

const (
	VersionFilterAll    VersionFilter = ""
	VersionFilterLatest VersionFilter = "latest"
)

// StatusFilter restricts document object retrieval by workflow status.
type StatusFilter string

const (
	StatusNoFilter                  StatusFilter = "ISHNoStatusFilter"
	StatusReleasedStates            StatusFilter = "ISHReleasedStates"
	StatusReleasedOrDraftStates     StatusFilter = "ISHReleasedOrDraftStates"
	StatusOutOfDateOrReleasedStates StatusFilter = "ISHOutOfDateOrReleasedStates"
)

var statusFilters = []StatusFilter{
	StatusNoFilter, StatusReleasedStates, StatusReleasedOrDraftStates, StatusOutOfDateOrReleasedStates,
}

// ParseStatusFilter parses a status filter.
func ParseStatusFilter(s string) (StatusFilter, error) { return parse("status filter", s, statusFilters) }

// ActivityFilter restricts user and user role lookups by their active flag.
type ActivityFilter string

const (
	ActivityNone     ActivityFilter = "None"
	ActivityActive   ActivityFilter = "Active"
	ActivityInactive ActivityFilter = "Inactive"
)

var activityFilters = []ActivityFilter{ActivityNone, ActivityActive, ActivityInactive}

// ParseActivityFilter parses an activity filter.
func ParseActivityFilter(s string) (ActivityFilter, error) {
	return parse("activity filter", s, activityFilters)
}
