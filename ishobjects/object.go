package ishobjects

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
)

// Object is one card returned by the server: a document object language
// card, a publication output, a user, a user role...
type Object struct {
	IshType    enums.ISHType
	IshRef     string
	LogicalRef int64
	VersionRef int64
	LngRef     int64
	Fields     *ishfields.Fields

	// Data is set when the blob was requested.
	Data *Data
}

// Data is the blob of a document object.
type Data struct {
	EDT           string
	FileExtension string
	Bytes         []byte
}

// Objects is an ordered list of objects.
type Objects []Object

type xmlObjects struct {
	XMLName xml.Name    `xml:"ishobjects"`
	Objects []xmlObject `xml:"ishobject"`
}

type xmlObject struct {
	IshType    string               `xml:"ishtype,attr"`
	IshRef     string               `xml:"ishref,attr"`
	LogicalRef string               `xml:"ishlogicalref,attr"`
	VersionRef string               `xml:"ishversionref,attr"`
	LngRef     string               `xml:"ishlngref,attr"`
	Fields     []ishfields.XMLField `xml:"ishfields>ishfield"`
	Data       *xmlData             `xml:"ishdata"`
}

type xmlData struct {
	EDT           string `xml:"edt,attr"`
	FileExtension string `xml:"fileextension,attr"`
	Content       string `xml:",chardata"`
}

// ParseObjects reads ishobjects XML. An empty string yields no objects.
func ParseObjects(data string) (Objects, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	var doc xmlObjects
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("parse ishobjects: %w", err)
	}
	out := make(Objects, 0, len(doc.Objects))
	for _, xo := range doc.Objects {
		o, err := xo.object()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (xo xmlObject) object() (Object, error) {
	o := Object{IshRef: xo.IshRef}
	var err error
	if xo.IshType != "" {
		if o.IshType, err = enums.ParseISHType(xo.IshType); err != nil {
			return Object{}, fmt.Errorf("ishobject %s: %w", xo.IshRef, err)
		}
	}
	refs := []struct {
		raw string
		dst *int64
	}{
		{xo.LogicalRef, &o.LogicalRef},
		{xo.VersionRef, &o.VersionRef},
		{xo.LngRef, &o.LngRef},
	}
	for _, r := range refs {
		if r.raw == "" {
			continue
		}
		if *r.dst, err = strconv.ParseInt(r.raw, 10, 64); err != nil {
			return Object{}, fmt.Errorf("ishobject %s: card reference %q: %w", xo.IshRef, r.raw, err)
		}
	}
	if o.Fields, err = ishfields.FromXMLFields(xo.Fields); err != nil {
		return Object{}, fmt.Errorf("ishobject %s: %w", xo.IshRef, err)
	}
	if xo.Data != nil {
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(xo.Data.Content))
		if err != nil {
			return Object{}, fmt.Errorf("ishobject %s: ishdata: %w", xo.IshRef, err)
		}
		o.Data = &Data{EDT: xo.Data.EDT, FileExtension: xo.Data.FileExtension, Bytes: b}
	}
	return o, nil
}

// Value returns the value of the field, or "" when absent.
func (o Object) Value(name string, level enums.Level, vt enums.ValueType) string {
	v, _ := o.Fields.Value(name, level, vt)
	return v
}

// Properties flattens the object into a map keyed by property names
// such as ftitle_logical_value, next to its identifiers.
func (o Object) Properties() map[string]string {
	props := map[string]string{
		"ishtype": string(o.IshType),
		"ishref":  o.IshRef,
	}
	if o.LogicalRef != 0 {
		props["ishlogicalref"] = strconv.FormatInt(o.LogicalRef, 10)
	}
	if o.VersionRef != 0 {
		props["ishversionref"] = strconv.FormatInt(o.VersionRef, 10)
	}
	if o.LngRef != 0 {
		props["ishlngref"] = strconv.FormatInt(o.LngRef, 10)
	}
	addFieldProperties(props, o.Fields)
	return props
}

func addFieldProperties(props map[string]string, fs *ishfields.Fields) {
	for _, mf := range fs.Metadata() {
		props[ishfields.PropertyName(mf.Name(), mf.Level(), mf.ValueType())] = mf.Value()
	}
}

// IshRefs returns the ishref of each object.
func (objs Objects) IshRefs() []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.IshRef)
	}
	return out
}

// LngRefs returns the language card references of the objects.
func (objs Objects) LngRefs() []int64 {
	out := make([]int64, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.LngRef)
	}
	return out
}

// SortByLngRefs orders objs as lngRefs lists them. Objects whose
// reference is not listed keep their relative order at the end.
func SortByLngRefs(objs Objects, lngRefs []int64) Objects {
	return sortByRefs(objs, lngRefs, func(o Object) int64 { return o.LngRef })
}

// SortByIshRefs orders objs as ishRefs lists them, e.g. logical ids.
// Cards sharing an ishref keep their relative order.
func SortByIshRefs(objs Objects, ishRefs []string) Objects {
	return sortByRefs(objs, ishRefs, func(o Object) string { return o.IshRef })
}

func sortByRefs[K comparable](objs Objects, refs []K, ref func(Object) K) Objects {
	rank := make(map[K]int, len(refs))
	for i, r := range refs {
		if _, ok := rank[r]; !ok {
			rank[r] = i
		}
	}
	out := append(Objects(nil), objs...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, oki := rank[ref(out[i])]
		rj, okj := rank[ref(out[j])]
		switch {
		case oki && okj:
			return ri < rj
		case oki:
			return true
		default:
			return false
		}
	})
	return out
}
