package api25

import (
	"encoding/xml"
	"fmt"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/fieldsetup"
	"github.com/rws/go-ishremote/ishfields"
)

// Query is a Search25 query.
type Query struct {
	// Text is matched anywhere in the content and metadata.
	Text string

	// ISHTypes restricts the hits; empty means every document object type.
	ISHTypes []enums.ISHType

	// Languages restricts the hits to these language cards.
	Languages []string

	// AllVersions includes older versions, which are left out by default.
	AllVersions bool

	// Filters are extra metadata conditions.
	Filters *ishfields.Fields

	// MaxHits bounds the results, 0 uses the server default.
	MaxHits int
}

type xmlQuery struct {
	XMLName xml.Name             `xml:"ishquery"`
	And     []ishfields.XMLField `xml:"and>ishfield"`
	Sort    []xmlSortField       `xml:"ishsort>ishsortfield"`
	Filters xmlObjectFilters     `xml:"ishobjectfilters"`
}

type xmlSortField struct {
	Name  string `xml:"name,attr"`
	Level string `xml:"level,attr"`
	Order string `xml:"ishorder,attr"`
}

type xmlObjectFilters struct {
	Version   string   `xml:"ishversionfilter"`
	Types     []string `xml:"ishtypefilter"`
	Languages []string `xml:"ishlanguagefilter"`
}

// anywhereField is the full text pseudo field.
const anywhereField = "ISHANYWHERE"

func (q Query) types() []enums.ISHType {
	if len(q.ISHTypes) == 0 {
		return enums.DocumentObjectTypes()
	}
	return q.ISHTypes
}

// MarshalXMLString renders the ishquery XML. Filters pass through setup
// in Search mode first.
func (q Query) MarshalXMLString(setup *fieldsetup.Setup) (string, error) {
	doc := xmlQuery{
		Sort: []xmlSortField{{Name: "ISHSCORE", Level: string(enums.LevelNone), Order: "d"}},
		Filters: xmlObjectFilters{
			Version:   "LatestVersion",
			Languages: q.Languages,
		},
	}
	if q.AllVersions {
		doc.Filters.Version = "AllVersions"
	}
	for _, t := range q.types() {
		doc.Filters.Types = append(doc.Filters.Types, string(t))
	}
	if q.Text != "" {
		doc.And = append(doc.And, ishfields.XMLField{
			Name:     anywhereField,
			Level:    string(enums.LevelNone),
			Operator: "contains",
			Value:    q.Text,
		})
	}
	if q.Filters.Len() > 0 {
		ff, err := setup.ToFilterFields(enums.ActionSearch, q.types(), q.Filters)
		if err != nil {
			return "", err
		}
		for _, f := range ff.Filters() {
			doc.And = append(doc.And, ishfields.XMLField{
				Name:      f.Name(),
				Level:     string(f.Level()),
				ValueType: string(f.ValueType()),
				Operator:  string(f.Operator()),
				Value:     f.Value(),
			})
		}
	}
	b, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal ishquery: %w", err)
	}
	return string(b), nil
}
