package ishobjects

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/rws/go-ishremote/enums"
)

// SearchResult is one hit of Search25.PerformSearch.
type SearchResult struct {
	IshType    enums.ISHType `xml:"ishtype,attr"`
	IshRef     string        `xml:"ishref,attr"`
	LogicalRef int64         `xml:"ishlogicalref,attr"`
	VersionRef int64         `xml:"ishversionref,attr"`
	LngRef     int64         `xml:"ishlngref,attr"`
	Version    string        `xml:"version,attr"`
	Language   string        `xml:"language,attr"`
	Score      float64       `xml:"score,attr"`
}

// SearchResults is the answer of a search, hits ordered by rank.
type SearchResults struct {
	XMLName       xml.Name       `xml:"ishsearchresults"`
	TotalHitCount int64          `xml:"totalhitcount,attr"`
	Results       []SearchResult `xml:"ishsearchresult"`
}

// ParseSearchResults reads ishsearchresults XML.
func ParseSearchResults(data string) (*SearchResults, error) {
	if strings.TrimSpace(data) == "" {
		return &SearchResults{}, nil
	}
	var res SearchResults
	if err := xml.Unmarshal([]byte(data), &res); err != nil {
		return nil, fmt.Errorf("parse ishsearchresults: %w", err)
	}
	for i, r := range res.Results {
		t, err := enums.ParseISHType(string(r.IshType))
		if err != nil {
			return nil, fmt.Errorf("search result %s: %w", r.IshRef, err)
		}
		res.Results[i].IshType = t
	}
	return &res, nil
}

// LngRefs returns the language card references in rank order.
func (r *SearchResults) LngRefs() []int64 {
	out := make([]int64, 0, len(r.Results))
	for _, h := range r.Results {
		out = append(out, h.LngRef)
	}
	return out
}
