package api25

import (
	"context"
	"encoding/xml"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/fieldsetup"
	"github.com/rws/go-ishremote/ishfields"
	"github.com/rws/go-ishremote/soap"
)

func TestQuery_MarshalXMLString(t *testing.T) {
	setup, err := fieldsetup.Static(testLogger())
	require.NoError(t, err)

	filters, err := ishfields.ParseFilterArgs([]string{"FSTATUS=VSTATUSDRAFT", "FNOPE=1"}, enums.LevelLng)
	require.NoError(t, err)

	q := Query{
		Text:      "installation",
		ISHTypes:  []enums.ISHType{enums.ISHModule},
		Languages: []string{"en"},
		Filters:   filters,
	}
	out, err := q.MarshalXMLString(setup)
	require.NoError(t, err)

	var doc xmlQuery
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.And, 2)
	assert.Equal(t, "ISHANYWHERE", doc.And[0].Name)
	assert.Equal(t, "contains", doc.And[0].Operator)
	assert.Equal(t, "installation", doc.And[0].Value)
	assert.Equal(t, "FSTATUS", doc.And[1].Name)
	assert.Equal(t, "LatestVersion", doc.Filters.Version)
	assert.Equal(t, []string{"ISHModule"}, doc.Filters.Types)
	assert.Equal(t, []string{"en"}, doc.Filters.Languages)
	assert.Equal(t, "ISHSCORE", doc.Sort[0].Name)

	q = Query{AllVersions: true}
	out, err = q.MarshalXMLString(setup)
	require.NoError(t, err)
	assert.Contains(t, out, "<ishversionfilter>AllVersions</ishversionfilter>")
	assert.Contains(t, out, "<ishtypefilter>ISHIllustration</ishtypefilter>")
}

func TestSearch_SearchDocumentObj(t *testing.T) {
	c, fc := newTestAPI(t, func(req *soap.Request) (map[string]string, error) {
		switch req.Operation {
		case "PerformSearch":
			assert.Equal(t, 10, param(req, "maxHitsToReturn"))
			return map[string]string{"PerformSearchResult": `<ishsearchresults totalhitcount="3">
<ishsearchresult ishtype="ISHModule" ishref="GUID-B" ishlngref="22" score="0.9"/>
<ishsearchresult ishtype="ISHModule" ishref="GUID-A" ishlngref="11" score="0.5"/>
<ishsearchresult ishtype="ISHModule" ishref="GUID-C" ishlngref="33" score="0.1"/>
</ishsearchresults>`}, nil
		case "RetrieveMetadataByIshLngRefs":
			return map[string]string{"RetrieveMetadataByIshLngRefsResult": lngObjectsXML(11, 22, 33)}, nil
		}
		return nil, fmt.Errorf("unexpected %s", req.Operation)
	}, Preferences{})

	objs, err := c.Search().SearchDocumentObj(context.Background(), Query{Text: "x", MaxHits: 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{22, 11, 33}, objs.LngRefs(), "rank order")
	assert.Equal(t, []string{"Search25.PerformSearch", "DocumentObj25.RetrieveMetadataByIshLngRefs"}, fc.operations())
}

func TestSearch_NoHits(t *testing.T) {
	c, fc := newTestAPI(t, func(req *soap.Request) (map[string]string, error) {
		return map[string]string{"PerformSearchResult": `<ishsearchresults totalhitcount="0"/>`}, nil
	}, Preferences{})

	objs, err := c.Search().SearchDocumentObj(context.Background(), Query{Text: "nothing"}, nil)
	require.NoError(t, err)
	assert.Empty(t, objs)
	assert.Len(t, fc.calls, 1)
}
