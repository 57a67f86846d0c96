package api25

import (
	"context"
	"fmt"

	"github.com/rws/go-ishremote/ishfields"
	"github.com/rws/go-ishremote/ishobjects"
	"github.com/rws/go-ishremote/soap"
)

// Search is the Search25 service.
type Search struct{ c *Client }

// PerformSearch runs q and returns the hits ordered by rank.
func (s *Search) PerformSearch(ctx context.Context, q Query) (*ishobjects.SearchResults, error) {
	qx, err := q.MarshalXMLString(s.c.setup)
	if err != nil {
		return nil, err
	}
	out, err := s.c.call(ctx, soap.NewRequest(soap.ServiceSearch, "PerformSearch").
		With("xmlQuery", qx).
		With("maxHitsToReturn", q.MaxHits), "PerformSearchResult")
	if err != nil {
		return nil, err
	}
	res, err := ishobjects.ParseSearchResults(out)
	if err != nil {
		return nil, fmt.Errorf("Search25.PerformSearch: %w", err)
	}
	s.c.logger.Debug("api25: search", "hits", len(res.Results), "total", res.TotalHitCount)
	return res, nil
}

// SearchDocumentObj runs q and returns the metadata of the hits in rank
// order.
func (s *Search) SearchDocumentObj(ctx context.Context, q Query, requested *ishfields.Fields) (ishobjects.Objects, error) {
	res, err := s.PerformSearch(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.c.DocumentObj().RetrieveMetadataByIshLngRefs(ctx, res.LngRefs(), requested)
}
