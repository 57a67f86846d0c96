package api25

import (
	"context"
	"fmt"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
	"github.com/rws/go-ishremote/ishobjects"
	"github.com/rws/go-ishremote/soap"
)

// DocumentObj is the DocumentObj25 service.
type DocumentObj struct{ c *Client }

// docTypes are the ishtypes fields of a document object are checked
// against when the caller does not know the exact type.
var docTypes = enums.DocumentObjectTypes()

// GetMetadata returns one language card.
func (d *DocumentObj) GetMetadata(ctx context.Context, logicalID, version, lng, resolution string, filter, requested *ishfields.Fields) (ishobjects.Object, error) {
	fx, err := d.c.filter(docTypes, filter)
	if err != nil {
		return ishobjects.Object{}, err
	}
	rx, err := d.c.requested(docTypes, requested)
	if err != nil {
		return ishobjects.Object{}, err
	}
	objs, err := d.c.callObjects(ctx, soap.NewRequest(soap.ServiceDocumentObj, "GetMetadata").
		With("logicalId", logicalID).
		With("version", version).
		With("lng", lng).
		With("resolution", resolution).
		With("xmlMetadataFilter", fx).
		With("xmlRequestedMetadata", rx))
	if err != nil {
		return ishobjects.Object{}, err
	}
	if len(objs) == 0 {
		return ishobjects.Object{}, fmt.Errorf("DocumentObj25.GetMetadata %s=%s=%s: %w", logicalID, version, lng, ErrNotFound)
	}
	return objs[0], nil
}

// RetrieveMetadata returns every language card of the logical ids that
// passes status and filter. Objects come back grouped in the order of
// logicalIDs.
func (d *DocumentObj) RetrieveMetadata(ctx context.Context, logicalIDs []string, status enums.StatusFilter, filter, requested *ishfields.Fields) (ishobjects.Objects, error) {
	if status == "" {
		status = enums.StatusNoFilter
	}
	fx, err := d.c.filter(docTypes, filter)
	if err != nil {
		return nil, err
	}
	rx, err := d.c.requested(docTypes, requested)
	if err != nil {
		return nil, err
	}
	objs, err := batched(ctx, d.c, logicalIDs, d.c.prefs.MetadataBatchSize, func(ctx context.Context, batch []string) (ishobjects.Objects, error) {
		return d.c.callObjects(ctx, soap.NewRequest(soap.ServiceDocumentObj, "RetrieveMetadata").
			With("logicalIds", batch).
			With("statusFilter", string(status)).
			With("xmlMetadataFilter", fx).
			With("xmlRequestedMetadata", rx))
	})
	if err != nil {
		return nil, err
	}
	return ishobjects.SortByIshRefs(objs, logicalIDs), nil
}

// RetrieveMetadataByIshLngRefs returns the language cards of lngRefs in
// the order of lngRefs.
func (d *DocumentObj) RetrieveMetadataByIshLngRefs(ctx context.Context, lngRefs []int64, requested *ishfields.Fields) (ishobjects.Objects, error) {
	rx, err := d.c.requested(docTypes, requested)
	if err != nil {
		return nil, err
	}
	objs, err := batched(ctx, d.c, lngRefs, d.c.prefs.MetadataBatchSize, func(ctx context.Context, batch []int64) (ishobjects.Objects, error) {
		return d.c.callObjects(ctx, soap.NewRequest(soap.ServiceDocumentObj, "RetrieveMetadataByIshLngRefs").
			With("lngRefs", batch).
			With("xmlRequestedMetadata", rx))
	})
	if err != nil {
		return nil, err
	}
	return ishobjects.SortByLngRefs(objs, lngRefs), nil
}

// CreateRequest describes a new document object language card.
type CreateRequest struct {
	FolderRef int64
	IshType   enums.ISHType

	// LogicalID may be empty to let the server generate one.
	LogicalID string

	// Version defaults to "new", the next version of LogicalID.
	Version    string
	Lng        string
	Resolution string
	Metadata   *ishfields.Fields

	EDT  string
	Data []byte
}

// Create adds a document object and returns it as read back from the
// server.
func (d *DocumentObj) Create(ctx context.Context, r CreateRequest, requested *ishfields.Fields) (ishobjects.Object, error) {
	if !r.IshType.IsDocumentObject() {
		return ishobjects.Object{}, fmt.Errorf("DocumentObj25.Create: %s is not a document object type", r.IshType)
	}
	if r.Lng == "" {
		return ishobjects.Object{}, fmt.Errorf("DocumentObj25.Create: language is required")
	}
	if r.Version == "" {
		r.Version = "new"
	}
	mx, err := d.c.metadata(enums.ActionCreate, []enums.ISHType{r.IshType}, r.Metadata, "DOC-LANGUAGE", "FRESOLUTION")
	if err != nil {
		return ishobjects.Object{}, err
	}
	resp, err := d.c.caller.Call(ctx, soap.NewRequest(soap.ServiceDocumentObj, "Create").
		With("folderId", r.FolderRef).
		With("ishType", string(r.IshType)).
		With("logicalId", r.LogicalID).
		With("version", r.Version).
		With("lng", r.Lng).
		With("resolution", r.Resolution).
		With("xmlMetadata", mx).
		With("edt", r.EDT).
		With("data", r.Data))
	if err != nil {
		return ishobjects.Object{}, err
	}
	logicalID, version := resp.String("logicalId"), resp.String("version")
	d.c.logger.Debug("api25: created document object", "logical_id", logicalID, "version", version, "lng", r.Lng)
	return d.GetMetadata(ctx, logicalID, version, r.Lng, r.Resolution, nil, requested)
}

// SetMetadata updates a language card. When requiredCurrent is not empty
// the server only applies the update if the card still matches it.
func (d *DocumentObj) SetMetadata(ctx context.Context, logicalID, version, lng, resolution string, metadata, requiredCurrent, requested *ishfields.Fields) (ishobjects.Object, error) {
	mx, err := d.c.metadata(enums.ActionUpdate, docTypes, metadata)
	if err != nil {
		return ishobjects.Object{}, err
	}
	rcx, err := d.c.filter(docTypes, requiredCurrent)
	if err != nil {
		return ishobjects.Object{}, err
	}
	if _, err := d.c.caller.Call(ctx, soap.NewRequest(soap.ServiceDocumentObj, "SetMetadata").
		With("logicalId", logicalID).
		With("version", version).
		With("lng", lng).
		With("resolution", resolution).
		With("xmlMetadata", mx).
		With("xmlRequiredCurrentMetadata", rcx)); err != nil {
		return ishobjects.Object{}, err
	}
	return d.GetMetadata(ctx, logicalID, version, lng, resolution, nil, requested)
}

// Delete removes a language card. Empty version, lng and resolution
// widen the delete to the whole version or logical object.
func (d *DocumentObj) Delete(ctx context.Context, logicalID, version, lng, resolution string, requiredCurrent *ishfields.Fields) error {
	rcx, err := d.c.filter(docTypes, requiredCurrent)
	if err != nil {
		return err
	}
	_, err = d.c.caller.Call(ctx, soap.NewRequest(soap.ServiceDocumentObj, "Delete").
		With("logicalId", logicalID).
		With("version", version).
		With("lng", lng).
		With("resolution", resolution).
		With("xmlRequiredCurrentMetadata", rcx))
	return err
}
