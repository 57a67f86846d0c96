package api25

import (
	"context"
	"fmt"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/fieldsetup"
	"github.com/rws/go-ishremote/ishfields"
	"github.com/rws/go-ishremote/ishobjects"
	"github.com/rws/go-ishremote/soap"
)

// Settings is the Settings25 service.
type Settings struct{ c *Client }

// GetMetadata returns the ISHConfiguration card.
func (s *Settings) GetMetadata(ctx context.Context, requested *ishfields.Fields) (ishobjects.Object, error) {
	types := []enums.ISHType{enums.ISHConfiguration}
	rx, err := s.c.requested(types, requested)
	if err != nil {
		return ishobjects.Object{}, err
	}
	objs, err := s.c.callObjects(ctx, soap.NewRequest(soap.ServiceSettings, "GetMetadata").
		With("xmlRequestedMetadata", rx))
	if err != nil {
		return ishobjects.Object{}, err
	}
	if len(objs) == 0 {
		return ishobjects.Object{}, fmt.Errorf("Settings25.GetMetadata: %w", ErrNotFound)
	}
	return objs[0], nil
}

// RetrieveFieldSetupByIshType reads the server's field definitions of
// ishTypes, or of every type when ishTypes is empty.
func (s *Settings) RetrieveFieldSetupByIshType(ctx context.Context, ishTypes []enums.ISHType) (*fieldsetup.Setup, error) {
	if len(ishTypes) == 0 {
		ishTypes = enums.ISHTypes()
	}
	names := make([]string, len(ishTypes))
	for i, t := range ishTypes {
		names[i] = string(t)
	}
	out, err := s.c.call(ctx, soap.NewRequest(soap.ServiceSettings, "RetrieveFieldSetupByIshType").
		With("ishTypes", names), "RetrieveFieldSetupByIshTypeResult")
	if err != nil {
		return nil, err
	}
	setup, err := fieldsetup.ParseXML(s.c.logger, out)
	if err != nil {
		return nil, fmt.Errorf("Settings25.RetrieveFieldSetupByIshType: %w", err)
	}
	return setup, nil
}
