package api25

import (
	"context"
	"fmt"
	"strings"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
	"github.com/rws/go-ishremote/ishobjects"
	"github.com/rws/go-ishremote/soap"
)

// UserRole is the UserRole25 service.
type UserRole struct{ c *Client }

var userRoleTypes = []enums.ISHType{enums.ISHUserRole}

// Find returns the user roles that pass activity and filter.
func (u *UserRole) Find(ctx context.Context, activity enums.ActivityFilter, filter, requested *ishfields.Fields) (ishobjects.Objects, error) {
	fx, err := u.c.filter(userRoleTypes, filter)
	if err != nil {
		return nil, err
	}
	rx, err := u.c.requested(userRoleTypes, requested)
	if err != nil {
		return nil, err
	}
	return u.c.callObjects(ctx, soap.NewRequest(soap.ServiceUserRole, "Find").
		With("activityFilter", string(orNone(activity))).
		With("xmlMetadataFilter", fx).
		With("xmlRequestedMetadata", rx))
}

// RetrieveMetadata returns the user roles with the given ids.
func (u *UserRole) RetrieveMetadata(ctx context.Context, ids []string, activity enums.ActivityFilter, filter, requested *ishfields.Fields) (ishobjects.Objects, error) {
	fx, err := u.c.filter(userRoleTypes, filter)
	if err != nil {
		return nil, err
	}
	rx, err := u.c.requested(userRoleTypes, requested)
	if err != nil {
		return nil, err
	}
	return batched(ctx, u.c, ids, u.c.prefs.MetadataBatchSize, func(ctx context.Context, batch []string) (ishobjects.Objects, error) {
		return u.c.callObjects(ctx, soap.NewRequest(soap.ServiceUserRole, "RetrieveMetadata").
			With("userRoleIds", batch).
			With("activityFilter", string(orNone(activity))).
			With("xmlMetadataFilter", fx).
			With("xmlRequestedMetadata", rx))
	})
}

func (u *UserRole) get(ctx context.Context, id string, requested *ishfields.Fields) (ishobjects.Object, error) {
	objs, err := u.RetrieveMetadata(ctx, []string{id}, enums.ActivityNone, nil, requested)
	if err != nil {
		return ishobjects.Object{}, err
	}
	if len(objs) == 0 {
		return ishobjects.Object{}, fmt.Errorf("UserRole25 %s: %w", id, ErrNotFound)
	}
	return objs[0], nil
}

// Create adds a user role and returns it.
func (u *UserRole) Create(ctx context.Context, name string, metadata, requested *ishfields.Fields) (ishobjects.Object, error) {
	if strings.TrimSpace(name) == "" {
		return ishobjects.Object{}, fmt.Errorf("UserRole25.Create: user role name is required")
	}
	mx, err := u.c.metadata(enums.ActionCreate, userRoleTypes, metadata, "FISHUSERROLENAME")
	if err != nil {
		return ishobjects.Object{}, err
	}
	id, err := u.c.call(ctx, soap.NewRequest(soap.ServiceUserRole, "Create").
		With("userRoleName", name).
		With("xmlMetadata", mx), "CreateResult")
	if err != nil {
		return ishobjects.Object{}, err
	}
	return u.get(ctx, id, requested)
}

// Update changes the metadata of user role id and returns it.
func (u *UserRole) Update(ctx context.Context, id string, metadata, requested *ishfields.Fields) (ishobjects.Object, error) {
	mx, err := u.c.metadata(enums.ActionUpdate, userRoleTypes, metadata)
	if err != nil {
		return ishobjects.Object{}, err
	}
	if _, err := u.c.caller.Call(ctx, soap.NewRequest(soap.ServiceUserRole, "Update").
		With("userRoleId", id).
		With("xmlMetadata", mx)); err != nil {
		return ishobjects.Object{}, err
	}
	return u.get(ctx, id, requested)
}

// Delete removes user role id.
func (u *UserRole) Delete(ctx context.Context, id string) error {
	_, err := u.c.caller.Call(ctx, soap.NewRequest(soap.ServiceUserRole, "Delete").With("userRoleId", id))
	return err
}

func orNone(a enums.ActivityFilter) enums.ActivityFilter {
	if a == "" {
		return enums.ActivityNone
	}
	return a
}
