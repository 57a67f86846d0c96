package api25

import (
	"context"
	"fmt"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
	"github.com/rws/go-ishremote/ishobjects"
	"github.com/rws/go-ishremote/soap"
)

// User is the User25 service.
type User struct{ c *Client }

var userTypes = []enums.ISHType{enums.ISHUser}

// GetMyMetadata returns the card of the authenticated user.
func (u *User) GetMyMetadata(ctx context.Context, requested *ishfields.Fields) (ishobjects.Object, error) {
	rx, err := u.c.requested(userTypes, requested)
	if err != nil {
		return ishobjects.Object{}, err
	}
	objs, err := u.c.callObjects(ctx, soap.NewRequest(soap.ServiceUser, "GetMyMetadata").
		With("xmlRequestedMetadata", rx))
	if err != nil {
		return ishobjects.Object{}, err
	}
	if len(objs) == 0 {
		return ishobjects.Object{}, fmt.Errorf("User25.GetMyMetadata: %w", ErrNotFound)
	}
	return objs[0], nil
}

// Find returns the users that pass activity and filter.
func (u *User) Find(ctx context.Context, activity enums.ActivityFilter, filter, requested *ishfields.Fields) (ishobjects.Objects, error) {
	fx, err := u.c.filter(userTypes, filter)
	if err != nil {
		return nil, err
	}
	rx, err := u.c.requested(userTypes, requested)
	if err != nil {
		return nil, err
	}
	return u.c.callObjects(ctx, soap.NewRequest(soap.ServiceUser, "Find").
		With("activityFilter", string(orNone(activity))).
		With("xmlMetadataFilter", fx).
		With("xmlRequestedMetadata", rx))
}
