package api25

import (
	"context"
	"fmt"

	"github.com/rws/go-ishremote/ishobjects"
	"github.com/rws/go-ishremote/soap"
)

// Application is the Application25 service.
type Application struct{ c *Client }

// GetVersion returns the server software version.
func (a *Application) GetVersion(ctx context.Context) (ishobjects.Version, error) {
	out, err := a.c.call(ctx, soap.NewRequest(soap.ServiceApplication, "GetVersion"), "GetVersionResult")
	if err != nil {
		return ishobjects.Version{}, err
	}
	v, err := ishobjects.ParseVersion(out)
	if err != nil {
		return ishobjects.Version{}, fmt.Errorf("Application25.GetVersion: %w", err)
	}
	return v, nil
}
