package api25

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/fieldsetup"
	"github.com/rws/go-ishremote/ishfields"
	"github.com/rws/go-ishremote/ishobjects"
	"github.com/rws/go-ishremote/soap"
)

// ErrNotFound is returned when a lookup by name or path finds nothing.
var ErrNotFound = errors.New("api25: not found")

// Caller sends one API25 operation. *soap.Client implements it.
type Caller interface {
	Call(ctx context.Context, req *soap.Request) (*soap.Response, error)
}

// Preferences tune how requests are built and batched.
type Preferences struct {
	// RequestedMetadataGroup selects the fields every read returns on top
	// of the explicitly requested ones.
	RequestedMetadataGroup enums.RequestedMetadataGroup

	// MetadataBatchSize bounds the identifiers per metadata call.
	MetadataBatchSize int

	// BlobBatchSize bounds the identifiers per call that returns data.
	BlobBatchSize int

	// Parallelism bounds the batches in flight.
	Parallelism int
}

// DefaultPreferences returns the preferences of a new session.
func DefaultPreferences() Preferences {
	return Preferences{
		RequestedMetadataGroup: enums.RequestedBasic,
		MetadataBatchSize:      999,
		BlobBatchSize:          50,
		Parallelism:            4,
	}
}

// Client groups the API25 services of one session.
type Client struct {
	caller Caller
	setup  *fieldsetup.Setup
	prefs  Preferences
	logger *slog.Logger
}

// New creates a Client. A nil setup behaves like an empty one with
// strict metadata off.
func New(caller Caller, setup *fieldsetup.Setup, prefs Preferences, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if setup == nil {
		setup = fieldsetup.New(logger)
		setup.SetStrictMetadataPreference(enums.StrictOff)
	}
	def := DefaultPreferences()
	if prefs.RequestedMetadataGroup == "" {
		prefs.RequestedMetadataGroup = def.RequestedMetadataGroup
	}
	if prefs.MetadataBatchSize <= 0 {
		prefs.MetadataBatchSize = def.MetadataBatchSize
	}
	if prefs.BlobBatchSize <= 0 {
		prefs.BlobBatchSize = def.BlobBatchSize
	}
	if prefs.Parallelism <= 0 {
		prefs.Parallelism = def.Parallelism
	}
	return &Client{caller: caller, setup: setup, prefs: prefs, logger: logger}
}

// Setup returns the field setup requests are filtered with.
func (c *Client) Setup() *fieldsetup.Setup { return c.setup }

// Preferences returns the effective preferences.
func (c *Client) Preferences() Preferences { return c.prefs }

func (c *Client) Application() *Application { return &Application{c: c} }
func (c *Client) Settings() *Settings       { return &Settings{c: c} }
func (c *Client) DocumentObj() *DocumentObj { return &DocumentObj{c: c} }
func (c *Client) Folder() *Folder           { return &Folder{c: c} }
func (c *Client) Search() *Search           { return &Search{c: c} }
func (c *Client) UserRole() *UserRole       { return &UserRole{c: c} }
func (c *Client) User() *User               { return &User{c: c} }

// requested returns the requested metadata XML for a read of ishTypes.
func (c *Client) requested(ishTypes []enums.ISHType, fields *ishfields.Fields) (string, error) {
	return c.setup.ToRequestedFields(c.prefs.RequestedMetadataGroup, ishTypes, fields).MarshalXMLString()
}

// filter returns the metadata filter XML for a find of ishTypes.
func (c *Client) filter(ishTypes []enums.ISHType, fields *ishfields.Fields) (string, error) {
	if fields.Len() == 0 {
		return "", nil
	}
	ff, err := c.setup.ToFilterFields(enums.ActionFind, ishTypes, fields)
	if err != nil {
		return "", err
	}
	return ff.MarshalXMLString()
}

// metadata returns the metadata XML for a create or update of ishTypes.
// supplied names fields the operation passes as separate parameters.
func (c *Client) metadata(mode enums.ActionMode, ishTypes []enums.ISHType, fields *ishfields.Fields, supplied ...string) (string, error) {
	mf, err := c.setup.ToMetadataFields(mode, ishTypes, fields, supplied...)
	if err != nil {
		return "", err
	}
	return mf.MarshalXMLString()
}

// call sends req and returns the string out parameter named result.
func (c *Client) call(ctx context.Context, req *soap.Request, result string) (string, error) {
	resp, err := c.caller.Call(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.String(result), nil
}

// callObjects sends req and parses its result as ishobjects.
func (c *Client) callObjects(ctx context.Context, req *soap.Request) (ishobjects.Objects, error) {
	out, err := c.call(ctx, req, req.Operation+"Result")
	if err != nil {
		return nil, err
	}
	objs, err := ishobjects.ParseObjects(out)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", req.Service, req.Operation, err)
	}
	return objs, nil
}

// batched splits items into batches of size and runs fetch on each with
// at most Parallelism batches in flight. Results are concatenated in
// batch order.
func batched[T any](ctx context.Context, c *Client, items []T, size int, fetch func(ctx context.Context, batch []T) (ishobjects.Objects, error)) (ishobjects.Objects, error) {
	if len(items) == 0 {
		return nil, nil
	}
	var batches [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	if len(batches) > 1 {
		c.logger.Debug("api25: batched retrieval", "items", len(items), "batches", len(batches), "size", size)
	}

	results := make([]ishobjects.Objects, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.prefs.Parallelism)
	for i, b := range batches {
		g.Go(func() error {
			objs, err := fetch(gctx, b)
			if err != nil {
				return err
			}
			results[i] = objs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out ishobjects.Objects
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
