// Package api25 exposes the ISHWS API25 SOAP services as typed methods.
//
// Every method follows the same path: the caller's fields are filtered by
// the session's field setup for the action at hand, serialized to
// ishfields or ishquery XML, sent through a soap.Client, and the answer
// is parsed into ishobjects types.
//
//	c := api25.New(soapClient, setup, api25.DefaultPreferences(), logger)
//	objs, err := c.DocumentObj().RetrieveMetadata(ctx, logicalIDs, enums.StatusNoFilter, nil, requested)
//
// Reads that take many identifiers are split into batches of
// Preferences.MetadataBatchSize and run in parallel; the result keeps the
// order of the identifiers.
package api25
