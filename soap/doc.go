// Package soap is a SOAP 1.1 client for the ISHWS API25 services.
//
// A Request names the service (DocumentObj25, Folder25, ...), the
// operation and its ordered parameters. Client.Call wraps it in an
// envelope, posts it to {base}/Wcf/API25/{service}.svc, turns SOAP
// faults into *Fault errors and returns the operation's out parameters
// as a Response.
//
// Calls are bounded by a semaphore, retried with exponential backoff on
// transient transport errors and guarded by a circuit breaker.
package soap
