// Package reqctx carries per-request metadata through context.Context.
//
// HTTP middleware fills a Meta once per request; services read it to
// tag their logs with the request ID and resolved locale without depending on
// the transport.
package reqctx
