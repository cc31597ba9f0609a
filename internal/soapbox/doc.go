// Package soapbox provides an HTTP client for the Soapbox feedback API.
//
// # Overview
//
// This package defines the API client for communicating with a hosted
// Soapbox project: wishes (feature requests), votes, comments, releases,
// help-center articles, support tickets, and file uploads. It handles HTTP
// communication, response normalization, and type-safe representation of
// every resource the rest of the application consumes.
//
// # Architecture
//
// The package is split into four files:
//
//   - client.go: operations, query encoding, and the normalization pipeline
//   - upload.go: the multipart attachment path and its size ceiling
//   - types.go:  data structures mirroring the Soapbox API schema
//   - errors.go: the APIError type and client-produced error codes
//
// # Response Normalization
//
// Soapbox endpoints do not agree on a single response shape. Some return a
// bare JSON payload, some return a pre-wrapped {success, data} envelope, list
// endpoints return pagination metadata as siblings of the data array, and the
// comments endpoint returns a bare array with no pagination at all. Every
// operation here collapses those shapes into one contract:
//
//   - a typed payload (lists always as Page[T]) on success, or
//   - a *APIError carrying a stable code, the HTTP status when one was
//     received, and the most specific message the response offered.
//
// The steps, in order: a transport failure becomes NETWORK_ERROR; a non-2xx
// status parses the body for a server message or code, defaulting to
// HTTP_<status>; a 2xx body carrying the success discriminator passes through
// (success=false surfaces the server's error even on a 2xx); anything else is
// treated as a bare payload. Endpoints that omit total_pages are assumed
// single-page, and that default is applied only when the field is genuinely
// absent from the body.
//
// # Error Handling
//
// No operation panics or returns a raw transport error; callers can rely on
// errors.As(err, &apiErr) always succeeding. Client-side precondition
// failures (missing slugs, empty wish id, oversized upload) use
// VALIDATION_ERROR and never touch the network.
//
// # Retry Policy
//
// None. GET operations are side-effect free and may be retried freely by
// callers; POST/DELETE operations are never retried by this layer because
// vote and comment creation are not idempotent. Retry policy belongs to the
// caller, as does the request deadline (Options.Timeout, default 10s).
//
// # Thread Safety
//
// The Client is safe for concurrent use. The underlying http.Client handles
// connection pooling internally.
package soapbox
