// Package badsec implements the two-step BADSEC protocol: obtain a token
// from /auth, derive the request checksum from it, then fetch the
// newline-delimited user list from /users and encode it as a JSON array.
//
// Both calls go through an httpclient.Executor, so each step gets the
// executor's retry schedule. A step that never sees a 200 fails with a
// *ProtocolError; a step that never sees any response fails with the
// executor's *httpclient.AggregateError, returned unchanged.
package badsec
