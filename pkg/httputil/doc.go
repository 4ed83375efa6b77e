// Package httputil provides the JSON request and response helpers of the
// cortexwalk HTTP server.
//
// # Responses
//
// [WriteJSON] encodes a value with a status code. [WriteError] maps coded
// errors from pkg/errors to a status with [errors.HTTPStatus] and writes a
// uniform body:
//
//	{"error": {"code": "KMER_NOT_FOUND", "message": "k-mer ACGTA not in graph"}}
//
// Internal errors are reported without their message so store paths and
// aligner output do not leak to clients.
//
// # Requests
//
// [DecodeJSON] reads a bounded request body and rejects unknown fields, so
// a misspelled option fails loudly instead of being ignored.
package httputil
