// Package capture extracts values from normalized results.
//
// It supports capturing values from:
//   - The decoded body (gjson paths for JSON, the whole text otherwise)
//   - Response headers
//   - The response status code
//
// Specs are written as name=source:path, e.g. id=body:data.id,
// tag=header:ntag or code=status.
package capture
