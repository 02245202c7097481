// Package http builds requests from URL templates and normalizes responses.
//
// A call goes through a fixed pipeline:
//   - Path placeholders such as {id} are substituted from the parameter map
//   - Remaining parameters become the query string (GET, DELETE) or the
//     request body (POST, PUT), encoded as urlencoded form or JSON
//   - Headers are composed from per-verb defaults, the session tag and the
//     caller's headers
//   - The response is classified by status, decoded as JSON or text, and the
//     ntag response header is captured into the client's Session
package http
