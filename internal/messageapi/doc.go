// Package messageapi fetches the display message from a backend endpoint.
//
// The backend contract is a single read-only resource returning a JSON
// object with a text field:
//
//	{"message": "Flask backend is running!"}
//
// # Endpoint Resolution
//
// ResolveEndpoint accepts an absolute URL or a path. Paths resolve against
// a base URL; an empty address means DefaultPath ("/api"):
//
//	u, _ := messageapi.ResolveEndpoint("", "http://127.0.0.1:5000")
//	// http://127.0.0.1:5000/api
//
// # Transports
//
// http and https endpoints are read with one GET. ws and wss endpoints are
// dialed and exactly one frame is read, then the connection is closed. In
// both cases the body is decoded with DecodePayload.
//
// # Error Handling
//
// Every failure is a *FetchError. Its Type separates transport problems
// (network, timeout, refused, DNS, canceled) from payload problems (parse,
// missing field) and unusable addresses (validation):
//
//	payload, err := client.Fetch(ctx)
//	if messageapi.IsMissingFieldError(err) {
//	    // body was JSON but had no "message"
//	}
//
// The client never retries and caches nothing: one call, one request.
package messageapi
