// Package discovery finds message backends on the local network over mDNS.
//
// Backends advertise an "_http._tcp" service in the "local." domain. The
// optional "path" TXT record names the API path; without it the path is
// "/api".
//
//	backend, err := discovery.NewScanner().First(ctx)
//	if errors.Is(err, discovery.ErrNotFound) {
//	    // fall back to the configured endpoint
//	}
//	fmt.Println(backend.URL())
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Backends must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
