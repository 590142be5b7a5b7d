package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Backend is a message API server found on the local network
type Backend struct {
	// Instance is the advertised service instance name (e.g., "msgapi")
	Instance string

	// Hostname is the mDNS hostname (e.g., "devbox.local.")
	Hostname string

	// IP is the address to connect to, IPv4 when one was advertised
	IP string

	// Port is the advertised HTTP port
	Port int

	// Path is the API path from the "path" TXT record, "/api" when absent
	Path string

	// Metadata holds every TXT record, including "path"
	Metadata map[string]string

	// DiscoveredAt is when the advertisement was received
	DiscoveredAt time.Time
}

// String returns a human-readable description of the backend
func (b *Backend) String() string {
	return fmt.Sprintf("%s (%s) at %s", b.Instance, b.Hostname, b.URL())
}

// BaseURL returns the HTTP origin of the backend
func (b *Backend) BaseURL() string {
	return "http://" + net.JoinHostPort(b.IP, strconv.Itoa(b.Port))
}

// URL returns the absolute message endpoint
func (b *Backend) URL() string {
	return b.BaseURL() + b.Path
}

// GetMetadata retrieves a TXT value by key, or returns empty string if not found
func (b *Backend) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
