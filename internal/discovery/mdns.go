package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/muurk/msgview/internal/messageapi"
)

const (
	// ServiceType is the mDNS service type message backends advertise
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is how long a scan listens for advertisements
	DefaultScanTimeout = 3 * time.Second

	// DefaultPort is assumed when an advertisement carries no port
	DefaultPort = 80

	// PathKey is the TXT record naming the API path
	PathKey = "path"

	// VersionKey is the optional TXT record carrying the backend version
	VersionKey = "version"
)

// ErrNotFound is returned by First when nothing matched before the timeout
var ErrNotFound = errors.New("no message backend found")

// Scanner browses the local network for message backends
type Scanner struct {
	// Timeout is the maximum time to listen for advertisements
	Timeout time.Duration

	// Instance restricts results to one service instance name. Empty
	// accepts every instance.
	Instance string
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan listens for the full timeout and returns every backend seen, in
// order of arrival.
func (s *Scanner) Scan(ctx context.Context) ([]*Backend, error) {
	var (
		mu       sync.Mutex
		backends = make([]*Backend, 0)
	)

	err := s.browse(ctx, func(b *Backend) bool {
		mu.Lock()
		backends = append(backends, b)
		mu.Unlock()
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return backends, nil
}

// First returns the first backend to answer, without waiting out the
// timeout. It returns ErrNotFound when nothing answered in time.
func (s *Scanner) First(ctx context.Context) (*Backend, error) {
	found := make(chan *Backend, 1)

	err := s.browse(ctx, func(b *Backend) bool {
		select {
		case found <- b:
		default:
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	select {
	case b := <-found:
		return b, nil
	default:
		return nil, ErrNotFound
	}
}

// browse runs one mDNS browse, passing each usable entry to fn until fn
// returns false or the timeout elapses. It returns once browsing stopped.
func (s *Scanner) browse(ctx context.Context, fn func(*Backend) bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				backend := s.parseServiceEntry(entry)
				if backend == nil {
					continue
				}
				if !fn(backend) {
					cancel()
					return
				}
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done
	return nil
}

// parseServiceEntry converts a zeroconf service entry to a Backend.
// Returns nil for entries without an address or outside the instance filter.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Backend {
	if s.Instance != "" && entry.Instance != s.Instance {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := parseText(entry.Text)

	path := metadata[PathKey]
	if path == "" {
		path = messageapi.DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return &Backend{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Path:         path,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// parseText splits "key=value" TXT records. A bare key maps to "".
func parseText(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}
	return metadata
}

// ScanForBackends is a convenience function to scan with a custom timeout
func ScanForBackends(ctx context.Context, timeout time.Duration) ([]*Backend, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}
