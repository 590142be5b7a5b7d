package messageapi

import (
	"net/url"
	"strings"
)

// DefaultPath is the endpoint used when nothing overrides it.
const DefaultPath = "/api"

var supportedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ws":    true,
	"wss":   true,
}

// ResolveEndpoint turns the configured address into an absolute URL.
//
// An empty apiURL means DefaultPath. Absolute http, https, ws and wss URLs
// are used as given. Anything else is treated as a reference relative to
// baseURL, the same way a browser resolves a fetch path against the page
// origin.
func ResolveEndpoint(apiURL, baseURL string) (*url.URL, error) {
	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		apiURL = DefaultPath
	}

	ref, err := url.Parse(apiURL)
	if err != nil {
		return nil, NewValidationError(apiURL, "cannot parse endpoint address: "+err.Error())
	}

	if ref.IsAbs() {
		if err := checkAbsolute(ref); err != nil {
			return nil, err
		}
		return ref, nil
	}

	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, NewValidationError(apiURL, "relative endpoint requires a base URL")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, NewValidationError(baseURL, "cannot parse base URL: "+err.Error())
	}
	if !base.IsAbs() {
		return nil, NewValidationError(baseURL, "base URL must be absolute")
	}
	if err := checkAbsolute(base); err != nil {
		return nil, err
	}

	return base.ResolveReference(ref), nil
}

func checkAbsolute(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	if !supportedSchemes[scheme] {
		return NewValidationError(u.String(), "unsupported scheme "+u.Scheme)
	}
	if u.Host == "" {
		return NewValidationError(u.String(), "endpoint has no host")
	}
	u.Scheme = scheme
	return nil
}

// IsWebSocket reports whether the endpoint is read over a websocket.
func IsWebSocket(u *url.URL) bool {
	return u.Scheme == "ws" || u.Scheme == "wss"
}
