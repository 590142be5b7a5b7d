package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/msgview/internal/config"
	"github.com/muurk/msgview/internal/discovery"
	"github.com/muurk/msgview/internal/logging"
)

// Where the endpoint came from, for display and logs
const (
	sourceFlag    = "flag"
	sourceEnv     = "env"
	sourceConfig  = "config"
	sourceMDNS    = "mdns"
	sourceDefault = "default"
)

// endpointChoice is the resolved endpoint input for the display view.
// An empty APIURL selects the default path.
type endpointChoice struct {
	APIURL  string
	BaseURL string
	Source  string
}

// discoverFunc returns the endpoint URL of the first backend found
type discoverFunc func(ctx context.Context, timeout time.Duration) (string, error)

// resolveEndpoint picks the endpoint in precedence order: flag, then
// environment, then config file, then mDNS when enabled, then the default
// path. A failed discovery falls through to the default.
func resolveEndpoint(
	ctx context.Context,
	settings *config.Settings,
	lookup func(string) (string, bool),
	flagAPIURL, flagBaseURL string,
	discover discoverFunc,
) endpointChoice {
	choice := endpointChoice{BaseURL: settings.BaseURL}
	if flagBaseURL != "" {
		choice.BaseURL = flagBaseURL
	}

	if flagAPIURL != "" {
		choice.APIURL, choice.Source = flagAPIURL, sourceFlag
		return choice
	}

	if v, ok := config.EnvAPIURL(lookup); ok {
		choice.APIURL, choice.Source = v, sourceEnv
		return choice
	}

	if settings.APIURL != "" {
		choice.APIURL, choice.Source = settings.APIURL, sourceConfig
		return choice
	}

	if settings.Discover && discover != nil {
		found, err := discover(ctx, settings.DiscoverWindow())
		if err == nil {
			choice.APIURL, choice.Source = found, sourceMDNS
			return choice
		}
		logging.Warn("Backend discovery failed, using default endpoint", zap.Error(err))
	}

	choice.Source = sourceDefault
	return choice
}

// discoverBackend browses mDNS and returns the first backend's endpoint
func discoverBackend(ctx context.Context, timeout time.Duration) (string, error) {
	scanner := discovery.NewScanner()
	scanner.Timeout = timeout

	backend, err := scanner.First(ctx)
	if err != nil {
		return "", err
	}

	logging.Info("Discovered backend",
		zap.String("instance", backend.Instance),
		zap.String("url", backend.URL()),
	)
	return backend.URL(), nil
}
