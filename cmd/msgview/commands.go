package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/msgview/internal/config"
	"github.com/muurk/msgview/internal/discovery"
	"github.com/muurk/msgview/internal/display"
	"github.com/muurk/msgview/internal/logging"
	"github.com/muurk/msgview/internal/ui"
)

// Global flags
var (
	apiURL     string
	baseURL    string
	configPath string
	logLevel   string
	logFile    string
)

// Command flags
var (
	outputFormat string
	scanTimeout  int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Message endpoint, absolute or relative to --base-url (overrides "+config.APIURLEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Origin that relative endpoints resolve against (default "+config.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default is the user config directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides "+logging.LogLevelEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of the default")

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(scanCmd)
}

// loadSettings reads the config file named by --config, or the default one
func loadSettings() (*config.Settings, error) {
	return config.Load(configPath)
}

// initLogging builds the global logger for a command. defaultLevel applies
// when neither --log-level nor MSGVIEW_LOG_LEVEL is set; empty keeps the
// logger silent.
func initLogging(defaultLevel string, outputPath string) error {
	opts := logging.Options{
		Level:        logLevel,
		DefaultLevel: defaultLevel,
	}
	if outputPath != "" {
		if err := config.EnsureDir(outputPath); err != nil {
			return err
		}
		opts.OutputPaths = []string{outputPath}
	}
	return logging.Initialize(opts)
}

// displayOptions resolves the endpoint and maps settings onto the view
func displayOptions(ctx context.Context, settings *config.Settings) display.Options {
	choice := resolveEndpoint(ctx, settings, os.LookupEnv, apiURL, baseURL, discoverBackend)

	logging.Debug("Endpoint resolved",
		zap.String("api_url", choice.APIURL),
		zap.String("base_url", choice.BaseURL),
		zap.String("source", choice.Source),
	)

	return display.Options{
		APIURL:  choice.APIURL,
		BaseURL: choice.BaseURL,
		Heading: settings.Heading,
		Timeout: settings.Timeout(),
		Logger:  logging.GetLogger(),
		Context: ctx,
	}
}

// viewCmd opens the interactive display view
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive message view",
	Long: `Open the message view in the terminal.

The view requests the message once and shows "Loading..." until it arrives.
A failed request is written to the log file and the placeholder stays.
Press r to request again, q to quit.`,
	Example: `  # Use the default endpoint (/api on http://127.0.0.1:5000)
  msgview

  # Point at another backend
  msgview view --api-url http://192.168.1.20:5000/api

  # Read the message over a websocket
  msgview view --api-url ws://127.0.0.1:5000/ws`,
	RunE: runView,
}

func runView(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	// The terminal belongs to the view, so the diagnostic channel is a file.
	path := logFile
	if path == "" {
		if path, err = config.GetLogPath(); err != nil {
			return err
		}
	}
	if err := initLogging("error", path); err != nil {
		return err
	}
	defer logging.Sync()

	opts := displayOptions(cmd.Context(), settings)
	model, err := display.New(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("view error: %w", err)
	}
	return nil
}

// fetchCmd performs one fetch and prints the rendered view
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the message once and print it",
	Long: `Request the message once and print the heading and the message.

A failed fetch prints the "Loading..." placeholder, logs the failure to
stderr and still exits successfully, matching the interactive view.`,
	Example: `  # Print heading and message
  msgview fetch

  # JSON for scripting
  msgview fetch --format json`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unknown format %q (expected text or json)", outputFormat)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if err := initLogging("error", logFile); err != nil {
		return err
	}
	defer logging.Sync()

	opts := displayOptions(cmd.Context(), settings)
	return fetchAndPrint(cmd.Context(), cmd.OutOrStdout(), opts, outputFormat)
}

// fetchResult is the JSON form of a fetch
type fetchResult struct {
	Endpoint string `json:"endpoint"`
	Heading  string `json:"heading"`
	Message  string `json:"message"`
	Loaded   bool   `json:"loaded"`
}

// fetchAndPrint loads the view once and writes it in the given format.
// Fetch failures are logged by the view and are not returned.
func fetchAndPrint(ctx context.Context, out io.Writer, opts display.Options, format string) error {
	model, err := display.New(opts)
	if err != nil {
		return err
	}

	model = model.Load(ctx)
	state := model.State()

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(fetchResult{
			Endpoint: model.Endpoint(),
			Heading:  model.Heading(),
			Message:  state.Message,
			Loaded:   state.Loaded(),
		})
	}

	_, err = fmt.Fprintln(out, display.Render(model.Heading(), state))
	return err
}

// scanCmd lists backends advertised over mDNS
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for message backends on the network",
	Long: `Scan for message backends using mDNS/DNS-SD discovery.

Backends advertise an _http._tcp service. A "path" TXT record names the API
path; without one the path is /api.`,
	Example: `  # Scan for 3 seconds (default)
  msgview scan

  # Longer scan for slow networks
  msgview scan --timeout 10`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", int(discovery.DefaultScanTimeout/time.Second), "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := initLogging("", logFile); err != nil {
		return err
	}
	defer logging.Sync()

	timeout := time.Duration(scanTimeout) * time.Second
	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Scan for backends", "msgview scan",
		ui.Field{Key: "Service", Value: discovery.ServiceType + " in " + discovery.ServiceDomain},
		ui.Field{Key: "Timeout", Value: timeout.String()},
	)

	backends, err := discovery.ScanForBackends(cmd.Context(), timeout)
	if err != nil {
		p.PrintError("Scan failed", err, []string{
			"Check that multicast is allowed on this network interface",
			"Allow UDP port 5353 through the firewall",
		})
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(backends) == 0 {
		p.PrintWarning("No backends found", ui.Field{Key: "Timeout", Value: timeout.String()})
		p.PrintMuted("  Ensure the backend advertises " + discovery.ServiceType + " and is on this network segment")
		p.PrintMuted("  Try increasing --timeout for slower networks")
		p.PrintMuted("  Use --api-url to set the endpoint manually")
		return nil
	}

	p.PrintTable([]string{"Instance", "Host", "Endpoint", "Version"}, backendRows(backends))
	p.PrintMuted("Use 'msgview --api-url <endpoint>' to view a backend")

	return nil
}

// backendRows formats scan results for the backend table
func backendRows(backends []*discovery.Backend) [][]string {
	rows := make([][]string, 0, len(backends))
	for _, b := range backends {
		version := b.GetMetadata(discovery.VersionKey)
		if version == "" {
			version = "-"
		}
		rows = append(rows, []string{b.Instance, b.Hostname, b.URL(), version})
	}
	return rows
}
