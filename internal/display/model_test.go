package display

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/msgview/internal/messageapi"
)

// fakeFetcher returns a canned result and counts requests
type fakeFetcher struct {
	message string
	err     error
	calls   int
	ids     []string
}

func (f *fakeFetcher) FetchMessage(ctx context.Context, requestID string) (*messageapi.Payload, error) {
	f.calls++
	f.ids = append(f.ids, requestID)
	if f.err != nil {
		return nil, f.err
	}
	return &messageapi.Payload{Message: f.message}, nil
}

// cancelAwareFetcher fails with the context's error once it is canceled
type cancelAwareFetcher struct{}

func (cancelAwareFetcher) FetchMessage(ctx context.Context, requestID string) (*messageapi.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, messageapi.NewNetworkError("test", "GET request failed", err)
	}
	return &messageapi.Payload{Message: "too late"}, nil
}

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.ErrorLevel)
	return zap.New(core), logs
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	m, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return m
}

// runCmd executes cmd and flattens batches into the resulting messages
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// deliver feeds every message produced by cmd back into the model, except
// spinner ticks and follow-up commands
func deliver(m Model, cmd tea.Cmd) Model {
	for _, msg := range runCmd(cmd) {
		switch msg.(type) {
		case messageLoadedMsg, fetchFailedMsg:
			updated, _ := m.Update(msg)
			m = updated.(Model)
		}
	}
	return m
}

func activateAndResolve(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd, cancel := m.Activate(context.Background())
	defer cancel()
	return deliver(m, cmd)
}

func TestNew_Defaults(t *testing.T) {
	m := newTestModel(t, Options{Fetcher: &fakeFetcher{}})

	if m.Heading() != DefaultHeading {
		t.Errorf("Heading() = %q, want %q", m.Heading(), DefaultHeading)
	}
	if m.Endpoint() != "http://127.0.0.1:5000/api" {
		t.Errorf("Endpoint() = %q, want default /api on loopback", m.Endpoint())
	}
	if m.ActivationID() != "" || m.Activations() != 0 {
		t.Error("new model should not be activated")
	}
}

func TestNew_Overrides(t *testing.T) {
	m := newTestModel(t, Options{
		APIURL:  "/v2/message",
		BaseURL: "http://backend.local:8080",
		Heading: "Status",
		Fetcher: &fakeFetcher{},
	})

	if m.Endpoint() != "http://backend.local:8080/v2/message" {
		t.Errorf("Endpoint() = %q", m.Endpoint())
	}
	if m.Heading() != "Status" {
		t.Errorf("Heading() = %q", m.Heading())
	}
}

func TestNew_InvalidEndpoint(t *testing.T) {
	_, err := New(Options{APIURL: "ftp://files.local/api"})
	if err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
	if !messageapi.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRender(t *testing.T) {
	if got := Render("Heading", State{}); got != "Heading\n\nLoading..." {
		t.Errorf("Render(empty) = %q", got)
	}
	if got := Render("Heading", State{Message: "hi"}); got != "Heading\n\nhi" {
		t.Errorf("Render(loaded) = %q", got)
	}
}

func TestView_InitialRenderShowsLoading(t *testing.T) {
	m := newTestModel(t, Options{Fetcher: &fakeFetcher{message: "hello"}})
	m, _, cancel := m.Activate(context.Background())
	defer cancel()

	view := m.View()
	if !strings.Contains(view, DefaultHeading) {
		t.Errorf("view should contain heading, got:\n%s", view)
	}
	if !strings.Contains(view, LoadingText) {
		t.Errorf("view should contain %q before the response, got:\n%s", LoadingText, view)
	}
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantText string
		wantLogs int
	}{
		{
			name: "A: message is displayed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"message": "Flask + React Connected ✅"}`))
			},
			wantText: "Flask + React Connected ✅",
		},
		{
			name: "B: empty message falls back to loading",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"message": ""}`))
			},
			wantText: LoadingText,
		},
		{
			name: "malformed body is logged",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>oops</html>`))
			},
			wantText: LoadingText,
			wantLogs: 1,
		},
		{
			name: "missing field is logged",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status": "ok"}`))
			},
			wantText: LoadingText,
			wantLogs: 1,
		},
		{
			name: "server error with usable body is displayed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"message": "degraded"}`))
			},
			wantText: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			logger, logs := newObservedLogger()
			m := newTestModel(t, Options{APIURL: server.URL + "/api", Logger: logger})
			m = activateAndResolve(t, m)

			if got := m.State().Text(); got != tt.wantText {
				t.Errorf("Text() = %q, want %q", got, tt.wantText)
			}
			if !strings.Contains(m.View(), tt.wantText) {
				t.Errorf("view should contain %q, got:\n%s", tt.wantText, m.View())
			}
			if logs.Len() != tt.wantLogs {
				t.Errorf("logged %d entries, want %d", logs.Len(), tt.wantLogs)
			}
		})
	}
}

func TestScenarioC_UnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL + "/api"
	server.Close()

	logger, logs := newObservedLogger()
	m := newTestModel(t, Options{APIURL: endpoint, Logger: logger})
	m = activateAndResolve(t, m)

	if m.State().Loaded() {
		t.Errorf("state should stay unloaded, got %q", m.State().Message)
	}
	if m.State().Text() != LoadingText {
		t.Errorf("Text() = %q, want %q", m.State().Text(), LoadingText)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want exactly 1", len(entries))
	}
	entry := entries[0]
	if entry.Message != "Error fetching API" {
		t.Errorf("log message = %q", entry.Message)
	}
	fields := entry.ContextMap()
	if fields["endpoint"] != endpoint {
		t.Errorf("endpoint field = %v, want %q", fields["endpoint"], endpoint)
	}
	if fields["request_id"] != m.ActivationID() {
		t.Errorf("request_id field = %v, want %q", fields["request_id"], m.ActivationID())
	}
	if fields["type"] != "Connection Refused" {
		t.Errorf("type field = %v, want Connection Refused", fields["type"])
	}
	if fields["category"] != "network" {
		t.Errorf("category field = %v, want network", fields["category"])
	}
	if hints, ok := fields["hints"].([]interface{}); !ok || len(hints) == 0 {
		t.Errorf("hints field = %v, want troubleshooting lines", fields["hints"])
	}
}

func TestFailure_LeavesLoadedStateUnchanged(t *testing.T) {
	fetcher := &fakeFetcher{message: "first"}
	logger, logs := newObservedLogger()
	m := newTestModel(t, Options{Fetcher: fetcher, Logger: logger})
	m = activateAndResolve(t, m)

	failure := fetchFailedMsg{activationID: m.ActivationID(), err: errors.New("boom")}
	updated, cmd := m.Update(failure)
	m = updated.(Model)

	if cmd != nil {
		t.Error("failure should not schedule a retry")
	}
	if m.State().Message != "first" {
		t.Errorf("Message = %q, want unchanged %q", m.State().Message, "first")
	}
	if logs.Len() != 1 {
		t.Errorf("logged %d entries, want 1", logs.Len())
	}
}

func TestActivate_OneRequestPerActivation(t *testing.T) {
	fetcher := &fakeFetcher{message: "hello"}
	m := newTestModel(t, Options{Fetcher: fetcher})

	m = activateAndResolve(t, m)
	if fetcher.calls != 1 {
		t.Fatalf("calls = %d after first activation, want 1", fetcher.calls)
	}
	if m.State().Text() != "hello" {
		t.Fatalf("Text() = %q, want hello", m.State().Text())
	}
	firstID := m.ActivationID()

	m, cmd, cancel := m.Activate(context.Background())
	defer cancel()

	if m.State().Text() != LoadingText {
		t.Errorf("re-activation should reset text to %q, got %q", LoadingText, m.State().Text())
	}
	if m.ActivationID() == firstID {
		t.Error("re-activation should assign a new activation id")
	}
	if m.Activations() != 2 {
		t.Errorf("Activations() = %d, want 2", m.Activations())
	}

	m = deliver(m, cmd)
	if fetcher.calls != 2 {
		t.Errorf("calls = %d after second activation, want 2", fetcher.calls)
	}
	if fetcher.ids[1] != m.ActivationID() {
		t.Errorf("request id %q does not match activation id %q", fetcher.ids[1], m.ActivationID())
	}
	if m.State().Text() != "hello" {
		t.Errorf("Text() = %q after second resolution", m.State().Text())
	}
}

func TestActivate_StaleResultIgnored(t *testing.T) {
	fetcher := &fakeFetcher{message: "stale"}
	logger, logs := newObservedLogger()
	m := newTestModel(t, Options{Fetcher: fetcher, Logger: logger})

	m, first, cancelFirst := m.Activate(context.Background())
	defer cancelFirst()
	m, _, cancelSecond := m.Activate(context.Background())
	defer cancelSecond()

	m = deliver(m, first)
	if m.State().Loaded() {
		t.Errorf("result of a superseded activation was applied: %q", m.State().Message)
	}

	updated, _ := m.Update(fetchFailedMsg{activationID: "old", err: errors.New("boom")})
	m = updated.(Model)
	if logs.Len() != 0 {
		t.Errorf("failure of a superseded activation was logged")
	}
}

func TestActivate_CancelHandle(t *testing.T) {
	logger, logs := newObservedLogger()
	m := newTestModel(t, Options{Fetcher: cancelAwareFetcher{}, Logger: logger})

	m, cmd, cancel := m.Activate(context.Background())
	cancel()

	m = deliver(m, cmd)
	if m.State().Loaded() {
		t.Error("canceled activation should not load a message")
	}
	if logs.Len() != 0 {
		t.Errorf("canceled fetch should not be logged, got %d entries", logs.Len())
	}
}

func TestActivate_SupersededContextIsCanceled(t *testing.T) {
	m := newTestModel(t, Options{Fetcher: cancelAwareFetcher{}})

	m, first, _ := m.Activate(context.Background())
	m, _, cancel := m.Activate(context.Background())
	defer cancel()

	msgs := runCmd(first)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	failed, ok := msgs[0].(fetchFailedMsg)
	if !ok {
		t.Fatalf("expected fetchFailedMsg, got %T", msgs[0])
	}
	if !messageapi.IsCanceled(failed.err) {
		t.Errorf("expected canceled error, got %v", failed.err)
	}
}

func TestDeactivate_DropsLateResponse(t *testing.T) {
	fetcher := &fakeFetcher{message: "late"}
	m := newTestModel(t, Options{Fetcher: fetcher})

	m, cmd, _ := m.Activate(context.Background())
	m = m.Deactivate()
	m = deliver(m, cmd)

	if m.State().Loaded() {
		t.Error("response after deactivation should not be observed")
	}
}

func TestInit_ActivatesOnce(t *testing.T) {
	fetcher := &fakeFetcher{message: "hello"}
	m := newTestModel(t, Options{Fetcher: fetcher})

	msgs := runCmd(m.Init())
	if len(msgs) != 1 {
		t.Fatalf("Init produced %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(activateMsg); !ok {
		t.Fatalf("Init should request activation, got %T", msgs[0])
	}

	updated, cmd := m.Update(msgs[0])
	m = updated.(Model)
	if m.Activations() != 1 {
		t.Errorf("Activations() = %d, want 1", m.Activations())
	}

	m = deliver(m, cmd)
	if fetcher.calls != 1 {
		t.Errorf("calls = %d, want 1", fetcher.calls)
	}
	if m.State().Text() != "hello" {
		t.Errorf("Text() = %q, want hello", m.State().Text())
	}
}

func TestInit_RunsPendingActivation(t *testing.T) {
	fetcher := &fakeFetcher{message: "hello"}
	m := newTestModel(t, Options{Fetcher: fetcher})

	m, _, cancel := m.Activate(context.Background())
	defer cancel()

	m = deliver(m, m.Init())
	if fetcher.calls != 1 {
		t.Errorf("calls = %d, want 1", fetcher.calls)
	}
	if m.Activations() != 1 {
		t.Errorf("Activations() = %d, want 1", m.Activations())
	}
	if m.State().Text() != "hello" {
		t.Errorf("Text() = %q, want hello", m.State().Text())
	}
}

func TestKeys(t *testing.T) {
	fetcher := &fakeFetcher{message: "hello"}
	m := newTestModel(t, Options{Fetcher: fetcher})
	m = activateAndResolve(t, m)

	t.Run("reload", func(t *testing.T) {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
		msgs := runCmd(cmd)
		if len(msgs) != 1 {
			t.Fatalf("got %d messages, want 1", len(msgs))
		}
		if _, ok := msgs[0].(activateMsg); !ok {
			t.Errorf("r should re-activate, got %T", msgs[0])
		}
	})

	t.Run("help toggles", func(t *testing.T) {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
		if !updated.(Model).help.ShowAll {
			t.Error("? should expand help")
		}
	})

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		t.Run("quit "+k.String(), func(t *testing.T) {
			updated, cmd := m.Update(k)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
			if updated.(Model).ActivationID() != "" {
				t.Error("quit should deactivate the view")
			}
		})
	}
}

func TestUpdate_WindowSize(t *testing.T) {
	m := newTestModel(t, Options{Fetcher: &fakeFetcher{message: "sized"}})
	m = activateAndResolve(t, m)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	if m.Width != 100 || m.Height != 30 {
		t.Errorf("size = %dx%d, want 100x30", m.Width, m.Height)
	}
	view := m.View()
	if !strings.Contains(view, "sized") || !strings.Contains(view, DefaultHeading) {
		t.Errorf("sized view missing content:\n%s", view)
	}
}

func TestLoad(t *testing.T) {
	logger, logs := newObservedLogger()

	loaded := newTestModel(t, Options{Fetcher: &fakeFetcher{message: "hello"}, Logger: logger}).
		Load(context.Background())
	if loaded.State().Text() != "hello" {
		t.Errorf("Text() = %q, want hello", loaded.State().Text())
	}

	failed := newTestModel(t, Options{Fetcher: &fakeFetcher{err: errors.New("boom")}, Logger: logger}).
		Load(context.Background())
	if failed.State().Text() != LoadingText {
		t.Errorf("Text() = %q, want %q", failed.State().Text(), LoadingText)
	}
	if logs.Len() != 1 {
		t.Errorf("logged %d entries, want 1", logs.Len())
	}
}
