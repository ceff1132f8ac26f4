package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"charterdesk/internal/metrics"
	"charterdesk/internal/modules/intent"
	"charterdesk/internal/rules"
	"charterdesk/internal/types"
)

func route(in intent.Intent) intent.Route {
	return intent.Route{Intent: in, Slot: in.Slot(), Confidence: in.Confidence(), Reasoning: "test"}
}

func TestPolish(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Assistant: Happy to help.", "Happy to help. " + DefaultNextAction},
		{"Sure thing, shall I search now?", "Sure thing, shall I search now?"},
		{"Concierge: Line one\n\n\n\nLine two", "Line one\n\nLine two. " + DefaultNextAction},
		{"  Would you like the G650 option  ", "Would you like the G650 option."},
		{"AI:   ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Polish(tc.in), tc.in)
	}
}

func TestMissingListAndRecap(t *testing.T) {
	assert.Equal(t, "", MissingList(nil))
	assert.Equal(t, "the travel date", MissingList([]string{types.FieldDate}))
	assert.Equal(t, "the aircraft type, travel date and budget in GBP",
		MissingList([]string{types.FieldAircraft, types.FieldDate, types.FieldBudget}))

	assert.Equal(t, "no trip details yet", Recap(types.AviationContext{}))
	assert.Equal(t, "G650, EGLL to KJFK, on 2025-06-01, 8 passengers, budget £50,000",
		Recap(types.AviationContext{Aircraft: "G650", Origin: "EGLL", Destination: "KJFK", Date: "2025-06-01", Pax: 8, BudgetGBP: 50000}))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("JetLink", Request{
		Message:      "hello",
		Context:      types.AviationContext{Aircraft: "G650"},
		PriorSummary: "Found 2 aircraft",
		Route:        route(intent.Intake),
		Role:         "operator",
	})
	assert.Contains(t, p, "JetLink charter concierge speaking with a operator terminal user")
	assert.Contains(t, p, "Still needed: the departure airport (ICAO)")
	assert.Contains(t, p, "Tool results: Found 2 aircraft")
	assert.True(t, strings.HasSuffix(p, "User: hello\nConcierge:"))
}

func TestFallback(t *testing.T) {
	f := NewFallback(rules.MustDefault())
	ctx := context.Background()

	resp, err := f.Generate(ctx, Request{Message: "can you help me", Route: route(intent.Intake)})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "the aircraft type, departure airport (ICAO)")
	assert.Equal(t, "fallback", resp.ModelUsed)
	assert.Equal(t, intent.Intake, resp.Intent)
	assert.True(t, HasNextAction(resp.Text))

	resp, err = f.Generate(ctx, Request{
		Message: "recap",
		Context: types.AviationContext{Aircraft: "G550"},
		Route:   route(intent.Summary),
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Here is what I have so far: G550.")

	resp, err = f.Generate(ctx, Request{Message: "yes", PriorSummary: "Best option: X at £1,000.", Route: route(intent.Tools)})
	require.NoError(t, err)
	assert.Equal(t, "Best option: X at £1,000. Would you like me to proceed with this option?", resp.Text)

	resp, err = f.Generate(ctx, Request{Message: "yes", PriorSummary: "Pricing failed. Do you want me to request manual quotes from the operators?", Route: route(intent.Tools)})
	require.NoError(t, err)
	assert.Equal(t, "Pricing failed. Do you want me to request manual quotes from the operators?", resp.Text)

	resp, err = f.Generate(ctx, Request{Message: "thanks", Route: route(intent.Tools)})
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Would you like me to start a charter search?")
}

type fakeBackend struct {
	healthErr error
	genErr    error
	calls     int
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Healthy(context.Context) error { return f.healthErr }

func (f *fakeBackend) Generate(_ context.Context, req Request) (*Response, error) {
	f.calls++
	if f.genErr != nil {
		return nil, f.genErr
	}
	return &Response{Text: "primary reply", Intent: req.Route.Intent, ModelUsed: "fake"}, nil
}

func TestSelector(t *testing.T) {
	fb := NewFallback(rules.MustDefault())
	req := Request{Message: "hello", Route: route(intent.General)}

	cases := []struct {
		name      string
		backend   *fakeBackend
		wantModel string
		wantCalls int
	}{
		{"healthy primary", &fakeBackend{}, "fake", 1},
		{"unhealthy primary", &fakeBackend{healthErr: errors.New("down")}, "fallback", 0},
		{"primary error", &fakeBackend{genErr: errors.New("500")}, "fallback", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSelector(tc.backend, fb, time.Second, metrics.New(), zap.NewNop())
			resp, err := s.Generate(context.Background(), req)
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tc.wantModel, resp.ModelUsed)
			assert.Equal(t, tc.wantCalls, tc.backend.calls)
			assert.NotEmpty(t, resp.Text)
		})
	}

	s := NewSelector(nil, fb, 0, nil, nil)
	resp, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.ModelUsed)
}

type brokenFallback struct{}

func (brokenFallback) Generate(context.Context, Request) (*Response, error) {
	return nil, errors.New("no rules loaded")
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestSelectorCountsFallbackOutcome(t *testing.T) {
	req := Request{Message: "hello", Route: route(intent.General)}

	m := metrics.New()
	s := NewSelector(&fakeBackend{healthErr: errors.New("down")}, brokenFallback{}, time.Second, m, zap.NewNop())
	resp, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, DefaultNextAction, resp.Text)
	body := scrape(t, m)
	assert.Contains(t, body, `charter_generation_total{backend="fallback",outcome="error"} 1`)
	assert.NotContains(t, body, `charter_generation_total{backend="fallback",outcome="ok"}`)

	m = metrics.New()
	s = NewSelector(nil, NewFallback(rules.MustDefault()), time.Second, m, zap.NewNop())
	_, err = s.Generate(context.Background(), req)
	require.NoError(t, err)
	body = scrape(t, m)
	assert.Contains(t, body, `charter_generation_total{backend="fallback",outcome="ok"} 1`)
	assert.NotContains(t, body, `outcome="error"`)
}

func TestOllamaBackend(t *testing.T) {
	var got ollamaGenerateRequest
	var options map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"},{"name":"qwen2.5:14b"}]}`))
		case "/api/generate":
			assert.Equal(t, http.MethodPost, r.Method)
			raw, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.NoError(t, json.Unmarshal(raw, &got))
			var body struct {
				Options map[string]json.RawMessage `json:"options"`
			}
			assert.NoError(t, json.Unmarshal(raw, &body))
			options = body.Options
			_, _ = w.Write([]byte(`{"model":"qwen2.5:14b","response":"Assistant: I found two options","done":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	b := NewOllamaBackend(BackendConfig{
		BaseURL:  srv.URL + "/",
		Models:   Models{Primary: "llama3.2", Reasoning: "qwen2.5:14b", Summary: "llama3.2"},
		Sampling: Sampling{Temperature: 0.3, TopP: 0.9, MaxTokens: 256},
		Brand:    "JetLink",
	})
	require.NoError(t, b.Healthy(context.Background()))

	resp, err := b.Generate(context.Background(), Request{Message: "any G650?", Route: route(intent.Availability)})
	require.NoError(t, err)
	assert.Equal(t, "qwen2.5:14b", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, 0.3, got.Options.Temperature)
	assert.Equal(t, 256, got.Options.MaxTokens)
	assert.NotEmpty(t, got.Options.Stop)
	assert.Contains(t, got.Prompt, "User: any G650?")
	for _, key := range []string{"temperature", "top_p", "max_tokens", "stop"} {
		assert.Contains(t, options, key)
	}
	assert.JSONEq(t, "256", string(options["max_tokens"]))
	assert.JSONEq(t, "256", string(options["num_predict"]))

	assert.Equal(t, "I found two options. "+DefaultNextAction, resp.Text)
	assert.Equal(t, "ollama:qwen2.5:14b", resp.ModelUsed)
	assert.Equal(t, 0.95, resp.Confidence)
}

func TestOllamaOptionsKeepZeroTopP(t *testing.T) {
	raw, err := json.Marshal(ollamaOptions{Temperature: 0.3, MaxTokens: 128, NumPredict: 128})
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 0.0, got["top_p"])
	assert.Equal(t, 128.0, got["max_tokens"])
	assert.NotContains(t, got, "stop")
}

func TestOllamaBackendFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"other"}]}`))
		case "/api/generate":
			http.Error(w, "model crashed", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	b := NewOllamaBackend(BackendConfig{BaseURL: srv.URL, Models: Models{Primary: "llama3.2"}})
	assert.Error(t, b.Healthy(context.Background()))

	_, err := b.Generate(context.Background(), Request{Message: "hi", Route: route(intent.General)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	down := NewOllamaBackend(BackendConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	assert.Error(t, down.Healthy(context.Background()))
}

func TestOllamaBackendSlowIsBounded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	b := NewOllamaBackend(BackendConfig{BaseURL: srv.URL, Timeout: 100 * time.Millisecond})
	start := time.Now()
	_, err := b.Generate(context.Background(), Request{Message: "hi", Route: route(intent.General)})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSelectorFallsBackOnUnreachableOllama(t *testing.T) {
	b := NewOllamaBackend(BackendConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	s := NewSelector(b, NewFallback(rules.MustDefault()), 200*time.Millisecond, nil, nil)
	resp, err := s.Generate(context.Background(), Request{Message: "are you a bot?", Route: route(intent.Reassure)})
	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.ModelUsed)
	assert.Contains(t, resp.Text, "JetLink charter assistant")
}
