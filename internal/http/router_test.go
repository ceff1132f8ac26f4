package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charterdesk/internal/config"
	httptransport "charterdesk/internal/http"
	"charterdesk/internal/http/middleware"
	"charterdesk/internal/modules/conversation"
	"charterdesk/internal/service"
	"charterdesk/internal/tools"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	cfg.Generation.BaseURL = "http://127.0.0.1:1"
	app, err := service.Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return httptransport.NewRouter(httptransport.RouterDeps{
		Concierge: app.Concierge,
		Toolbox:   app.Toolbox,
		Metrics:   app.Metrics,
	})
}

func doRequest(r http.Handler, method, path string, body any, role string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set(middleware.RoleHeader, role)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func openConversation(t *testing.T, r http.Handler) string {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/conversations", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var out struct {
		ConversationID string `json:"conversation_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.ConversationID)
	return out.ConversationID
}

func TestConversationLifecycle(t *testing.T) {
	r := newTestRouter(t)
	id := openConversation(t, r)

	w := doRequest(r, http.MethodGet, "/api/conversations/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var rec conversation.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, conversation.StateIdle, rec.State)

	msg := "Can you help me charter a Gulfstream G550 from EGLL to LFMN on 2025-07-01 for 6 passengers, budget £40,000"
	w = doRequest(r, http.MethodPost, "/api/conversations/"+id+"/messages", map[string]string{"message": msg}, "pilot")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res service.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Contains(t, res.Reply, "£33,000")
	assert.Equal(t, conversation.StateSearching, res.NewState)
	assert.Len(t, res.ToolCalls, 6)

	w = doRequest(r, http.MethodGet, "/api/conversations/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, res.Context, rec.Context)
	assert.Len(t, rec.History, 2)

	w = doRequest(r, http.MethodDelete, "/api/conversations/"+id, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodGet, "/api/conversations/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendMessageValidation(t *testing.T) {
	r := newTestRouter(t)
	tests := []struct {
		name string
		path string
		body any
		role string
		want int
	}{
		{"invalid json", "/api/conversations/abc/messages", "{", "", http.StatusBadRequest},
		{"empty message", "/api/conversations/abc/messages", map[string]string{"message": "  "}, "", http.StatusBadRequest},
		{"bad id", "/api/conversations/a.b/messages", map[string]string{"message": "hi"}, "", http.StatusBadRequest},
		{"too long", "/api/conversations/abc/messages", map[string]string{"message": strings.Repeat("a", 4001)}, "", http.StatusRequestEntityTooLarge},
		{"unknown role", "/api/conversations/abc/messages", map[string]string{"message": "hi"}, "passenger", http.StatusForbidden},
		{"first message creates record", "/api/conversations/abc/messages", map[string]string{"message": "hi"}, "crew", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, tt.path, tt.body, tt.role)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestBlockedMessageOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(r, http.MethodPost, "/api/conversations/blocked-1/messages", map[string]string{"message": "JetLink is a scam"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var res service.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, []string{}, res.ToolCalls)
}

func TestToolsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	tests := []struct {
		name     string
		tool     string
		body     any
		wantCode int
		wantBody string
	}{
		{"price estimate", tools.NamePriceEstimate,
			map[string]any{"operator_id": "op_thames", "aircraft_type": "Gulfstream G550"},
			http.StatusOK, `"total_gbp":33000`},
		{"tool error stays 200", tools.NamePriceEstimate,
			map[string]any{"operator_id": "op_thames", "aircraft_type": "Hawker 800XP"},
			http.StatusOK, `"error":"No rate for aircraft type"`},
		{"empty match", tools.NamePriceMatch, map[string]any{"candidates": []any{}},
			http.StatusOK, `"error":"No candidates to match"`},
		{"bad args", tools.NamePriceEstimate, "[1,2", http.StatusBadRequest, "invalid tool arguments"},
		{"unknown tool", "book_flight", map[string]any{}, http.StatusNotFound, "unknown tool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/tools/"+tt.tool, tt.body, "")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}

	w := doRequest(r, http.MethodGet, "/api/tools", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tools.NameSanctionsCheck)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	doRequest(r, http.MethodPost, "/api/conversations/m1/messages", map[string]string{"message": "JetLink is a scam"}, "")
	w = doRequest(r, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `charter_policy_blocks_total{violation="bad_brand"} 1`)
}
