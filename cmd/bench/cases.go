// README: Bench cases; API contract, policy, tools, same-conversation concurrency and throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

const fullQuoteMessage = "Can you help me charter a Gulfstream G550 from EGLL to LFMN on 2025-07-01 for 6 passengers, budget £40,000"

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{Name: "Env: Postgres connect", Run: pingPostgres},
		{Name: "Env: Redis listing index", Run: checkRedisIndex},
		{Name: "Migration: apply (optional)", Run: applyMigration},
		{Name: "Migration: tables exist", Run: checkTables},

		statusCase("API: health", http.MethodGet, base+"/health", nil, http.StatusOK),
		statusCase("API: metrics", http.MethodGet, base+"/metrics", nil, http.StatusOK),
		statusCase("API: open conversation", http.MethodPost, base+"/api/conversations", nil, http.StatusCreated),
		statusCase("API: unknown conversation -> 404", http.MethodGet, base+"/api/conversations/bench-missing", nil, http.StatusNotFound),
		statusCase("API: empty message -> 400", http.MethodPost, base+"/api/conversations/bench-empty/messages",
			map[string]any{"message": ""}, http.StatusBadRequest),
		statusCase("API: clear conversation", http.MethodDelete, base+"/api/conversations/bench-clear", nil, http.StatusNoContent),

		replyCase("Chat: full quote names a GBP price", base, fullQuoteMessage, func(res chatResult) string {
			if !strings.Contains(res.Reply, "£") {
				return "reply has no GBP price"
			}
			if len(res.ToolCalls) == 0 {
				return "no tool calls"
			}
			return ""
		}),
		replyCase("Policy: bad brand blocked", base, "JetLink is a scam", func(res chatResult) string {
			if res.Confidence != 1.0 || len(res.ToolCalls) != 0 {
				return fmt.Sprintf("confidence=%.2f tools=%v", res.Confidence, res.ToolCalls)
			}
			return ""
		}),

		statusCase("Tools: price_estimate", http.MethodPost, base+"/api/tools/price_estimate",
			map[string]any{"operator_id": "op_thames", "aircraft_type": "Gulfstream G550"}, http.StatusOK),
		statusCase("Tools: unknown tool -> 404", http.MethodPost, base+"/api/tools/book_flight", map[string]any{}, http.StatusNotFound),

		{
			Name: "Concurrency: same conversation keeps every turn",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentTurns(ctx, r, base)
			},
		},
		{
			Name: "Perf: chat throughput (distinct conversations)",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base)
			},
		},
	}
}

func pingPostgres(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.db.Ping(ctx); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func checkRedisIndex(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: StatusSkip, Note: "redis not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	n, err := r.redis.ZCard(ctx, "availability:bases").Result()
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if n == 0 {
		return Result{Status: StatusFail, Note: "no listings; run charter seed"}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("listings=%d", n)}
}

func applyMigration(ctx context.Context, r *Runner) Result {
	if !r.cfg.ApplyMigration {
		return Result{Status: StatusSkip, Note: "apply-migration=false"}
	}
	if r.db == nil {
		return Result{Status: StatusFail, Note: "db not configured"}
	}
	sql, err := os.ReadFile(r.cfg.MigrationPath)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	for _, s := range splitSQL(string(sql)) {
		if _, err := r.db.Exec(ctx, s); err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
	}
	return Result{Status: StatusPass}
}

func checkTables(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	tables, err := extractTables(r.cfg.MigrationPath)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	for _, t := range tables {
		var exists bool
		err := r.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
			t,
		).Scan(&exists)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		if !exists {
			return Result{Status: StatusFail, Note: "missing table: " + t}
		}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("tables=%d", len(tables))}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, time.Since(start), err
}

func statusCase(name, method, url string, body any, want int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			code, _, latency, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			if code != want {
				return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", code, want)}
			}
			return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", code)}
		},
	}
}

type chatResult struct {
	Reply      string   `json:"reply"`
	NewState   string   `json:"new_state"`
	ToolCalls  []string `json:"tool_calls"`
	Confidence float64  `json:"confidence"`
}

// replyCase sends message to a fresh conversation; check returns "" on success.
func replyCase(name, base, message string, check func(chatResult) string) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			url := fmt.Sprintf("%s/api/conversations/bench-%d/messages", base, time.Now().UnixNano())
			code, body, latency, err := r.do(ctx, http.MethodPost, url, map[string]any{"message": message})
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			if code != http.StatusOK {
				return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", code)}
			}
			var res chatResult
			if err := json.Unmarshal(body, &res); err != nil {
				return Result{Status: StatusFail, Latency: latency, Note: err.Error()}
			}
			if msg := check(res); msg != "" {
				return Result{Status: StatusFail, Latency: latency, Note: msg}
			}
			return Result{Status: StatusPass, Latency: latency, Note: "state=" + res.NewState}
		},
	}
}

// concurrentTurns fires Concurrency messages at one conversation and checks
// that the stored history holds every user message and reply.
func concurrentTurns(ctx context.Context, r *Runner, base string) Result {
	id := fmt.Sprintf("bench-conc-%d", time.Now().UnixNano())
	url := base + "/api/conversations/" + id
	var (
		wg   sync.WaitGroup
		fail atomic.Int64
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, _, _, err := r.do(ctx, http.MethodPost, url+"/messages", map[string]any{"message": fmt.Sprintf("message %d, what can you do", i)})
			if err != nil || code != http.StatusOK {
				fail.Add(1)
			}
		}(i)
	}
	wg.Wait()

	code, body, _, err := r.do(ctx, http.MethodGet, url, nil)
	if err != nil || code != http.StatusOK {
		return Result{Status: StatusFail, Note: fmt.Sprintf("read back status=%d err=%v", code, err)}
	}
	var rec struct {
		History []string `json:"history"`
	}
	if err := json.Unmarshal(body, &rec); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	want := 2 * (r.cfg.Concurrency - int(fail.Load()))
	if len(rec.History) != want {
		return Result{Status: StatusFail, Note: fmt.Sprintf("history=%d want=%d", len(rec.History), want)}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("turns=%d failed=%d", want/2, fail.Load())}
}

func perfLoad(ctx context.Context, r *Runner, base string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			url := fmt.Sprintf("%s/api/conversations/bench-perf-%d/messages", base, worker)
			for time.Now().Before(end) && ctx.Err() == nil {
				code, _, _, err := r.do(ctx, http.MethodPost, url, map[string]any{"message": fullQuoteMessage})
				if err != nil || code != http.StatusOK {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
