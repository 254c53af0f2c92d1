package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/pairhouse/internal/catalog"
	"github.com/dukerupert/pairhouse/internal/config"
	"github.com/dukerupert/pairhouse/internal/database"
	"github.com/dukerupert/pairhouse/internal/email"
	"github.com/dukerupert/pairhouse/internal/middleware"
)

type capturedEmail struct {
	To      string `json:"To"`
	Subject string `json:"Subject"`
}

type postmarkStub struct {
	mu   sync.Mutex
	sent []capturedEmail
}

func (p *postmarkStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var e capturedEmail
	json.NewDecoder(r.Body).Decode(&e)
	p.mu.Lock()
	p.sent = append(p.sent, e)
	p.mu.Unlock()
	w.Write([]byte(`{"MessageID":"stub"}`))
}

func (p *postmarkStub) emails() []capturedEmail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]capturedEmail(nil), p.sent...)
}

func setupTestServer(t *testing.T) (http.Handler, *postmarkStub) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stub := &postmarkStub{}
	pm := httptest.NewServer(stub)
	t.Cleanup(pm.Close)

	kp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"docs":[{"id":361,"name":"Fight Club","year":1999,"poster":{"url":"https://img.example.com/fc.jpg"}}]}`))
	}))
	t.Cleanup(kp.Close)

	cfg := &config.Config{
		Env:            "development",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		LoginRateLimit: 100,
	}
	emailClient := email.NewClient("token", "noreply@example.com", "https://pairhouse.test", email.WithAPIURL(pm.URL))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	movieCatalog := catalog.NewClient("kp-key", catalog.WithAPIURL(kp.URL))
	return New(db, cfg, emailClient, movieCatalog, logger).Router(), stub
}

func doBearer(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func issueToken(t *testing.T, h http.Handler, cookie *http.Cookie) string {
	t.Helper()
	rec := do(h, "POST", "/api/token", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("token: %d", rec.Code)
	}
	var body struct {
		Token string `json:"token"`
	}
	json.NewDecoder(rec.Body).Decode(&body)
	return body.Token
}

func do(h http.Handler, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, h http.Handler, emailAddr string) *http.Cookie {
	t.Helper()
	rec := do(h, "POST", "/register", `{"email":"`+emailAddr+`","password":"long enough pw"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d: %s", emailAddr, rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatalf("register %s: no session cookie", emailAddr)
	return nil
}

func countTasks(t *testing.T, h http.Handler, cookie *http.Cookie) int {
	t.Helper()
	rec := do(h, "GET", "/api/tasks", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("list tasks: status %d", rec.Code)
	}
	var tasks []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&tasks); err != nil {
		t.Fatalf("decode tasks: %v", err)
	}
	return len(tasks)
}

func TestPartnershipSharesHouseholdData(t *testing.T) {
	h, stub := setupTestServer(t)
	alice := register(t, h, "alice@example.com")
	bob := register(t, h, "bob@example.com")

	if rec := do(h, "PATCH", "/api/profile", `{"full_name":"Alice"}`, alice); rec.Code != http.StatusOK {
		t.Fatalf("update profile: %d", rec.Code)
	}
	if rec := do(h, "POST", "/api/tasks", `{"text":"plan trip"}`, alice); rec.Code != http.StatusCreated {
		t.Fatalf("create task: %d", rec.Code)
	}
	if n := countTasks(t, h, bob); n != 0 {
		t.Fatalf("bob sees %d tasks before partnering, want 0", n)
	}

	rec := do(h, "POST", "/api/partnership/invite", `{"email":"bob@example.com"}`, alice)
	if rec.Code != http.StatusCreated {
		t.Fatalf("invite: %d %s", rec.Code, rec.Body.String())
	}
	var p struct {
		ID string `json:"id"`
	}
	json.NewDecoder(rec.Body).Decode(&p)

	emails := stub.emails()
	if len(emails) != 1 || emails[0].To != "bob@example.com" || !strings.HasPrefix(emails[0].Subject, "Alice ") {
		t.Errorf("invite emails = %+v", emails)
	}

	if n := countTasks(t, h, bob); n != 0 {
		t.Fatalf("bob sees %d tasks while pending, want 0", n)
	}

	rec = do(h, "POST", "/api/partnership/"+p.ID+"/respond", `{"accept":true}`, bob)
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: %d %s", rec.Code, rec.Body.String())
	}
	if n := countTasks(t, h, bob); n != 1 {
		t.Fatalf("bob sees %d tasks after accepting, want 1", n)
	}

	rec = do(h, "GET", "/api/profile/partner", "", bob)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"Alice"`) {
		t.Errorf("partner profile: %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(h, "DELETE", "/api/partnership/"+p.ID, "", bob); rec.Code != http.StatusNoContent {
		t.Fatalf("dissolve: %d", rec.Code)
	}
	if n := countTasks(t, h, bob); n != 0 {
		t.Fatalf("bob sees %d tasks after dissolving, want 0", n)
	}
	if n := countTasks(t, h, alice); n != 1 {
		t.Fatalf("alice sees %d tasks after dissolving, want 1", n)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	h, _ := setupTestServer(t)

	for _, path := range []string{"/api/tasks", "/api/partnership", "/api/dashboard", "/api/me"} {
		rec := do(h, "GET", path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestBearerToken(t *testing.T) {
	h, _ := setupTestServer(t)
	alice := register(t, h, "alice@example.com")

	rec := do(h, "POST", "/api/token", "", alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("token: %d", rec.Code)
	}
	var body struct {
		Token string `json:"token"`
	}
	json.NewDecoder(rec.Body).Decode(&body)

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Errorf("me via bearer: %d %s", rec.Code, rec.Body.String())
	}
}

func TestBearerRevokedByPasswordChange(t *testing.T) {
	h, _ := setupTestServer(t)
	alice := register(t, h, "alice@example.com")
	token := issueToken(t, h, alice)

	rec := do(h, "POST", "/api/password", `{"current_password":"long enough pw","new_password":"another long pw"}`, alice)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("change password: %d %s", rec.Code, rec.Body.String())
	}
	if rec := doBearer(h, "GET", "/api/me", "", token); rec.Code != http.StatusUnauthorized {
		t.Errorf("old bearer after password change: %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var fresh *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			fresh = c
		}
	}
	if fresh == nil {
		t.Fatal("no session cookie after password change")
	}
	newToken := issueToken(t, h, fresh)
	if rec := doBearer(h, "GET", "/api/me", "", newToken); rec.Code != http.StatusOK {
		t.Errorf("new bearer: %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestBearerRevokedByAccountDeletion(t *testing.T) {
	h, _ := setupTestServer(t)
	alice := register(t, h, "alice@example.com")
	token := issueToken(t, h, alice)

	if rec := doBearer(h, "DELETE", "/api/me", "", token); rec.Code != http.StatusNoContent {
		t.Fatalf("delete account: %d", rec.Code)
	}
	for _, req := range []struct{ method, path, body string }{
		{"GET", "/api/tasks", ""},
		{"POST", "/api/tasks", `{"text":"ghost"}`},
		{"GET", "/api/partnership", ""},
	} {
		if rec := doBearer(h, req.method, req.path, req.body, token); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s after deletion: %d, want %d", req.method, req.path, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestAccountDeletionReleasesPartner(t *testing.T) {
	h, _ := setupTestServer(t)
	alice := register(t, h, "alice@example.com")
	bob := register(t, h, "bob@example.com")

	rec := do(h, "POST", "/api/partnership/invite", `{"email":"bob@example.com"}`, alice)
	var p struct {
		ID string `json:"id"`
	}
	json.NewDecoder(rec.Body).Decode(&p)
	if rec := do(h, "POST", "/api/partnership/"+p.ID+"/respond", `{"accept":true}`, bob); rec.Code != http.StatusOK {
		t.Fatalf("accept: %d", rec.Code)
	}
	do(h, "POST", "/api/tasks", `{"text":"bob's task"}`, bob)

	if rec := do(h, "DELETE", "/api/me", "", bob); rec.Code != http.StatusNoContent {
		t.Fatalf("delete account: %d", rec.Code)
	}

	rec = do(h, "GET", "/api/partnership", "", alice)
	if !strings.Contains(rec.Body.String(), `"state":"none"`) {
		t.Errorf("alice status after partner deletion: %s", rec.Body.String())
	}
	if n := countTasks(t, h, alice); n != 0 {
		t.Errorf("alice sees %d tasks, want 0", n)
	}
	register(t, h, "carol@example.com")
	if rec := do(h, "POST", "/api/partnership/invite", `{"email":"carol@example.com"}`, alice); rec.Code != http.StatusCreated {
		t.Errorf("alice invites again: status %d, want %d", rec.Code, http.StatusCreated)
	}
}

func TestMovieSearchAndAddedBy(t *testing.T) {
	h, _ := setupTestServer(t)
	alice := register(t, h, "alice@example.com")
	do(h, "PATCH", "/api/profile", `{"full_name":"Alice"}`, alice)

	rec := do(h, "GET", "/api/movies/search?q=fight", "", alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: %d %s", rec.Code, rec.Body.String())
	}
	var hits []catalog.Movie
	json.NewDecoder(rec.Body).Decode(&hits)
	if len(hits) != 1 || hits[0].KinopoiskID != "361" {
		t.Fatalf("hits = %+v", hits)
	}

	body, _ := json.Marshal(hits[0])
	if rec := do(h, "POST", "/api/movies", string(body), alice); rec.Code != http.StatusCreated {
		t.Fatalf("add from search: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(h, "GET", "/api/movies", "", alice)
	out := rec.Body.String()
	for _, want := range []string{`"kinopoisk_id":"361"`, `"added_by":{"full_name":"Alice"`} {
		if !strings.Contains(out, want) {
			t.Errorf("movies missing %s: %s", want, out)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := setupTestServer(t)

	rec := do(h, "GET", "/health", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("health: %d %s", rec.Code, rec.Body.String())
	}

	alice := register(t, h, "alice@example.com")
	countTasks(t, h, alice)

	rec = do(h, "GET", "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	out := rec.Body.String()
	for _, want := range []string{
		`pattern="GET /api/tasks"`,
		`pattern="POST /register"`,
		"pairhouse_websocket_clients 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestLoginRateLimited(t *testing.T) {
	h, _ := setupTestServer(t)

	var last int
	for i := 0; i < 101; i++ {
		last = do(h, "POST", "/login", `{"email":"x@example.com","password":"whatever1"}`, nil).Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("status after limit = %d, want %d", last, http.StatusTooManyRequests)
	}
}
