package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/felps-dev/i-revenue-api/internal/config"
	"github.com/felps-dev/i-revenue-api/internal/database"
	"github.com/felps-dev/i-revenue-api/internal/docs"
	"github.com/felps-dev/i-revenue-api/internal/middleware"
	"github.com/felps-dev/i-revenue-api/internal/repository"
	"github.com/felps-dev/i-revenue-api/internal/utils"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{
		Env:         "test",
		Port:        "0",
		ServiceName: "i-revenue-api",
		JWTSecret:   "test-secret",
		AccessTTL:   time.Hour,
		RefreshTTL:  24 * time.Hour,
		BcryptCost:  4, // keep hashing fast in tests
		CORSOrigins: []string{"http://localhost:5173"},
	}

	return New(Deps{
		Cfg:      cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Limiter:  middleware.NewRateLimiter(config.RateLimitConfig{Window: time.Minute, MaxRequests: 1000}),
		Sessions: docs.NewSessionStore(docs.DefaultSessionTTL),
		Users:    repository.NewUserRepo(db),
		Revenues: repository.NewRevenueRepo(db),
	})
}

type envelope struct {
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Path    string `json:"path"`
	} `json:"errors"`
}

func doJSON(t *testing.T, srv http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

// register creates a user and returns its id and access token.
func register(t *testing.T, srv http.Handler, name, email string) (id, token string) {
	t.Helper()

	rec, env := doJSON(t, srv, http.MethodPost, "/auth/register", "", map[string]any{
		"name": name, "email": email, "password": "senha123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	var data struct {
		User struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Token string `json:"token"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode register data: %v", err)
	}
	return data.User.ID, data.User.Token
}

func TestRegisterIssuesUsableToken(t *testing.T) {
	srv := newTestServer(t)

	id, token := register(t, srv, "Felps", "felps@example.com")
	if id == "" || token == "" {
		t.Fatal("register returned empty id or token")
	}

	claims, err := utils.Parse(token, "test-secret", utils.TokenTypeAccess)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != id || claims.Name != "Felps" {
		t.Errorf("claims = %+v, want id %q name Felps", claims, id)
	}

	// The token must open the protected group.
	rec, env := doJSON(t, srv, http.MethodGet, "/api/page", token, nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Errorf("GET /api/page with fresh token: status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterDuplicateConflict(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "Felps", "felps@example.com")

	rec, env := doJSON(t, srv, http.MethodPost, "/auth/register", "", map[string]any{
		"name": "Felps", "email": "felps@example.com", "password": "senha123",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if len(env.Errors) == 0 || env.Errors[0].Code != "user_already_exists" {
		t.Errorf("errors = %+v, want user_already_exists", env.Errors)
	}
}

func TestLoginIdenticalFailures(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "Felps", "felps@example.com")

	wrongPass, envA := doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "felps@example.com", "password": "errada!",
	})
	unknownEmail, envB := doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "ninguem@example.com", "password": "senha123",
	})

	if wrongPass.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d / %d, want 401 both", wrongPass.Code, unknownEmail.Code)
	}
	// Wrong password and unknown email must be indistinguishable.
	if wrongPass.Body.String() != unknownEmail.Body.String() {
		t.Errorf("bodies differ:\n%s\n%s", wrongPass.Body.String(), unknownEmail.Body.String())
	}
	if envA.Message != "Email e ou senha incorretos" || envB.Errors[0].Code != "invalid_credentials" {
		t.Errorf("envelope = %+v", envA)
	}
}

func TestLoginSuccessSetsRefreshCookie(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "Felps", "felps@example.com")

	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(map[string]any{"email": "felps@example.com", "password": "senha123"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("refresh_token cookie not set")
	}
	if cookie.Path != "/auth" || !cookie.HttpOnly {
		t.Errorf("cookie = %+v, want Path=/auth HttpOnly", cookie)
	}

	// The cookie must work on /auth/renew.
	renewReq := httptest.NewRequest(http.MethodPost, "/auth/renew", nil)
	renewReq.AddCookie(cookie)
	renewRec := httptest.NewRecorder()
	srv.ServeHTTP(renewRec, renewReq)
	if renewRec.Code != http.StatusOK {
		t.Errorf("renew with fresh cookie: status %d, body %s", renewRec.Code, renewRec.Body.String())
	}
}

func TestRenewRejectsMissingAndInvalidCookie(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doJSON(t, srv, http.MethodPost, "/auth/renew", "", nil)
	if rec.Code != http.StatusUnauthorized || env.Errors[0].Code != "missing_refresh_token" {
		t.Errorf("no cookie: status %d, errors %+v", rec.Code, env.Errors)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/renew", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "lixo"})
	badRec := httptest.NewRecorder()
	srv.ServeHTTP(badRec, req)

	var badEnv envelope
	if err := json.Unmarshal(badRec.Body.Bytes(), &badEnv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if badRec.Code != http.StatusUnauthorized || badEnv.Errors[0].Code != "invalid_refresh_token" {
		t.Errorf("garbage cookie: status %d, errors %+v", badRec.Code, badEnv.Errors)
	}
}

func TestRenewRejectsAccessToken(t *testing.T) {
	srv := newTestServer(t)
	_, token := register(t, srv, "Felps", "felps@example.com")

	// An access token in the refresh cookie must not renew.
	req := httptest.NewRequest(http.MethodPost, "/auth/renew", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: token})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRevenueLifecycle(t *testing.T) {
	srv := newTestServer(t)
	_, token := register(t, srv, "Felps", "felps@example.com")

	// Non-range create: max_revenue is dropped even when supplied.
	rec, env := doJSON(t, srv, http.MethodPost, "/api/revenues", token, map[string]any{
		"name":        "Salário",
		"type":        "clt",
		"min_revenue": 3000,
		"max_revenue": 9999,
		"cycle":       "monthly",
		"benefits":    []map[string]any{{"type": "VR", "value": 800}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID         string   `json:"id"`
		MaxRevenue *float64 `json:"max_revenue"`
		Benefits   []struct {
			ID        string `json:"id"`
			RevenueID string `json:"revenue_id"`
		} `json:"benefits"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode create data: %v", err)
	}
	if created.MaxRevenue != nil {
		t.Errorf("max_revenue = %v, want null for non-range record", *created.MaxRevenue)
	}
	if len(created.Benefits) != 1 || created.Benefits[0].RevenueID != created.ID {
		t.Errorf("benefits = %+v", created.Benefits)
	}

	// List shows the record with trimmed benefits.
	rec, env = doJSON(t, srv, http.MethodGet, "/api/revenues", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}
	if _, hasID := list[0]["benefits"].([]any)[0].(map[string]any)["id"]; hasID {
		t.Error("list benefits must omit the id column")
	}

	// Detail shape.
	rec, _ = doJSON(t, srv, http.MethodGet, "/api/revenues/"+created.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Update switches the record to a range.
	rec, env = doJSON(t, srv, http.MethodPut, "/api/revenues/"+created.ID, token, map[string]any{
		"name":           "Salário",
		"type":           "clt",
		"revenueAsRange": true,
		"min_revenue":    3000,
		"max_revenue":    4500,
		"cycle":          "monthly",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		MaxRevenue *float64 `json:"max_revenue"`
	}
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode update data: %v", err)
	}
	if updated.MaxRevenue == nil || *updated.MaxRevenue != 4500 {
		t.Errorf("max_revenue = %v, want 4500", updated.MaxRevenue)
	}

	// Delete, then the record is gone.
	rec, env = doJSON(t, srv, http.MethodDelete, "/api/revenues/"+created.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body.String())
	}
	var deleted struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &deleted); err != nil {
		t.Fatalf("decode delete data: %v", err)
	}
	if deleted.ID != created.ID {
		t.Errorf("delete returned id %q, want %q", deleted.ID, created.ID)
	}

	rec, env = doJSON(t, srv, http.MethodGet, "/api/revenues/"+created.ID, token, nil)
	if rec.Code != http.StatusNotFound || env.Errors[0].Code != "revenue_not_found" {
		t.Errorf("get after delete: status %d, errors %+v", rec.Code, env.Errors)
	}
}

func TestRevenueRangeValidation(t *testing.T) {
	srv := newTestServer(t)
	_, token := register(t, srv, "Felps", "felps@example.com")

	// Range without a max.
	rec, env := doJSON(t, srv, http.MethodPost, "/api/revenues", token, map[string]any{
		"name": "Faixa", "type": "pj", "revenueAsRange": true,
		"min_revenue": 1000, "cycle": "monthly",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing max: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if env.Errors[0].Path != "max_revenue" {
		t.Errorf("errors = %+v, want path max_revenue", env.Errors)
	}

	// Max below min.
	rec, env = doJSON(t, srv, http.MethodPost, "/api/revenues", token, map[string]any{
		"name": "Faixa", "type": "pj", "revenueAsRange": true,
		"min_revenue": 1000, "max_revenue": 500, "cycle": "monthly",
	})
	if rec.Code != http.StatusBadRequest || env.Errors[0].Code != "invalid_revenue_range" {
		t.Errorf("max < min: status %d, errors %+v", rec.Code, env.Errors)
	}

	// Unknown type fails tag validation with a field path.
	rec, env = doJSON(t, srv, http.MethodPost, "/api/revenues", token, map[string]any{
		"name": "x", "type": "aluguel", "min_revenue": 1, "cycle": "monthly",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad type: status = %d", rec.Code)
	}
	found := false
	for _, e := range env.Errors {
		if e.Path == "type" {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %+v, want a detail for field type", env.Errors)
	}
}

func TestRevenueListScopedToCaller(t *testing.T) {
	srv := newTestServer(t)
	_, tokenA := register(t, srv, "Alice", "alice@example.com")
	_, tokenB := register(t, srv, "Bruno", "bruno@example.com")

	rec, env := doJSON(t, srv, http.MethodPost, "/api/revenues", tokenA, map[string]any{
		"name": "Salário", "type": "clt", "min_revenue": 3000, "cycle": "monthly",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec, env = doJSON(t, srv, http.MethodGet, "/api/revenues", tokenB, nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(string(env.Data)) != "[]" {
		t.Errorf("other user's list = %s", env.Data)
	}

	rec, env = doJSON(t, srv, http.MethodGet, "/api/revenues/"+created.ID, tokenB, nil)
	if rec.Code != http.StatusNotFound || env.Errors[0].Code != "revenue_not_found" {
		t.Errorf("foreign get: status %d, errors %+v", rec.Code, env.Errors)
	}
}

func TestProtectedGroupRequiresBearer(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doJSON(t, srv, http.MethodGet, "/api/revenues", "", nil)
	if rec.Code != http.StatusUnauthorized || env.Errors[0].Code != "missing_token" {
		t.Errorf("no header: status %d, errors %+v", rec.Code, env.Errors)
	}

	rec, env = doJSON(t, srv, http.MethodGet, "/api/revenues", "nonsense", nil)
	if rec.Code != http.StatusUnauthorized || env.Errors[0].Code != "invalid_token" {
		t.Errorf("bad token: status %d, errors %+v", rec.Code, env.Errors)
	}
}

func TestDashboardPlaceholder(t *testing.T) {
	srv := newTestServer(t)
	_, token := register(t, srv, "Felps", "felps@example.com")

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		rec, env := doJSON(t, srv, method, "/api/dashboard", token, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s /api/dashboard status = %d", method, rec.Code)
		}
		if strings.TrimSpace(string(env.Data)) != "[]" {
			t.Errorf("%s /api/dashboard data = %s, want []", method, env.Data)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Message string `json:"message"`
		Uptime  string `json:"uptime"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Message != "Serviço disponível" || !strings.HasSuffix(data.Uptime, "s") {
		t.Errorf("data = %+v", data)
	}
}

func TestUnknownRouteEnvelope(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doJSON(t, srv, http.MethodGet, "/nada", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Success || env.Message != "Rota não encontrada" || env.Errors[0].Code != "not_found" {
		t.Errorf("envelope = %+v", env)
	}
}
