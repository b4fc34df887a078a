package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ambava-store/internal/cache"
	"github.com/ambava-store/internal/service"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type fakeTokenParser struct {
	userClaims  map[string]*service.UserJWTClaims
	staffClaims map[string]*service.StaffJWTClaims
	states      map[uint]*cache.UserAuthState
}

func (p *fakeTokenParser) ParseUserJWT(token string) (*service.UserJWTClaims, error) {
	claims, ok := p.userClaims[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return claims, nil
}

func (p *fakeTokenParser) ParseJWT(token string) (*service.StaffJWTClaims, error) {
	claims, ok := p.staffClaims[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return claims, nil
}

func (p *fakeTokenParser) ResolveAuthState(_ context.Context, userID uint) (*cache.UserAuthState, error) {
	state, ok := p.states[userID]
	if !ok {
		return nil, service.ErrNotFound
	}
	return state, nil
}

type fakeEnforcer struct {
	allowed map[string]bool
}

func (e fakeEnforcer) EnforceStaff(_ uint, obj, act string) (bool, error) {
	return e.allowed[act+" "+obj], nil
}

func newFakeTokenParser() *fakeTokenParser {
	return &fakeTokenParser{
		userClaims: map[string]*service.UserJWTClaims{
			"customer": {UserID: 1, TokenVersion: 2},
			"stale":    {UserID: 1, TokenVersion: 1},
			"disabled": {UserID: 2},
			"staff":    {UserID: 3},
		},
		staffClaims: map[string]*service.StaffJWTClaims{
			"staff":        {StaffID: 3, Username: "owner"},
			"not-staff":    {StaffID: 1, TokenVersion: 2},
			"staff-legacy": {StaffID: 3, TokenVersion: 9},
		},
		states: map[uint]*cache.UserAuthState{
			1: {UserID: 1, Status: "active", TokenVersion: 2},
			2: {UserID: 2, Status: "disabled"},
			3: {UserID: 3, Status: "active", IsStaff: true},
		},
	}
}

func performWithToken(r http.Handler, method, path, token string) (int, map[string]interface{}) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	var resp struct {
		StatusCode int                    `json:"status_code"`
		Data       map[string]interface{} `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.StatusCode, resp.Data
}

func TestUserJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware(newFakeTokenParser()))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "data": gin.H{"user_id": c.GetUint("user_id")}})
	})

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{name: "missing header", token: "", want: 401},
		{name: "unknown token", token: "garbage", want: 401},
		{name: "revoked version", token: "stale", want: 401},
		{name: "disabled account", token: "disabled", want: 401},
		{name: "staff token on customer route", token: "staff", want: 401},
		{name: "customer", token: "customer", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, data := performWithToken(r, http.MethodGet, "/me", tc.token)
			if code != tc.want {
				t.Fatalf("status_code want %d got %d", tc.want, code)
			}
			if tc.want == 0 && data["user_id"] != float64(1) {
				t.Fatalf("user_id want 1 got %v", data["user_id"])
			}
		})
	}
}

func TestOptionalUserAuthMiddlewareAllowsGuests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(OptionalUserAuthMiddleware(newFakeTokenParser()))
	r.GET("/wishlist", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "data": gin.H{"user_id": c.GetUint("user_id")}})
	})

	for token, want := range map[string]float64{"": 0, "garbage": 0, "customer": 1} {
		code, data := performWithToken(r, http.MethodGet, "/wishlist", token)
		if code != 0 {
			t.Fatalf("token %q: status_code want 0 got %d", token, code)
		}
		if data["user_id"] != want {
			t.Fatalf("token %q: user_id want %v got %v", token, want, data["user_id"])
		}
	}
}

func TestStaffAuthAndRBACMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parser := newFakeTokenParser()
	enforcer := fakeEnforcer{allowed: map[string]bool{"GET /api/v1/admin/orders": true}}
	r := gin.New()
	group := r.Group("/api/v1/admin", StaffJWTAuthMiddleware(parser, parser), StaffRBACMiddleware(enforcer))
	group.GET("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})
	group.PATCH("/orders/:id/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	if code, _ := performWithToken(r, http.MethodGet, "/api/v1/admin/orders", "staff"); code != 0 {
		t.Fatalf("allowed route: status_code want 0 got %d", code)
	}
	if code, _ := performWithToken(r, http.MethodPatch, "/api/v1/admin/orders/7/status", "staff"); code != 403 {
		t.Fatalf("denied route: status_code want 403 got %d", code)
	}
	if code, _ := performWithToken(r, http.MethodGet, "/api/v1/admin/orders", "not-staff"); code != 401 {
		t.Fatalf("customer account: status_code want 401 got %d", code)
	}
	if code, _ := performWithToken(r, http.MethodGet, "/api/v1/admin/orders", "staff-legacy"); code != 401 {
		t.Fatalf("revoked staff token: status_code want 401 got %d", code)
	}
	if code, _ := performWithToken(r, http.MethodGet, "/api/v1/admin/orders", ""); code != 401 {
		t.Fatalf("missing token: status_code want 401 got %d", code)
	}
}
