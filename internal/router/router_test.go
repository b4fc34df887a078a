package router

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBuildStaffPermissionCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	noop := func(c *gin.Context) {}
	r := gin.New()
	r.POST("/api/v1/admin/auth/login", noop)
	r.GET("/api/v1/admin/orders", noop)
	r.PATCH("/api/v1/admin/orders/:id/status", noop)
	r.PATCH("/api/v1/admin/returns/:id", noop)
	r.GET("/api/v1/orders", noop)

	items := buildStaffPermissionCatalog(r)
	if len(items) != 3 {
		t.Fatalf("catalog size want 3 got %d: %+v", len(items), items)
	}
	if items[0].Module != "orders" || items[0].Permission != "GET:/admin/orders" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Permission != "PATCH:/admin/orders/:id/status" {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
	if items[2].Module != "returns" {
		t.Fatalf("unexpected third item: %+v", items[2])
	}
}

func TestDeriveStaffPermissionModule(t *testing.T) {
	cases := map[string]string{
		"":                   "system",
		"/admin/orders":      "orders",
		"/admin/authz/roles": "authz",
		"/admin":             "admin",
		"/orders/:id/cancel": "orders",
	}
	for object, want := range cases {
		if got := deriveStaffPermissionModule(object); got != want {
			t.Fatalf("module for %q want %s got %s", object, want, got)
		}
	}
}
