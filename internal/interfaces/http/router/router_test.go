package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func pong(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

func TestRouterMountsUnderAPIVersion(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("catalog", "/products").GET("", pong)
	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("catalog", "/products").GET("", pong)
	NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterMiddlewareOrder(t *testing.T) {
	engine := gin.New()
	var order []string

	routerMW := func(c *gin.Context) {
		order = append(order, "router")
		c.Next()
	}
	groupMW := func(c *gin.Context) {
		order = append(order, "group")
		c.Next()
	}

	group := NewDomainGroup("caisse", "/cart").
		Use(groupMW).
		GET("", func(c *gin.Context) {
			order = append(order, "handler")
			c.Status(http.StatusOK)
		})
	NewRouter(engine).Use(routerMW).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"router", "group", "handler"}, order)
}

func TestDomainGroupMethods(t *testing.T) {
	engine := gin.New()

	handled := map[string]bool{}
	record := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			handled[name] = true
			c.Status(http.StatusOK)
		}
	}

	group := NewDomainGroup("ordering", "/orders").
		GET("", record("list")).
		POST("", record("create")).
		PUT("/:id", record("update")).
		PATCH("/:id/cancel", record("cancel")).
		DELETE("/:id", record("delete"))

	assert.Equal(t, "ordering", group.Name())
	assert.Equal(t, "/orders", group.Prefix())

	NewRouter(engine).Register(group).Setup()

	id := "0d9a8f0e-3f2b-4a6c-9d1e-5b7c8a9f0e1d"
	requests := []struct {
		method string
		path   string
		name   string
	}{
		{http.MethodGet, "/api/v1/orders", "list"},
		{http.MethodPost, "/api/v1/orders", "create"},
		{http.MethodPut, "/api/v1/orders/" + id, "update"},
		{http.MethodPatch, "/api/v1/orders/" + id + "/cancel", "cancel"},
		{http.MethodDelete, "/api/v1/orders/" + id, "delete"},
	}
	for _, r := range requests {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(r.method, r.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, r.name)
		assert.True(t, handled[r.name], r.name)
	}
}
