package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsDo(h http.Handler, method, path, origin string, preflight bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCORS_ScopedToPrefix(t *testing.T) {
	h := CORS(CORSConfig{PathPrefix: "/api/"})(okHandler())

	w := corsDo(h, http.MethodGet, "/cart", "https://example.com", false)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = corsDo(h, http.MethodGet, "/api/cart", "https://example.com", false)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS(CORSConfig{PathPrefix: "/api/", MaxAge: 600})(okHandler())

	w := corsDo(h, http.MethodOptions, "/api/cart/items/1", "https://example.com", true)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_AllowList(t *testing.T) {
	h := CORS(CORSConfig{
		PathPrefix:       "/api/",
		AllowOrigins:     []string{"https://Maftown.example"},
		AllowCredentials: true,
	})(okHandler())

	w := corsDo(h, http.MethodGet, "/api/cart", "https://maftown.example", false)
	assert.Equal(t, "https://Maftown.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = corsDo(h, http.MethodGet, "/api/cart", "https://evil.example", false)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = corsDo(h, http.MethodOptions, "/api/cart", "https://evil.example", true)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardWithCredentialsEchoes(t *testing.T) {
	h := CORS(CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true})(okHandler())

	w := corsDo(h, http.MethodGet, "/api/cart", "https://a.example", false)
	assert.Equal(t, "https://a.example", w.Header().Get("Access-Control-Allow-Origin"))
}
