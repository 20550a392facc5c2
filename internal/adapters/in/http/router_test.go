package httpin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpin "toko/internal/adapters/in/http"
	"toko/internal/adapters/out/memory"
	"toko/internal/application/query"
	"toko/internal/application/usecase"
	userdom "toko/internal/domain/user"
)

// stubVerifier treats the bearer token itself as the uid.
type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	if idToken == "" {
		return nil, errors.New("empty token")
	}
	return &fbauth.Token{UID: idToken}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	products := memory.NewProductRepository()
	require.NoError(t, products.Seed(memory.DemoCatalog()...))
	carts := memory.NewCartRepository()
	users := memory.NewUserRepository()
	require.NoError(t, users.Save(context.Background(), userdom.Identity{
		UID: "boss", Email: "boss@example.com", Role: userdom.RoleAdmin,
	}))

	catalog := usecase.NewCatalogUsecase(products)
	stock := usecase.NewStockUsecase(products)

	srv := httptest.NewServer(httpin.NewRouter(httpin.RouterDeps{
		CatalogUC:  catalog,
		CartUC:     usecase.NewCartUsecase(carts, catalog, stock),
		CheckoutUC: usecase.NewCheckoutUsecase(carts, catalog, stock, nil),
		AdminUC:    usecase.NewAdminUsecase(products),
		CartSync:   query.NewSynchronizer(carts),
		Verifier:   stubVerifier{},
		UserRepo:   users,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCatalogIsPublic(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/shop/products")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]any
	decode(t, resp, &list)
	assert.Len(t, list, 6)

	resp2, err := http.Get(srv.URL + "/shop/products/1")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var p map[string]any
	decode(t, resp2, &p)
	assert.Equal(t, "Jam Tangan Mewah", p["name"])

	resp3, err := http.Get(srv.URL + "/shop/products/nope")
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp3.StatusCode)
}

func TestCartRequiresBearerToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/shop/me/cart")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCartFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	item := map[string]any{"productId": "1", "color": "Hitam", "qty": 2}
	resp := doJSON(t, http.MethodPost, srv.URL+"/shop/me/cart/items", "u1", item)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		Items []map[string]any `json:"items"`
		Count int              `json:"count"`
		Total int              `json:"total"`
	}
	decode(t, resp, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, 398000, view.Total)

	// out-of-stock add is a conflict
	tooMany := map[string]any{"productId": "1", "color": "Coklat", "qty": 99}
	resp = doJSON(t, http.MethodPost, srv.URL+"/shop/me/cart/items", "u1", tooMany)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// another user's cart stays empty
	resp = doJSON(t, http.MethodGet, srv.URL+"/shop/me/cart", "u2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &view)
	assert.Equal(t, 0, view.Count)

	// checkout settles the first user's cart
	order := map[string]any{"address": "Jl. Merdeka 17, Jakarta", "paymentMethod": "gopay"}
	resp = doJSON(t, http.MethodPost, srv.URL+"/shop/me/checkout", "u1", order)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res map[string]any
	decode(t, resp, &res)
	assert.Equal(t, "settled", res["status"])
	assert.EqualValues(t, 398000+10000, res["total"])

	resp = doJSON(t, http.MethodGet, srv.URL+"/shop/me/cart", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &view)
	assert.Equal(t, 0, view.Count)
}

func TestAdminRoleEnforcedOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	newProduct := map[string]any{
		"name":     "Dompet Kulit",
		"price":    89000,
		"images":   []string{"/assets/dompet.jpg"},
		"category": "tas",
		"variations": []map[string]any{
			{"color": "Coklat", "stock": 20},
		},
	}

	// plain user: authenticated but not authorized
	resp := doJSON(t, http.MethodPost, srv.URL+"/admin/products", "u1", newProduct)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// admin
	resp = doJSON(t, http.MethodPost, srv.URL+"/admin/products", "boss", newProduct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]any
	decode(t, resp, &created)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/admin/products/"+id, "boss", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProfileBootstrapOnFirstSignIn(t *testing.T) {
	srv := newTestServer(t)

	// first authenticated request creates users/{uid} with role=user,
	// so the admin surface must reject it
	resp := doJSON(t, http.MethodGet, srv.URL+"/shop/me/cart", "newcomer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/admin/products/1", "newcomer", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/shop/products", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}
