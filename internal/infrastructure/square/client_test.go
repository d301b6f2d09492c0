package square_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/posync/internal/infrastructure/square"
)

const orderJSON = `{
  "order": {
    "id": "o-123",
    "location_id": "L-1",
    "state": "COMPLETED",
    "line_items": [
      {
        "uid": "li-1",
        "name": "Grilled Cheese",
        "quantity": "2",
        "variation_name": "Regular",
        "modifiers": [{"uid": "m-1", "name": "Extra Cheese", "quantity": "1"}]
      },
      {"uid": "li-2", "name": "Latte", "quantity": "1.5"},
      {"uid": "li-3", "name": "Cookie"}
    ]
  }
}`

func TestGetOrder_ParseaLaOrden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/orders/o-123", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-01-18", r.Header.Get("Square-Version"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(orderJSON))
	}))
	defer srv.Close()

	c := square.NewClient(srv.URL+"/", "2024-01-18", time.Second)
	order, err := c.GetOrder(context.Background(), "tok-1", "o-123")
	require.NoError(t, err)

	assert.Equal(t, "o-123", order.ID)
	assert.Equal(t, "L-1", order.LocationID)
	assert.Equal(t, "COMPLETED", order.State)
	require.Len(t, order.LineItems, 3)

	gc := order.LineItems[0]
	assert.Equal(t, "Grilled Cheese", gc.Name)
	assert.Equal(t, "Regular", gc.VariationName)
	assert.True(t, decimal.NewFromInt(2).Equal(gc.Quantity))
	require.Len(t, gc.Modifiers, 1)
	assert.Equal(t, "Extra Cheese", gc.Modifiers[0].Name)

	assert.True(t, decimal.RequireFromString("1.5").Equal(order.LineItems[1].Quantity))
	assert.True(t, decimal.NewFromInt(1).Equal(order.LineItems[2].Quantity), "cantidad vacía equivale a 1")
}

func TestGetOrder_ErrorDeSquare(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"category":"INVALID_REQUEST_ERROR","code":"NOT_FOUND","detail":"Order not found"}]}`))
	}))
	defer srv.Close()

	_, err := square.NewClient(srv.URL, "", time.Second).GetOrder(context.Background(), "tok", "o-x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "NOT_FOUND")
}

func TestGetOrder_ErrorSinCuerpoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := square.NewClient(srv.URL, "", time.Second).GetOrder(context.Background(), "tok", "o-x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestGetOrder_CantidadInvalida(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"order":{"id":"o-1","line_items":[{"name":"Toast","quantity":"dos"}]}}`))
	}))
	defer srv.Close()

	_, err := square.NewClient(srv.URL, "", time.Second).GetOrder(context.Background(), "tok", "o-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Toast")
}

func TestGetOrder_RespuestaSinOrden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := square.NewClient(srv.URL, "", time.Second).GetOrder(context.Background(), "tok", "o-1")
	assert.Error(t, err)
}

func TestGetOrder_TokenVacio(t *testing.T) {
	_, err := square.NewClient("http://127.0.0.1:1", "", time.Second).GetOrder(context.Background(), "", "o-1")
	assert.Error(t, err)
}

func TestGetOrder_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := square.NewClient(srv.URL, "", 20*time.Millisecond)
	_, err := c.GetOrder(context.Background(), "tok", "o-1")
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestListCatalogItems_PaginaYSumaConteos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v2/catalog/list":
			assert.Equal(t, "ITEM", r.URL.Query().Get("types"))
			if r.URL.Query().Get("cursor") == "" {
				_, _ = w.Write([]byte(`{"objects":[{"id":"it-1","type":"ITEM","item_data":{"name":"Galleta","variations":[{"id":"v-1"},{"id":"v-2"}]}}],"cursor":"c-2"}`))
				return
			}
			_, _ = w.Write([]byte(`{"objects":[{"id":"it-2","type":"ITEM","item_data":{"name":"Muffin","variations":[{"id":"v-3"}]}}]}`))
		case "/v2/inventory/counts/batch-retrieve":
			assert.Equal(t, http.MethodPost, r.Method)
			var req struct {
				CatalogObjectIDs []string `json:"catalog_object_ids"`
				States           []string `json:"states"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.ElementsMatch(t, []string{"v-1", "v-2", "v-3"}, req.CatalogObjectIDs)
			assert.Equal(t, []string{"IN_STOCK"}, req.States)
			_, _ = w.Write([]byte(`{"counts":[
				{"catalog_object_id":"v-1","state":"IN_STOCK","quantity":"5"},
				{"catalog_object_id":"v-2","state":"IN_STOCK","quantity":"2.5"},
				{"catalog_object_id":"v-3","state":"IN_STOCK","quantity":"7"}
			]}`))
		default:
			t.Errorf("ruta inesperada %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	items, err := square.NewClient(srv.URL, "", time.Second).ListCatalogItems(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "it-1", items[0].ID)
	assert.Equal(t, "Galleta", items[0].Name)
	assert.True(t, decimal.RequireFromString("7.5").Equal(items[0].QuantityInStock))
	assert.Equal(t, "Muffin", items[1].Name)
	assert.True(t, decimal.NewFromInt(7).Equal(items[1].QuantityInStock))
}

func TestListCatalogItems_CatalogoVacio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/catalog/list", r.URL.Path, "sin variaciones no se piden conteos")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	items, err := square.NewClient(srv.URL, "", time.Second).ListCatalogItems(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListCatalogItems_ErrorDeSquare(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"category":"AUTHENTICATION_ERROR","code":"UNAUTHORIZED","detail":"bad token"}]}`))
	}))
	defer srv.Close()

	_, err := square.NewClient(srv.URL, "", time.Second).ListCatalogItems(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "UNAUTHORIZED")
}
