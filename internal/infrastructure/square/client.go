package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/posync/internal/application/catalog"
	"github.com/jhoicas/posync/internal/application/reconcile"
	"github.com/jhoicas/posync/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa los puertos.
var (
	_ reconcile.OrderFetcher = (*Client)(nil)
	_ catalog.Source         = (*Client)(nil)
)

const (
	DefaultBaseURL    = "https://connect.squareupsandbox.com"
	DefaultAPIVersion = "2023-06-08"

	// Square acepta hasta 1000 ids por consulta de conteos.
	countsBatchSize = 1000
)

// Client adaptador de la API REST de Square (órdenes, catálogo e inventario).
// Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
}

// NewClient construye el adaptador. Valores vacíos usan los de sandbox.
func NewClient(baseURL, apiVersion string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras del protocolo ─────────────────────────────────────────────────

type apiError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

type errorEnvelope struct {
	Errors []apiError `json:"errors"`
}

type orderResponse struct {
	Order *struct {
		ID         string `json:"id"`
		LocationID string `json:"location_id"`
		State      string `json:"state"`
		LineItems  []struct {
			Name          string `json:"name"`
			Quantity      string `json:"quantity"`
			VariationName string `json:"variation_name"`
			Modifiers     []struct {
				Name     string `json:"name"`
				Quantity string `json:"quantity"`
			} `json:"modifiers"`
		} `json:"line_items"`
	} `json:"order"`
}

type catalogListResponse struct {
	Objects []struct {
		ID       string `json:"id"`
		Type     string `json:"type"`
		ItemData *struct {
			Name       string `json:"name"`
			Variations []struct {
				ID string `json:"id"`
			} `json:"variations"`
		} `json:"item_data"`
	} `json:"objects"`
	Cursor string `json:"cursor"`
}

type countsRequest struct {
	CatalogObjectIDs []string `json:"catalog_object_ids"`
	States           []string `json:"states,omitempty"`
	Cursor           string   `json:"cursor,omitempty"`
}

type countsResponse struct {
	Counts []struct {
		CatalogObjectID string `json:"catalog_object_id"`
		State           string `json:"state"`
		Quantity        string `json:"quantity"`
	} `json:"counts"`
	Cursor string `json:"cursor"`
}

// ── Transporte ────────────────────────────────────────────────────────────────

// do envía la petición y decodifica la respuesta en out. Los errores HTTP incluyen el
// primer error reportado por Square cuando el cuerpo lo trae.
func (c *Client) do(ctx context.Context, accessToken, method, path string, in, out any) error {
	if accessToken == "" {
		return fmt.Errorf("square: token de acceso vacío")
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("square: serializar petición: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("square: crear HTTP request: %w", err)
	}
	req.Header.Set("Square-Version", c.apiVersion)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("square: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("square: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("square: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var env errorEnvelope
		if json.Unmarshal(raw, &env) == nil && len(env.Errors) > 0 {
			e := env.Errors[0]
			return fmt.Errorf("square: HTTP %d %s: %s", resp.StatusCode, e.Code, e.Detail)
		}
		return fmt.Errorf("square: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("square: decodificar respuesta: %w", err)
	}
	return nil
}

// ── Órdenes ───────────────────────────────────────────────────────────────────

// GetOrder obtiene el detalle completo de la orden con el token del negocio.
func (c *Client) GetOrder(ctx context.Context, accessToken, orderID string) (*entity.Order, error) {
	var body orderResponse
	if err := c.do(ctx, accessToken, http.MethodGet, "/v2/orders/"+url.PathEscape(orderID), nil, &body); err != nil {
		return nil, err
	}
	if body.Order == nil {
		return nil, fmt.Errorf("square: respuesta sin orden")
	}

	order := &entity.Order{
		ID:         body.Order.ID,
		LocationID: body.Order.LocationID,
		State:      body.Order.State,
		LineItems:  make([]entity.LineItem, 0, len(body.Order.LineItems)),
	}
	for _, li := range body.Order.LineItems {
		qty, err := parseQuantity(li.Quantity)
		if err != nil {
			return nil, fmt.Errorf("square: cantidad de %q: %w", li.Name, err)
		}
		item := entity.LineItem{
			Name:          li.Name,
			Quantity:      qty,
			VariationName: li.VariationName,
		}
		for _, m := range li.Modifiers {
			mq, err := parseQuantity(m.Quantity)
			if err != nil {
				return nil, fmt.Errorf("square: cantidad del modificador %q: %w", m.Name, err)
			}
			item.Modifiers = append(item.Modifiers, entity.LineItemModifier{Name: m.Name, Quantity: mq})
		}
		order.LineItems = append(order.LineItems, item)
	}
	return order, nil
}

// ── Catálogo e inventario ─────────────────────────────────────────────────────

// ListCatalogItems recorre todas las páginas del catálogo (tipo ITEM) y suma los conteos
// IN_STOCK de las variaciones de cada ítem.
func (c *Client) ListCatalogItems(ctx context.Context, accessToken string) ([]entity.CatalogItem, error) {
	var (
		items        []entity.CatalogItem
		variationsOf = make(map[string]int) // id de variación -> índice en items
		cursor       string
	)
	for {
		q := url.Values{"types": {"ITEM"}}
		if cursor != "" {
			q.Set("cursor", cursor)
		}
		var page catalogListResponse
		if err := c.do(ctx, accessToken, http.MethodGet, "/v2/catalog/list?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		for _, obj := range page.Objects {
			if obj.ItemData == nil {
				continue
			}
			items = append(items, entity.CatalogItem{ID: obj.ID, Name: obj.ItemData.Name})
			for _, v := range obj.ItemData.Variations {
				variationsOf[v.ID] = len(items) - 1
			}
		}
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	ids := make([]string, 0, len(variationsOf))
	for id := range variationsOf {
		ids = append(ids, id)
	}
	for start := 0; start < len(ids); start += countsBatchSize {
		end := min(start+countsBatchSize, len(ids))
		if err := c.addCounts(ctx, accessToken, ids[start:end], items, variationsOf); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (c *Client) addCounts(ctx context.Context, accessToken string, ids []string, items []entity.CatalogItem, variationsOf map[string]int) error {
	req := countsRequest{CatalogObjectIDs: ids, States: []string{"IN_STOCK"}}
	for {
		var page countsResponse
		if err := c.do(ctx, accessToken, http.MethodPost, "/v2/inventory/counts/batch-retrieve", req, &page); err != nil {
			return err
		}
		for _, cnt := range page.Counts {
			i, ok := variationsOf[cnt.CatalogObjectID]
			if !ok || (cnt.State != "" && cnt.State != "IN_STOCK") {
				continue
			}
			q, err := decimal.NewFromString(strings.TrimSpace(cnt.Quantity))
			if err != nil {
				return fmt.Errorf("square: conteo de %s: %w", cnt.CatalogObjectID, err)
			}
			items[i].QuantityInStock = items[i].QuantityInStock.Add(q)
		}
		if page.Cursor == "" {
			return nil
		}
		req.Cursor = page.Cursor
	}
}

// parseQuantity Square envía cantidades como texto decimal; vacío equivale a 1.
func parseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NewFromInt(1), nil
	}
	return decimal.NewFromString(s)
}
