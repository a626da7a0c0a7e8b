package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	catalogmodel "github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/domain/model"
	ordermodel "github.com/Rifaiiii04/ims-inventory-sub001/pkg/order/domain/model"
)

const defaultTimeout = 15 * time.Second

// envelope is the response wrapper both external APIs use.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// flexID accepts IDs that arrive as either JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type productDTO struct {
	ID       flexID       `json:"id"`
	Name     string       `json:"name"`
	Category string       `json:"category"`
	Variants []variantDTO `json:"variants"`
}

type variantDTO struct {
	ID              flexID           `json:"id"`
	Name            string           `json:"name"`
	UnitPrice       int64            `json:"unitPrice"`
	FinishedStock   int              `json:"finishedStock"`
	PredictedStock  *int             `json:"predictedStock"`
	IsDirectProduct bool             `json:"isDirectProduct"`
	Compositions    []compositionDTO `json:"compositions"`
}

type compositionDTO struct {
	IngredientID    flexID  `json:"ingredientId"`
	IngredientName  string  `json:"ingredientName"`
	IngredientStock float64 `json:"ingredientStock"`
	AmountPerUnit   float64 `json:"amountPerUnit"`
	IsPrimary       bool    `json:"isPrimary"`
}

// Client talks to the external catalog and order APIs. It implements the
// catalog reader's Fetcher and the order model's API.
type Client struct {
	httpClient *http.Client
	catalogURL string
	orderURL   string
}

func NewClient(catalogURL, orderURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		catalogURL: catalogURL,
		orderURL:   orderURL,
	}
}

func (c *Client) FetchCatalog(ctx context.Context) ([]catalogmodel.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.catalogURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build catalog request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch catalog")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("catalog API returned status %d", resp.StatusCode)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, errors.Wrap(err, "decode catalog response")
	}
	if !env.Success {
		return nil, errors.Errorf("catalog API: %s", env.Message)
	}
	var dtos []productDTO
	if err := json.Unmarshal(env.Data, &dtos); err != nil {
		return nil, errors.Wrap(err, "decode catalog payload")
	}
	products := make([]catalogmodel.Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, dto.toModel())
	}
	return products, nil
}

func (p productDTO) toModel() catalogmodel.Product {
	product := catalogmodel.Product{
		ID:       string(p.ID),
		Name:     p.Name,
		Category: p.Category,
		Variants: make([]catalogmodel.Variant, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		product.Variants = append(product.Variants, v.toModel())
	}
	return product
}

func (v variantDTO) toModel() catalogmodel.Variant {
	variant := catalogmodel.Variant{
		ID:             string(v.ID),
		Name:           v.Name,
		UnitPrice:      v.UnitPrice,
		FinishedStock:  v.FinishedStock,
		PredictedStock: catalogmodel.PredictedStockUnknown,
	}
	if variant.FinishedStock < 0 {
		variant.FinishedStock = 0
	}
	if v.PredictedStock != nil {
		variant.PredictedStock = *v.PredictedStock
	}
	for _, line := range v.Compositions {
		stock := line.IngredientStock
		if stock < 0 {
			stock = 0
		}
		variant.Compositions = append(variant.Compositions, catalogmodel.CompositionLine{
			IngredientID:    string(line.IngredientID),
			IngredientName:  line.IngredientName,
			IngredientStock: stock,
			AmountPerUnit:   line.AmountPerUnit,
			IsPrimary:       line.IsPrimary,
		})
	}
	switch {
	case v.IsDirectProduct || strings.HasPrefix(variant.ID, catalogmodel.DirectPrefix):
		variant.Kind = catalogmodel.DirectProduct
	case len(variant.Compositions) > 0:
		variant.Kind = catalogmodel.Composed
	default:
		variant.Kind = catalogmodel.FinishedGood
	}
	return variant
}

type orderRecordDTO struct {
	ID        flexID                 `json:"id"`
	Total     int64                  `json:"total"`
	Timestamp time.Time              `json:"timestamp"`
	Items     []ordermodel.OrderItem `json:"items"`
}

func (c *Client) Submit(ctx context.Context, orderReq ordermodel.OrderRequest) (*ordermodel.OrderRecord, error) {
	body, err := json.Marshal(orderReq)
	if err != nil {
		return nil, errors.Wrap(err, "encode order request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.orderURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "submit order")
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, errors.Wrap(err, "decode order response")
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		// The server message is surfaced verbatim for the cashier.
		if env.Message != "" {
			return nil, errors.New(env.Message)
		}
		return nil, errors.Errorf("order API returned status %d", resp.StatusCode)
	}
	var dto orderRecordDTO
	if err := json.Unmarshal(env.Data, &dto); err != nil {
		return nil, errors.Wrap(err, "decode order payload")
	}
	return &ordermodel.OrderRecord{
		ID:        string(dto.ID),
		Total:     dto.Total,
		Timestamp: dto.Timestamp,
		Items:     dto.Items,
	}, nil
}
