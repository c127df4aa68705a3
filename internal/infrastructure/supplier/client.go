package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/dropship/backend/internal/domain/supplier"
)

// maxResponseBytes caps how much of a supplier response is read. Detail
// payloads with embedded HTML descriptions have been seen in the
// single-megabyte range.
const maxResponseBytes = 8 << 20

const headerAccessToken = "Access-Token"

// API paths of the supplier endpoints the client uses
const (
	pathProductList   = "/product/list"
	pathProductQuery  = "/product/query"
	pathStockByVid    = "/product/stock/queryByVid"
	pathFreight       = "/logistic/freightCalculate"
	pathReviews       = "/product/productComments"
	pathCreateOrder   = "/shopping/order/createOrder"
	pathTrackInfo     = "/logistic/getTrackInfo"
)

// Client talks to the supplier REST API. All calls pass through the
// shared interval limiter and attach the cached access token, so a
// single Client can be shared by the sync worker and on-demand lookups.
type Client struct {
	cfg     *Config
	http    *http.Client
	tokens  *TokenCache
	limiter *IntervalLimiter
	logger  *zap.Logger
}

var _ domain.Gateway = (*Client)(nil)

// NewClient creates a supplier API client from a validated config
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	return &Client{
		cfg:     cfg,
		http:    httpClient,
		tokens:  NewTokenCache(cfg, httpClient, logger),
		limiter: NewIntervalLimiter(cfg.MinCallInterval),
		logger:  logger,
	}, nil
}

// ---------------------------------------------------------------------------
// Gateway operations
// ---------------------------------------------------------------------------

// ListProducts fetches one page of the supplier catalog
func (c *Client) ListProducts(ctx context.Context, query domain.ListQuery) (*domain.ProductPage, error) {
	params := url.Values{}
	if query.PageNum > 0 {
		params.Set("pageNum", strconv.Itoa(query.PageNum))
	}
	if query.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(query.PageSize))
	}
	if query.CategoryID != "" {
		params.Set("categoryId", query.CategoryID)
	}
	if query.NameQuery != "" {
		params.Set("productNameEn", query.NameQuery)
	}
	if query.CountryCode != "" {
		params.Set("countryCode", query.CountryCode)
	}

	var wire wireProductList
	if err := c.get(ctx, pathProductList, params, &wire); err != nil {
		return nil, err
	}

	page := &domain.ProductPage{
		Items:    make([]domain.Product, 0, len(wire.List)),
		PageNum:  wire.PageNum,
		PageSize: wire.PageSize,
		Total:    wire.Total,
	}
	if page.PageNum == 0 {
		page.PageNum = query.PageNum
	}
	if page.PageSize == 0 {
		page.PageSize = query.PageSize
	}
	for i := range wire.List {
		page.Items = append(page.Items, toProduct(&wire.List[i]))
	}
	return page, nil
}

// GetProductDetail fetches the full product record for one catalog item
func (c *Client) GetProductDetail(ctx context.Context, pid string) (*domain.Product, error) {
	params := url.Values{}
	params.Set("pid", pid)

	var wire wireProduct
	if err := c.get(ctx, pathProductQuery, params, &wire); err != nil {
		return nil, err
	}
	if wire.PID == "" {
		return nil, fmt.Errorf("%w: pid %s", domain.ErrProductNotFound, pid)
	}
	product := toProduct(&wire)
	return &product, nil
}

// GetStock fetches per-warehouse stock levels for a variant
func (c *Client) GetStock(ctx context.Context, vid string) ([]domain.StockEntry, error) {
	params := url.Values{}
	params.Set("vid", vid)

	var wire []wireStockEntry
	if err := c.get(ctx, pathStockByVid, params, &wire); err != nil {
		return nil, err
	}
	entries := make([]domain.StockEntry, 0, len(wire))
	for _, w := range wire {
		entries = append(entries, domain.StockEntry{
			VID:         w.VID,
			CountryCode: w.CountryCode,
			Quantity:    w.StorageNum.Int(),
		})
	}
	return entries, nil
}

// CalculateFreight fetches shipping options for a prospective shipment
func (c *Client) CalculateFreight(ctx context.Context, req domain.FreightRequest) ([]domain.FreightOption, error) {
	products := make([]map[string]any, 0, len(req.Items))
	for _, item := range req.Items {
		products = append(products, map[string]any{
			"vid":      item.VID,
			"quantity": item.Quantity,
		})
	}
	body := map[string]any{
		"endCountryCode": req.EndCountryCode,
		"products":       products,
	}

	var wire []wireFreightOption
	if err := c.post(ctx, pathFreight, body, &wire); err != nil {
		return nil, err
	}
	options := make([]domain.FreightOption, 0, len(wire))
	for _, w := range wire {
		options = append(options, domain.FreightOption{
			LogisticName: w.LogisticName,
			Price:        parseDecimal(w.LogisticPrice.String()),
			Aging:        w.LogisticAging,
		})
	}
	return options, nil
}

// GetReviews fetches buyer reviews for a product
func (c *Client) GetReviews(ctx context.Context, pid string, pageNum, pageSize int) ([]domain.Review, error) {
	params := url.Values{}
	params.Set("pid", pid)
	if pageNum > 0 {
		params.Set("pageNum", strconv.Itoa(pageNum))
	}
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}

	var wire wireReviewList
	if err := c.get(ctx, pathReviews, params, &wire); err != nil {
		return nil, err
	}
	reviews := make([]domain.Review, 0, len(wire.List))
	for _, w := range wire.List {
		reviews = append(reviews, domain.Review{
			CommentID: w.CommentID,
			Comment:   w.Comment,
			Score:     w.Score.Int(),
			Images:    w.Images,
			CreatedAt: parseReviewDate(w.CommentDate),
		})
	}
	return reviews, nil
}

// CreateOrder submits a fulfillment order
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	products := make([]map[string]any, 0, len(req.Items))
	for _, item := range req.Items {
		products = append(products, map[string]any{
			"vid":      item.VID,
			"quantity": item.Quantity,
		})
	}
	body := map[string]any{
		"orderNumber":   req.OrderNumber,
		"shippingCountryCode": req.CountryCode,
		"shippingCustomerName": req.ReceiverName,
		"shippingPhone": req.ReceiverPhone,
		"shippingProvince": req.Province,
		"shippingCity":  req.City,
		"shippingAddress": req.Address,
		"shippingZip":   req.ZipCode,
		"logisticName":  req.LogisticName,
		"products":      products,
	}

	var wire wireOrderResult
	if err := c.post(ctx, pathCreateOrder, body, &wire); err != nil {
		return nil, err
	}
	return &domain.OrderResult{
		OrderID: wire.OrderID,
		Amount:  parseDecimal(wire.OrderAmount.String()),
	}, nil
}

// GetTracking fetches shipment tracking for a supplier order
func (c *Client) GetTracking(ctx context.Context, orderID string) (*domain.Tracking, error) {
	params := url.Values{}
	params.Set("orderId", orderID)

	var wire wireTracking
	if err := c.get(ctx, pathTrackInfo, params, &wire); err != nil {
		return nil, err
	}
	tracking := &domain.Tracking{
		TrackingNumber: wire.TrackingNumber,
		Carrier:        wire.Carrier,
		Status:         wire.Status,
		Events:         make([]domain.TrackingEvent, 0, len(wire.Events)),
	}
	for _, ev := range wire.Events {
		tracking.Events = append(tracking.Events, domain.TrackingEvent{
			Description: ev.Description,
			OccurredAt:  parseReviewDate(ev.Date),
		})
	}
	return tracking, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.cfg.APIBaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encoding request: %v", domain.ErrInvalidResponse, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do runs one supplier call: wait for a rate-limit slot, attach the
// access token, and unwrap the response envelope
func (c *Client) do(req *http.Request, out any) error {
	ctx := req.Context()
	if err := c.limiter.Acquire(ctx); err != nil {
		return err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set(headerAccessToken, token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", domain.ErrUnavailable, err)
	}

	c.logger.Debug("supplier api call",
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: http 429", domain.ErrRateLimited)
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: http %d", domain.ErrUnavailable, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if !env.ok() {
		apiErr := &domain.APIError{Code: env.Code, Message: env.Message}
		if apiErr.IsRateLimited() {
			c.logger.Warn("supplier throttled the call",
				zap.String("path", req.URL.Path),
				zap.Int("code", env.Code))
		}
		return apiErr
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decoding payload: %v", domain.ErrInvalidResponse, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Wire to domain conversion
// ---------------------------------------------------------------------------

func toProduct(w *wireProduct) domain.Product {
	p := domain.Product{
		PID:          w.PID,
		Name:         strings.TrimSpace(w.Name.String()),
		Price:        strings.TrimSpace(w.SellPrice.String()),
		WeightGrams:  w.Weight.Int(),
		CategoryName: w.CategoryName,
		Image:        w.Image,
		Images:       NormalizeImages(w.Image, w.ImageSet),
		Description:  StripMarketingImages(w.Description),
		SourceFrom:   w.SourceFrom.String(),
		DeliveryDays: deliveryDays(w.DeliveryTime.String()),
	}
	for _, v := range w.Variants {
		p.Variants = append(p.Variants, domain.Variant{
			VID:         v.VID,
			Name:        strings.TrimSpace(v.Name.String()),
			Price:       parseDecimal(v.SellPrice.String()),
			Image:       v.Image,
			WeightGrams: v.Weight.Int(),
			Stock:       v.Stock.Int(),
		})
	}
	return p
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// reviewDateFormats are the timestamp layouts seen on review and
// tracking records
var reviewDateFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

func parseReviewDate(s string) time.Time {
	for _, layout := range reviewDateFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
