// Package remote — HTTP-клиент удалённого REST API маркетплейса (корзина и каталог).
package remote

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

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

const (
	cartPath     = "/api/cart"
	productsPath = "/api/products"

	defaultTimeout  = 10 * time.Second
	maxErrorBodyLen = 512
)

// Client вызывает удалённый API. Повторов нет: одна попытка на операцию.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Entry
}

// NewClient создаёт клиента. timeout<=0 заменяется значением по умолчанию.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = log.WithField("component", "remote-api")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type addRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type cartResponse struct {
	Items *[]domain.LineItem `json:"items"`
}

// Add вызывает POST /api/cart и возвращает корзину с сервера.
func (c *Client) Add(ctx context.Context, token, productID string, quantity int) ([]domain.LineItem, error) {
	return c.cartCall(ctx, "add", http.MethodPost, cartPath, token, addRequest{ProductID: productID, Quantity: quantity})
}

// Remove вызывает DELETE /api/cart/{productId}.
func (c *Client) Remove(ctx context.Context, token, productID string) ([]domain.LineItem, error) {
	return c.cartCall(ctx, "remove", http.MethodDelete, cartPath+"/"+url.PathEscape(productID), token, nil)
}

// Fetch вызывает GET /api/cart.
func (c *Client) Fetch(ctx context.Context, token string) ([]domain.LineItem, error) {
	return c.cartCall(ctx, "fetch", http.MethodGet, cartPath, token, nil)
}

// Products загружает каталог товаров для локального снимка.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, "products", http.MethodGet, productsPath, "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Ping проверяет сетевую доступность API: любой HTTP-ответ считается успехом.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+productsPath, nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	_ = resp.Body.Close()
	return nil
}

func (c *Client) cartCall(ctx context.Context, op, method, path, token string, body any) ([]domain.LineItem, error) {
	if token == "" {
		return nil, domain.ErrSessionRequired
	}
	var resp cartResponse
	if err := c.do(ctx, op, method, path, token, body, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return nil, fmt.Errorf("%w: %s: response has no items field", domain.ErrRemoteUnavailable, op)
	}
	return *resp.Items, nil
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrRemoteUnavailable, op, err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(log.Fields{
		"op":          op,
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("remote api call finished")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return &domain.RemoteStatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %v", domain.ErrRemoteUnavailable, op, err)
	}
	return nil
}

var _ domain.CartAPI = (*Client)(nil)
