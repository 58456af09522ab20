// Package upstream реализует domain.OrderGateway поверх JSON HTTP API заказов.
package upstream

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

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/omd/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Client — HTTP-клиент API заказов. Токен авторизации читается из хранилища
// сессии на каждый запрос: после повторного логина новые запросы сразу
// уходят с новым токеном.
type Client struct {
	baseURL string
	http    *http.Client
	session domain.SessionStore
	logger  *log.Entry
}

var _ domain.OrderGateway = (*Client)(nil)

// ClientOption настраивает клиент при создании.
type ClientOption func(*Client)

// WithHTTPClient подменяет транспорт (таймауты, прокси, тесты).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithLogger задаёт логгер клиента.
func WithLogger(logger *log.Entry) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient создаёт клиент API заказов.
func NewClient(baseURL string, session domain.SessionStore, options ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: session,
		logger:  log.New().WithField("component", "upstream-client"),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// orderPayload — проводной формат заказа.
type orderPayload struct {
	Tag           string    `json:"tag"`
	CustomerName  string    `json:"customer_name"`
	TotalMinor    int64     `json:"total_minor"`
	CreatedAt     time.Time `json:"created_at"`
	TableName     string    `json:"table_name,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	OrderTypeName string    `json:"order_type_name,omitempty"`
	OrderTypeCode string    `json:"order_type_code,omitempty"`
	Status        string    `json:"status,omitempty"`
}

type ordersResponse struct {
	Orders     []orderPayload `json:"orders"`
	TotalItems int            `json:"total_items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// FetchPending возвращает общий список ожидающих заказов ресторана.
func (c *Client) FetchPending(ctx context.Context, branchID string) ([]domain.Order, error) {
	if branchID == "" {
		return nil, domain.ErrBranchRequired
	}

	endpoint := fmt.Sprintf("%s/api/v1/branches/%s/orders/pending", c.baseURL, url.PathEscape(branchID))
	var resp ordersResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return toDomainOrders(resp.Orders, domain.OrderKindPending), nil
}

// FetchBranchPage возвращает одну страницу филиальных заказов.
func (c *Client) FetchBranchPage(ctx context.Context, branchID string, page, pageSize int) (domain.BranchPage, error) {
	if branchID == "" {
		return domain.BranchPage{}, domain.ErrBranchRequired
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	endpoint := fmt.Sprintf("%s/api/v1/branches/%s/orders?%s", c.baseURL, url.PathEscape(branchID), query.Encode())

	var resp ordersResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return domain.BranchPage{}, err
	}
	return domain.BranchPage{
		Items:      toDomainOrders(resp.Orders, domain.OrderKindBranch),
		TotalItems: resp.TotalItems,
	}, nil
}

// Confirm подтверждает заказ.
func (c *Client) Confirm(ctx context.Context, orderTag string) error {
	return c.orderAction(ctx, orderTag, "confirm", nil)
}

// Reject отклоняет заказ с причиной.
func (c *Client) Reject(ctx context.Context, orderTag, reason string) error {
	return c.orderAction(ctx, orderTag, "reject", map[string]string{"reason": reason})
}

// Cancel отменяет заказ.
func (c *Client) Cancel(ctx context.Context, orderTag string) error {
	return c.orderAction(ctx, orderTag, "cancel", nil)
}

// UpdateStatus переводит заказ в новый статус.
func (c *Client) UpdateStatus(ctx context.Context, orderTag string, status domain.OrderStatus) error {
	return c.orderAction(ctx, orderTag, "status", map[string]string{"status": string(status)})
}

func (c *Client) orderAction(ctx context.Context, orderTag, action string, body any) error {
	if orderTag == "" {
		return domain.ErrOrderTagRequired
	}
	endpoint := fmt.Sprintf("%s/api/v1/orders/%s/%s", c.baseURL, url.PathEscape(orderTag), action)
	return c.doJSON(ctx, http.MethodPost, endpoint, body, nil)
}

// doJSON выполняет запрос с bearer-токеном и декодирует JSON-ответ в out.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, err := c.session.Get(domain.SessionKeyToken); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("endpoint", endpoint).Debug("request failed")
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return c.decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	var payload errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("upstream returned %d: %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("upstream returned %d", resp.StatusCode)
}

func toDomainOrders(payloads []orderPayload, kind domain.OrderKind) []domain.Order {
	out := make([]domain.Order, 0, len(payloads))
	for _, p := range payloads {
		order := domain.Order{
			Kind:          kind,
			Tag:           p.Tag,
			CustomerName:  p.CustomerName,
			TotalMinor:    p.TotalMinor,
			CreatedAt:     p.CreatedAt,
			TableName:     p.TableName,
			Notes:         p.Notes,
			OrderTypeName: p.OrderTypeName,
			OrderTypeCode: p.OrderTypeCode,
		}
		if kind == domain.OrderKindBranch {
			order.Status = domain.OrderStatus(p.Status)
		}
		out = append(out, order)
	}
	return out
}
