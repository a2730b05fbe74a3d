package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lukman83/storefront/internal/httputil"
	"github.com/lukman83/storefront/internal/models"
	"github.com/lukman83/storefront/internal/query"
)

// Client talks to the remote catalog REST API.
type Client struct {
	http       *http.Client
	baseURL    string
	maxRetries int
	log        zerolog.Logger
}

type Option func(*Client)

// WithMaxRetries enables retrying transport errors and 5xx answers.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(httpClient *http.Client, baseURL string, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = httputil.NewHTTPClient(nil, 0)
	}
	c := &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch executes one listing request built by the query package.
func (c *Client) Fetch(ctx context.Context, req query.Request) (*models.ProductPage, error) {
	ReportProgress(ctx, fmt.Sprintf("Fetching %s...", req.PathAndQuery()))

	var page models.ProductPage
	op := req.Kind.String() + " products"
	if err := c.do(ctx, op, http.MethodGet, req.PathAndQuery(), nil, &page); err != nil {
		return nil, err
	}
	if page.Products == nil {
		page.Products = []models.Product{}
	}
	return &page, nil
}

// Categories returns the category taxonomy.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	ReportProgress(ctx, "Fetching categories...")

	var cats []models.Category
	if err := c.do(ctx, "list categories", http.MethodGet, "/products/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// Product returns one product with its reviews.
func (c *Client) Product(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, "get product", http.MethodGet, productPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct adds a product. The demo catalog echoes it back with an id
// but does not persist it.
func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, "create product", http.MethodPost, "/products/add", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int, patch models.ProductPatch) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, "update product", http.MethodPut, productPath(id), patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, "delete product", http.MethodDelete, productPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	var res models.LoginResult
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", creds, &res); err != nil {
		return nil, err
	}
	if res.SessionToken() == "" {
		return nil, fmt.Errorf("login: response carried no token")
	}
	return &res, nil
}

func productPath(id int) string {
	return "/products/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, op, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+target, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		httputil.SetHeaders(req, httputil.JSONBodyHeaders())
	} else {
		httputil.SetHeaders(req, httputil.JSONHeaders())
	}

	resp, err := httputil.Do(c.http, req, c.maxRetries)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := httputil.ReadBody(resp)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(op, resp.StatusCode, respBody)
		c.log.Debug().Str("op", op).Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("catalog rejected request")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
