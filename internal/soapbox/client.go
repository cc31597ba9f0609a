package soapbox

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
)

const (
	defaultBaseURL   = "https://api.soapbox.dev"
	defaultUserAgent = "holler/0.3"
	defaultTimeout   = 10 * time.Second
)

// Options configure a Client. Zero values fall back to defaults; Timeout is
// deliberately caller-configurable because this layer enforces no retry or
// deadline policy of its own.
type Options struct {
	BaseURL   string
	Org       string
	Project   string
	Timeout   time.Duration
	UserAgent string

	// HTTPClient overrides the constructed client entirely when set.
	HTTPClient *http.Client
}

// Client talks to the Soapbox HTTP API. All operations normalize transport
// failures, HTTP error statuses, envelope-wrapped payloads, and bare payloads
// into one (value, *APIError) contract; no operation panics or returns a raw
// transport error.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	org       string
	project   string
}

// NewClient builds a Client for the given service and project slugs.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: userAgent,
		org:       strings.TrimSpace(opts.Org),
		project:   strings.TrimSpace(opts.Project),
	}, nil
}

// WishQuery configures board list requests. Empty fields are omitted from the
// query string, never sent as empty values.
type WishQuery struct {
	Statuses    []string
	CategoryID  string
	Search      string
	Sort        string
	Order       string
	Page        int
	PerPage     int
	Fingerprint string
}

func (q WishQuery) values() url.Values {
	values := url.Values{}
	if len(q.Statuses) > 0 {
		values.Set("status", strings.Join(q.Statuses, ","))
	}
	if q.CategoryID != "" {
		values.Set("category_id", q.CategoryID)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		values.Set("search", search)
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}
	if q.Order != "" {
		values.Set("order", q.Order)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Fingerprint != "" {
		values.Set("fingerprint", q.Fingerprint)
	}
	return values
}

// ReleaseQuery configures changelog list requests.
type ReleaseQuery struct {
	Page    int
	PerPage int
}

func (q ReleaseQuery) values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return values
}

// ArticleQuery configures help-center list requests.
type ArticleQuery struct {
	Search     string
	CategoryID string
	Page       int
	PerPage    int
}

func (q ArticleQuery) values() url.Values {
	values := url.Values{}
	if search := strings.TrimSpace(q.Search); search != "" {
		values.Set("search", search)
	}
	if q.CategoryID != "" {
		values.Set("category_id", q.CategoryID)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return values
}

// ListWishes retrieves one page of the project board.
func (c *Client) ListWishes(ctx context.Context, q WishQuery) (Page[Wish], error) {
	path, apiErr := c.projectPath("wishes")
	if apiErr != nil {
		return Page[Wish]{}, apiErr
	}
	return fetchPage[Wish](ctx, c, path, q.values())
}

// GetWish retrieves a single wish. The fingerprint, when present, lets the
// server compute has_voted and vote_id for this identity.
func (c *Client) GetWish(ctx context.Context, id, fingerprint string) (Wish, error) {
	if id == "" {
		return Wish{}, validationError("wish id is required")
	}
	path, apiErr := c.projectPath("wishes", id)
	if apiErr != nil {
		return Wish{}, apiErr
	}
	values := url.Values{}
	if fingerprint != "" {
		values.Set("fingerprint", fingerprint)
	}
	return fetchJSON[Wish](ctx, c, http.MethodGet, path, values, nil)
}

// CreateWish submits a new wish to the board.
func (c *Client) CreateWish(ctx context.Context, wish NewWish) (Wish, error) {
	if strings.TrimSpace(wish.Title) == "" {
		return Wish{}, validationError("title is required")
	}
	path, apiErr := c.projectPath("wishes")
	if apiErr != nil {
		return Wish{}, apiErr
	}
	return fetchJSON[Wish](ctx, c, http.MethodPost, path, nil, wish)
}

// CreateVote records a vote for the fingerprint on the given wish. The server
// enforces at most one vote per (wish, fingerprint) pair; a duplicate is
// rejected with a conflict the caller surfaces as-is. Not retried here.
func (c *Client) CreateVote(ctx context.Context, wishID, fingerprint string) (Vote, error) {
	if wishID == "" {
		return Vote{}, validationError("wish id is required")
	}
	if fingerprint == "" {
		return Vote{}, validationError("fingerprint is required")
	}
	path, apiErr := c.projectPath("wishes", wishID, "votes")
	if apiErr != nil {
		return Vote{}, apiErr
	}
	payload := struct {
		Fingerprint string `json:"fingerprint"`
	}{Fingerprint: fingerprint}
	return fetchJSON[Vote](ctx, c, http.MethodPost, path, nil, payload)
}

// DeleteVote removes a previously created vote by its id. An empty 2xx body
// is treated as success.
func (c *Client) DeleteVote(ctx context.Context, voteID string) (Ack, error) {
	if voteID == "" {
		return Ack{}, validationError("vote id is required")
	}
	path, apiErr := c.projectPath("votes", voteID)
	if apiErr != nil {
		return Ack{}, apiErr
	}
	return fetchJSON[Ack](ctx, c, http.MethodDelete, path, nil, nil)
}

// ListComments retrieves every comment on a wish. The endpoint returns a bare
// array; pagination metadata is synthesized (total = length, single page).
func (c *Client) ListComments(ctx context.Context, wishID string) (Page[Comment], error) {
	if wishID == "" {
		return Page[Comment]{}, validationError("wish id is required")
	}
	path, apiErr := c.projectPath("wishes", wishID, "comments")
	if apiErr != nil {
		return Page[Comment]{}, apiErr
	}
	return fetchPage[Comment](ctx, c, path, nil)
}

// CreateComment submits a comment on a wish.
func (c *Client) CreateComment(ctx context.Context, wishID string, comment NewComment) (Comment, error) {
	if wishID == "" {
		return Comment{}, validationError("wish id is required")
	}
	if strings.TrimSpace(comment.Body) == "" {
		return Comment{}, validationError("comment body is required")
	}
	path, apiErr := c.projectPath("wishes", wishID, "comments")
	if apiErr != nil {
		return Comment{}, apiErr
	}
	return fetchJSON[Comment](ctx, c, http.MethodPost, path, nil, comment)
}

// ListReleases retrieves one page of the changelog.
func (c *Client) ListReleases(ctx context.Context, q ReleaseQuery) (Page[Release], error) {
	path, apiErr := c.projectPath("releases")
	if apiErr != nil {
		return Page[Release]{}, apiErr
	}
	return fetchPage[Release](ctx, c, path, q.values())
}

// ListArticles retrieves one page of help-center articles.
func (c *Client) ListArticles(ctx context.Context, q ArticleQuery) (Page[Article], error) {
	path, apiErr := c.projectPath("articles")
	if apiErr != nil {
		return Page[Article]{}, apiErr
	}
	return fetchPage[Article](ctx, c, path, q.values())
}

// GetArticle retrieves a single help-center article by slug.
func (c *Client) GetArticle(ctx context.Context, slug string) (Article, error) {
	if slug == "" {
		return Article{}, validationError("article slug is required")
	}
	path, apiErr := c.projectPath("articles", slug)
	if apiErr != nil {
		return Article{}, apiErr
	}
	return fetchJSON[Article](ctx, c, http.MethodGet, path, nil, nil)
}

// ListCategories retrieves the categories of the given kind ("board" or
// "help"). The endpoint returns a bare array.
func (c *Client) ListCategories(ctx context.Context, kind string) (Page[Category], error) {
	path, apiErr := c.projectPath("categories")
	if apiErr != nil {
		return Page[Category]{}, apiErr
	}
	values := url.Values{}
	if kind != "" {
		values.Set("kind", kind)
	}
	return fetchPage[Category](ctx, c, path, values)
}

// CreateTicket submits a support request.
func (c *Client) CreateTicket(ctx context.Context, ticket NewTicket) (Ticket, error) {
	if !validEmail(ticket.Email) {
		return Ticket{}, validationError("a valid email address is required")
	}
	if strings.TrimSpace(ticket.Message) == "" {
		return Ticket{}, validationError("message is required")
	}
	path, apiErr := c.projectPath("tickets")
	if apiErr != nil {
		return Ticket{}, apiErr
	}
	return fetchJSON[Ticket](ctx, c, http.MethodPost, path, nil, ticket)
}

// projectPath builds a board-scoped API path. Endpoints requiring
// organization/project context fail before dispatch when either slug is
// missing.
func (c *Client) projectPath(segments ...string) (string, *APIError) {
	if c.org == "" || c.project == "" {
		return "", &APIError{Code: "MISSING_SLUGS", Message: "organization and project slugs are required"}
	}
	parts := make([]string, 0, len(segments)+2)
	parts = append(parts, c.org, c.project)
	for _, seg := range segments {
		parts = append(parts, url.PathEscape(seg))
	}
	return "/api/v1/projects/" + strings.Join(parts, "/"), nil
}

// fetchJSON performs one request and decodes the normalized payload into T.
func fetchJSON[T any](ctx context.Context, c *Client, method, path string, query url.Values, payload any) (T, error) {
	var zero T
	req, apiErr := c.newJSONRequest(ctx, method, path, query, payload)
	if apiErr != nil {
		return zero, apiErr
	}
	raw, apiErr := c.roundTrip(req)
	if apiErr != nil {
		return zero, apiErr
	}
	value, apiErr := decodeValue[T](raw)
	if apiErr != nil {
		return zero, apiErr
	}
	return value, nil
}

// fetchPage performs one request and reshapes the payload into Page[T].
func fetchPage[T any](ctx context.Context, c *Client, path string, query url.Values) (Page[T], error) {
	req, apiErr := c.newJSONRequest(ctx, http.MethodGet, path, query, nil)
	if apiErr != nil {
		return Page[T]{}, apiErr
	}
	raw, apiErr := c.roundTrip(req)
	if apiErr != nil {
		return Page[T]{}, apiErr
	}
	page, apiErr := decodePage[T](raw)
	if apiErr != nil {
		return Page[T]{}, apiErr
	}
	return page, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, query url.Values, payload any) (*http.Request, *APIError) {
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, validationError(fmt.Sprintf("encode request body: %v", err))
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, validationError(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// roundTrip executes the request and normalizes the response: transport
// failure, non-2xx status, envelope-wrapped payload, or bare payload all
// collapse into (raw payload, *APIError).
func (c *Client) roundTrip(req *http.Request) (json.RawMessage, *APIError) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp.StatusCode, body)
	}
	return normalizeBody(body)
}

// envelope mirrors the pre-wrapped shape some endpoints return. Success is a
// pointer so a bare payload (no discriminator) can be told apart from an
// envelope. Error bodies reuse the same shape.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *envelopeError  `json:"error"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorFromResponse turns a non-2xx response into an APIError, preferring any
// code and message the body carries over the bare status.
func errorFromResponse(status int, body []byte) *APIError {
	message := http.StatusText(status)
	if message == "" {
		message = strconv.Itoa(status)
	}
	apiErr := &APIError{Code: httpCode(status), Status: status, Message: message}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return apiErr
	}
	if env.Message != "" {
		apiErr.Message = env.Message
	}
	if env.Error != nil {
		if env.Error.Code != "" {
			apiErr.Code = env.Error.Code
		}
		if env.Error.Message != "" {
			apiErr.Message = env.Error.Message
		}
	}
	return apiErr
}

// normalizeBody applies the dual-mode payload contract: a body carrying the
// success discriminator passes through (a success=false envelope on a 2xx
// becomes a failure with the server's code), anything else is treated as a
// bare payload and returned for the caller to decode.
func normalizeBody(body []byte) (json.RawMessage, *APIError) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err == nil && env.Success != nil {
		if !*env.Success {
			apiErr := &APIError{Code: "REQUEST_FAILED", Message: env.Message}
			if env.Error != nil {
				if env.Error.Code != "" {
					apiErr.Code = env.Error.Code
				}
				if env.Error.Message != "" {
					apiErr.Message = env.Error.Message
				}
			}
			return nil, apiErr
		}
		return env.Data, nil
	}
	return json.RawMessage(trimmed), nil
}

func decodeValue[T any](raw json.RawMessage) (T, *APIError) {
	var value T
	if len(raw) == 0 {
		return value, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, networkError(fmt.Errorf("decode response: %w", err))
	}
	return value, nil
}

// decodePage reshapes the two paginated wire forms into Page. A bare array
// synthesizes single-page metadata; the sibling-field form keeps every value
// it carries, defaulting total_pages to 1 only when the field is genuinely
// absent — endpoints that omit it are assumed single-page.
func decodePage[T any](raw json.RawMessage) (Page[T], *APIError) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Page[T]{Page: 1, TotalPages: 1}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, networkError(fmt.Errorf("decode response: %w", err))
		}
		return Page[T]{
			Items:      items,
			Total:      len(items),
			Page:       1,
			PerPage:    len(items),
			TotalPages: 1,
		}, nil
	}

	var wire struct {
		Data       []T  `json:"data"`
		Total      *int `json:"total"`
		Page       *int `json:"page"`
		PerPage    *int `json:"per_page"`
		TotalPages *int `json:"total_pages"`
	}
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return Page[T]{}, networkError(fmt.Errorf("decode response: %w", err))
	}

	page := Page[T]{
		Items:      wire.Data,
		Total:      len(wire.Data),
		Page:       1,
		PerPage:    len(wire.Data),
		TotalPages: 1,
	}
	if wire.Total != nil {
		page.Total = *wire.Total
	}
	if wire.Page != nil {
		page.Page = *wire.Page
	}
	if wire.PerPage != nil {
		page.PerPage = *wire.PerPage
	}
	if wire.TotalPages != nil {
		page.TotalPages = *wire.TotalPages
	}
	return page, nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
