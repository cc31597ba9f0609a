package soapbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c, err := NewClient(Options{BaseURL: serverURL, Org: "acme", Project: "widget"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func asAPIError(t *testing.T, err error) *APIError {
	t.Helper()
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v (%T), want *APIError", err, err)
	}
	return apiErr
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" {
		t.Fatalf("scheme = %q, want https", u.Scheme)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("feedback.example.com")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "feedback.example.com" {
		t.Fatalf("url = %q, want https://feedback.example.com", u.String())
	}
}

func TestClient_ListWishesEncodesQueryAndReshapesPagination(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotPath string
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotPath = r.URL.Path
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{"id":"w1","title":"Dark mode","vote_count":12,"has_voted":true,"vote_id":"v9"}],
			"total": 37, "page": 2, "per_page": 10, "total_pages": 4
		}`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	page, err := c.ListWishes(testContext(t), WishQuery{
		Statuses:    []string{StatusOpen, StatusPlanned},
		CategoryID:  "cat-3",
		Search:      " dark ",
		Sort:        SortVotes,
		Order:       OrderDesc,
		Page:        2,
		PerPage:     10,
		Fingerprint: "fp-abc",
	})
	if err != nil {
		t.Fatalf("ListWishes returned error: %v", err)
	}

	if gotPath != "/api/v1/projects/acme/widget/wishes" {
		t.Fatalf("path = %q, want project-scoped wishes path", gotPath)
	}
	if gotQuery.Get("status") != "open,planned" ||
		gotQuery.Get("category_id") != "cat-3" ||
		gotQuery.Get("search") != "dark" ||
		gotQuery.Get("sort") != "votes" ||
		gotQuery.Get("order") != "desc" ||
		gotQuery.Get("page") != "2" ||
		gotQuery.Get("per_page") != "10" ||
		gotQuery.Get("fingerprint") != "fp-abc" {
		t.Fatalf("query = %v, want all params encoded", gotQuery)
	}
	if gotUserAgent == "" || !strings.HasPrefix(gotUserAgent, "holler/") {
		t.Fatalf("User-Agent = %q, want holler/*", gotUserAgent)
	}

	// Sibling pagination fields must survive the reshape untouched.
	if page.Total != 37 || page.Page != 2 || page.PerPage != 10 || page.TotalPages != 4 {
		t.Fatalf("page meta = %+v, want total=37 page=2 per_page=10 total_pages=4", page)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "w1" || !page.Items[0].HasVoted || page.Items[0].VoteID != "v9" {
		t.Fatalf("items = %#v, want one wish w1 with vote", page.Items)
	}
}

func TestClient_ListWishesOmitsEmptyQueryValues(t *testing.T) {
	t.Parallel()

	var gotRawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [], "total": 0, "page": 1, "per_page": 20, "total_pages": 1}`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	if _, err := c.ListWishes(testContext(t), WishQuery{}); err != nil {
		t.Fatalf("ListWishes returned error: %v", err)
	}
	if gotRawQuery != "" {
		t.Fatalf("raw query = %q, want empty (zero-value params omitted)", gotRawQuery)
	}
}

func TestClient_ListWishesDefaultsTotalPagesOnlyWhenAbsent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want int
	}{
		// total_pages genuinely absent: the endpoint is assumed single-page.
		{"absent", `{"data": [{"id":"w1"}], "total": 3, "page": 1, "per_page": 20}`, 1},
		// total_pages present: the value must survive, never be defaulted over.
		{"present", `{"data": [{"id":"w1"}], "total": 0, "page": 1, "per_page": 20, "total_pages": 7}`, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			c := newTestClient(t, server.URL)
			page, err := c.ListWishes(testContext(t), WishQuery{})
			if err != nil {
				t.Fatalf("ListWishes returned error: %v", err)
			}
			if page.TotalPages != tt.want {
				t.Fatalf("TotalPages = %d, want %d", page.TotalPages, tt.want)
			}
		})
	}
}

func TestClient_ListCommentsSynthesizesPagination(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/projects/acme/widget/wishes/w1/comments" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"c1","body":"first"},{"id":"c2","body":"second"}]`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	page, err := c.ListComments(testContext(t), "w1")
	if err != nil {
		t.Fatalf("ListComments returned error: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].ID != "c1" {
		t.Fatalf("items = %#v, want 2 comments", page.Items)
	}
	if page.Total != 2 || page.Page != 1 || page.TotalPages != 1 {
		t.Fatalf("page meta = %+v, want total=2 page=1 total_pages=1", page)
	}
}

func TestClient_EnvelopeAndBarePayloadsNormalize(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/wishes") && r.Method == http.MethodPost:
			// Pre-wrapped envelope.
			_, _ = w.Write([]byte(`{"success": true, "data": {"id":"w7","title":"Offline mode"}}`))
		case strings.HasSuffix(r.URL.Path, "/wishes/w7"):
			// Bare payload.
			_, _ = w.Write([]byte(`{"id":"w7","title":"Offline mode","vote_count":3}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)

	created, err := c.CreateWish(testContext(t), NewWish{Title: "Offline mode", Fingerprint: "fp"})
	if err != nil {
		t.Fatalf("CreateWish returned error: %v", err)
	}
	if created.ID != "w7" {
		t.Fatalf("created wish = %#v, want id w7 from envelope data", created)
	}

	fetched, err := c.GetWish(testContext(t), "w7", "fp")
	if err != nil {
		t.Fatalf("GetWish returned error: %v", err)
	}
	if fetched.ID != "w7" || fetched.VoteCount != 3 {
		t.Fatalf("fetched wish = %#v, want bare payload wrapped", fetched)
	}
}

func TestClient_EnvelopeFailureOn2xxBecomesError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "error": {"code": "DUPLICATE_VOTE", "message": "Already voted"}}`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	_, err := c.CreateVote(testContext(t), "w1", "fp")
	apiErr := asAPIError(t, err)
	if apiErr.Code != "DUPLICATE_VOTE" {
		t.Fatalf("code = %q, want DUPLICATE_VOTE", apiErr.Code)
	}
	if apiErr.Message != "Already voted" {
		t.Fatalf("message = %q, want Already voted", apiErr.Message)
	}
}

func TestClient_HTTPErrorParsesBodyMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/projects/acme/widget/wishes/w1/votes":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message": "Already voted"}`))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)

	_, err := c.CreateVote(testContext(t), "w1", "fp")
	apiErr := asAPIError(t, err)
	if apiErr.Code != "HTTP_409" || apiErr.Status != http.StatusConflict {
		t.Fatalf("error = %+v, want HTTP_409 status 409", apiErr)
	}
	if apiErr.Message != "Already voted" {
		t.Fatalf("message = %q, want server-supplied Already voted", apiErr.Message)
	}

	// Non-JSON error body falls back to the status text.
	_, err = c.GetWish(testContext(t), "other", "")
	apiErr = asAPIError(t, err)
	if apiErr.Code != "HTTP_500" {
		t.Fatalf("code = %q, want HTTP_500", apiErr.Code)
	}
	if apiErr.Message != "Internal Server Error" {
		t.Fatalf("message = %q, want status text fallback", apiErr.Message)
	}
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	c := newTestClient(t, serverURL)
	_, err := c.ListWishes(testContext(t), WishQuery{})
	apiErr := asAPIError(t, err)
	if apiErr.Code != CodeNetwork {
		t.Fatalf("code = %q, want %q", apiErr.Code, CodeNetwork)
	}
	if apiErr.Status != 0 {
		t.Fatalf("status = %d, want 0 for transport failure", apiErr.Status)
	}
}

func TestClient_ValidatesBeforeDispatch(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	t.Cleanup(server.Close)

	ctx := testContext(t)

	// Missing slugs fail every board-scoped call client-side.
	bare, err := NewClient(Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = bare.ListWishes(ctx, WishQuery{})
	apiErr := asAPIError(t, err)
	if apiErr.Code != "MISSING_SLUGS" {
		t.Fatalf("code = %q, want MISSING_SLUGS", apiErr.Code)
	}

	c := newTestClient(t, server.URL)

	cases := []struct {
		name string
		call func() error
	}{
		{"empty wish id", func() error { _, err := c.GetWish(ctx, "", ""); return err }},
		{"empty title", func() error { _, err := c.CreateWish(ctx, NewWish{Title: "  "}); return err }},
		{"empty fingerprint", func() error { _, err := c.CreateVote(ctx, "w1", ""); return err }},
		{"empty vote id", func() error { _, err := c.DeleteVote(ctx, ""); return err }},
		{"empty comment body", func() error { _, err := c.CreateComment(ctx, "w1", NewComment{}); return err }},
		{"bad email", func() error {
			_, err := c.CreateTicket(ctx, NewTicket{Email: "not-an-email", Message: "help"})
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := asAPIError(t, tc.call())
			if apiErr.Code != CodeValidation {
				t.Fatalf("code = %q, want %q", apiErr.Code, CodeValidation)
			}
		})
	}

	if n := requests.Load(); n != 0 {
		t.Fatalf("server saw %d requests, want 0 before validation passes", n)
	}
}

func TestClient_DeleteVoteToleratesEmptyBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	if _, err := c.DeleteVote(testContext(t), "v9"); err != nil {
		t.Fatalf("DeleteVote returned error: %v", err)
	}
}

func TestClient_UploadSendsMultipartAndNormalizes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("Content-Type = %q, want multipart/form-data", r.Header.Get("Content-Type"))
		}
		reader := multipart.NewReader(r.Body, params["boundary"])
		part, err := reader.NextPart()
		if err != nil {
			t.Errorf("reading multipart part: %v", err)
			return
		}
		if part.FormName() != "file" || part.FileName() != "crash.log" {
			t.Errorf("part = %q/%q, want file/crash.log", part.FormName(), part.FileName())
		}
		data, _ := io.ReadAll(part)
		if string(data) != "stack trace" {
			t.Errorf("part body = %q, want stack trace", data)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": "up1", "filename": "crash.log", "size": 11},
		})
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	upload, err := c.Upload(testContext(t), "crash.log", []byte("stack trace"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if upload.ID != "up1" || upload.Filename != "crash.log" {
		t.Fatalf("upload = %#v, want id up1", upload)
	}
}

func TestClient_UploadRejectsEmptyAndOversizedBeforeDispatch(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	ctx := testContext(t)

	_, err := c.Upload(ctx, "empty.txt", nil)
	apiErr := asAPIError(t, err)
	if apiErr.Code != CodeValidation {
		t.Fatalf("empty file code = %q, want %q", apiErr.Code, CodeValidation)
	}

	_, err = c.Upload(ctx, "huge.bin", make([]byte, MaxUploadBytes+1))
	apiErr = asAPIError(t, err)
	if apiErr.Code != CodeValidation {
		t.Fatalf("oversized file code = %q, want %q", apiErr.Code, CodeValidation)
	}

	if n := requests.Load(); n != 0 {
		t.Fatalf("server saw %d requests, want 0", n)
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{" padded@example.com ", true},
		{"", false},
		{"no-at-sign", false},
		{"@example.com", false},
		{"user@", false},
		{"two words@example.com", false},
	}
	for _, tt := range tests {
		if got := validEmail(tt.email); got != tt.want {
			t.Errorf("validEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}
