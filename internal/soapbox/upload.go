package soapbox

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
)

// MaxUploadBytes is the client-side size ceiling for a single attachment.
// Zero-byte and oversized files are rejected before any request is dispatched.
const MaxUploadBytes = 10 << 20 // 10 MiB

// Upload stores a file attachment and returns its server-side descriptor. The
// request body is multipart form data rather than JSON; the response follows
// the same normalization rules as every other operation.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (Upload, error) {
	if filename == "" {
		return Upload{}, validationError("filename is required")
	}
	if len(data) == 0 {
		return Upload{}, validationError("file is empty")
	}
	if len(data) > MaxUploadBytes {
		return Upload{}, validationError(fmt.Sprintf("file exceeds the %d MiB upload limit", MaxUploadBytes>>20))
	}
	path, apiErr := c.projectPath("uploads")
	if apiErr != nil {
		return Upload{}, apiErr
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return Upload{}, validationError(fmt.Sprintf("build upload body: %v", err))
	}
	if _, err := part.Write(data); err != nil {
		return Upload{}, validationError(fmt.Sprintf("build upload body: %v", err))
	}
	if err := writer.Close(); err != nil {
		return Upload{}, validationError(fmt.Sprintf("build upload body: %v", err))
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), &buf)
	if err != nil {
		return Upload{}, validationError(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	raw, apiErr := c.roundTrip(req)
	if apiErr != nil {
		return Upload{}, apiErr
	}
	upload, apiErr := decodeValue[Upload](raw)
	if apiErr != nil {
		return Upload{}, apiErr
	}
	return upload, nil
}
