package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

type UploadService struct {
	c *Client
}

// UploadResult is what /upload/ answers with.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Image forwards an image as the multipart field "file".
func (s *UploadService) Image(ctx context.Context, token, filename, contentType string, r io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out UploadResult
	req := request{
		method:      http.MethodPost,
		path:        "/upload/",
		token:       token,
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}
	if err := s.c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
