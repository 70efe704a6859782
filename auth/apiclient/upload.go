package apiclient

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"sort"
)

// Upload describes one multipart file upload.
type Upload struct {
	// Field is the multipart field name the file is sent under.
	// Defaults to "file".
	Field string

	// FileName is the client-side file name reported to the server.
	FileName string

	// Content is the full file content. It is buffered up front so the
	// request can be resent after a transient network failure.
	Content []byte

	// Fields are extra plain form values sent alongside the file.
	Fields map[string]string
}

// Upload POSTs a multipart form. Retry semantics are identical to Post;
// only the content boundary and the timeout envelope differ.
func (c *Client) Upload(ctx context.Context, path string, up Upload, opts ...RequestOption) (*Response, error) {
	if up.Field == "" {
		up.Field = "file"
	}

	body, contentType, err := encodeMultipart(up)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, body, contentType, true, opts)
}

func encodeMultipart(up Upload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(up.Fields))
	for k := range up.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, up.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	fw, err := w.CreateFormFile(up.Field, up.FileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(up.Content); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
