package erpnext

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// UploadFile stores a file on the remote instance, optionally attaching it
// to a document.
func (c *Client) UploadFile(ctx context.Context, content []byte, filename, attachedToDoctype, attachedToName string, isPrivate bool) (map[string]any, error) {
	endpoint := "/api/method/upload_file"

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Method: http.MethodPost, Path: endpoint, Message: err.Error()}
	}
	if _, err := part.Write(content); err != nil {
		return nil, &Error{Kind: KindValidation, Method: http.MethodPost, Path: endpoint, Message: err.Error()}
	}
	private := "0"
	if isPrivate {
		private = "1"
	}
	_ = w.WriteField("is_private", private)
	if attachedToDoctype != "" {
		_ = w.WriteField("doctype", attachedToDoctype)
	}
	if attachedToName != "" {
		_ = w.WriteField("docname", attachedToName)
	}
	if err := w.Close(); err != nil {
		return nil, &Error{Kind: KindValidation, Method: http.MethodPost, Path: endpoint, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: http.MethodPost, Path: endpoint, Message: err.Error()}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	result, err := c.do(req, http.MethodPost, endpoint)
	if err != nil {
		return nil, err
	}
	return document(result["message"]), nil
}

// UploadFileFromURL fetches a file from an external URL and uploads it. The
// filename is inferred from the URL path when not given.
func (c *Client) UploadFileFromURL(ctx context.Context, fileURL, filename, attachedToDoctype, attachedToName string, isPrivate bool) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Method: http.MethodGet, Path: fileURL, Message: err.Error()}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: http.MethodGet, Path: fileURL, Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, &Error{
			Kind:    KindTransport,
			Status:  resp.StatusCode,
			Method:  http.MethodGet,
			Path:    fileURL,
			Message: "fetching source file failed",
		}
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: http.MethodGet, Path: fileURL, Message: err.Error()}
	}

	if filename == "" {
		if u, err := url.Parse(fileURL); err == nil {
			filename = path.Base(u.Path)
		}
		if filename == "" || filename == "." || filename == "/" {
			filename = "download"
		}
	}
	return c.UploadFile(ctx, content, filename, attachedToDoctype, attachedToName, isPrivate)
}

// ListFiles lists File records, optionally narrowed to one attachment
// target. isPrivate nil means both private and public files.
func (c *Client) ListFiles(ctx context.Context, attachedToDoctype, attachedToName string, isPrivate *bool, limit int) ([]map[string]any, error) {
	filters := map[string]any{}
	if attachedToDoctype != "" {
		filters["attached_to_doctype"] = attachedToDoctype
	}
	if attachedToName != "" {
		filters["attached_to_name"] = attachedToName
	}
	if isPrivate != nil {
		private := 0
		if *isPrivate {
			private = 1
		}
		filters["is_private"] = private
	}

	opts := ListOptions{
		Fields: []string{
			"name", "file_name", "file_url", "file_size",
			"is_private", "attached_to_doctype", "attached_to_name", "creation",
		},
		LimitPageLength: limit,
	}
	if len(filters) > 0 {
		opts.Filters = filters
	}
	return c.GetList(ctx, "File", opts)
}

// FileURL resolves a File record to an absolute download URL.
func (c *Client) FileURL(ctx context.Context, fileName string) (string, error) {
	target, _, err := c.fileTarget(ctx, fileName)
	return target, err
}

// DownloadFile returns a file's raw content and its original filename.
func (c *Client) DownloadFile(ctx context.Context, fileName string) ([]byte, string, error) {
	target, original, err := c.fileTarget(ctx, fileName)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", &Error{Kind: KindTransport, Method: http.MethodGet, Path: target, Message: err.Error()}
	}
	// Private files require the same credentials as the API.
	req.Header.Set("Authorization", c.authHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &Error{Kind: KindTransport, Method: http.MethodGet, Path: target, Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, "", &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Method:  http.MethodGet,
			Path:    target,
			Message: "downloading file failed",
		}
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Kind: KindTransport, Method: http.MethodGet, Path: target, Message: err.Error()}
	}
	return content, original, nil
}

// fileTarget looks up a File record and returns its absolute URL and
// original filename.
func (c *Client) fileTarget(ctx context.Context, fileName string) (string, string, error) {
	doc, err := c.GetDoc(ctx, "File", fileName, nil)
	if err != nil {
		return "", "", err
	}
	fileURL, _ := doc["file_url"].(string)
	if fileURL == "" {
		return "", "", &Error{
			Kind:    KindNotFound,
			Method:  http.MethodGet,
			Path:    resourcePath("File", fileName),
			Message: "file record has no file_url",
		}
	}
	original, _ := doc["file_name"].(string)
	if original == "" {
		original = fileName
	}
	if strings.HasPrefix(fileURL, "http://") || strings.HasPrefix(fileURL, "https://") {
		return fileURL, original, nil
	}
	return c.baseURL + fileURL, original, nil
}
