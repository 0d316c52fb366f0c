package rest

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	eludris "github.com/eludris-community/eludris-go"
)

// attachmentsBucket is the bucket the attachment-specialized helpers target.
const attachmentsBucket = "attachments"

// fileRoute returns the rate-limit route for an Effis bucket. Each bucket
// carries its own quota.
func fileRoute(bucket string) string {
	return RouteFiles + ":" + bucket
}

// UploadFile uploads a file to an Effis bucket as multipart form data with a
// file part and a spoiler flag.
func (c *Client) UploadFile(ctx context.Context, bucket, name string, content io.Reader, spoiler bool) (*eludris.FileData, error) {
	// The multipart body is materialized up front so a throttled upload can
	// be replayed verbatim by the dispatch loop.
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := form.WriteField("spoiler", strconv.FormatBool(spoiler)); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	var data eludris.FileData
	err = c.doJSON(ctx, request{
		host:        hostEffis,
		route:       fileRoute(bucket),
		method:      http.MethodPost,
		path:        "/" + url.PathEscape(bucket),
		body:        buf.Bytes(),
		contentType: form.FormDataContentType(),
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// UploadAttachment uploads to the attachments bucket.
func (c *Client) UploadAttachment(ctx context.Context, name string, content io.Reader, spoiler bool) (*eludris.FileData, error) {
	return c.UploadFile(ctx, attachmentsBucket, name, content, spoiler)
}

// DownloadFile fetches a file's bytes from an Effis bucket.
func (c *Client) DownloadFile(ctx context.Context, bucket string, id uint64) ([]byte, error) {
	return c.doBytes(ctx, request{
		host:   hostEffis,
		route:  fileRoute(bucket),
		method: http.MethodGet,
		path:   "/" + url.PathEscape(bucket) + "/" + strconv.FormatUint(id, 10),
	})
}

// DownloadAttachment fetches an attachment's bytes.
func (c *Client) DownloadAttachment(ctx context.Context, id uint64) ([]byte, error) {
	return c.DownloadFile(ctx, attachmentsBucket, id)
}

// FileData fetches a file's metadata without its content.
func (c *Client) FileData(ctx context.Context, bucket string, id uint64) (*eludris.FileData, error) {
	var data eludris.FileData
	err := c.doJSON(ctx, request{
		host:   hostEffis,
		route:  fileRoute(bucket),
		method: http.MethodGet,
		path:   "/" + url.PathEscape(bucket) + "/" + strconv.FormatUint(id, 10) + "/data",
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// AttachmentData fetches an attachment's metadata.
func (c *Client) AttachmentData(ctx context.Context, id uint64) (*eludris.FileData, error) {
	return c.FileData(ctx, attachmentsBucket, id)
}

// DownloadStatic fetches a named static asset.
func (c *Client) DownloadStatic(ctx context.Context, name string) ([]byte, error) {
	return c.doBytes(ctx, request{
		host:   hostEffis,
		route:  RouteStatic,
		method: http.MethodGet,
		path:   "/static/" + url.PathEscape(name),
	})
}
