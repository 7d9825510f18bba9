package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"
)

// HTTPUploader posts images to an unsigned-upload endpoint that answers
// with {"secure_url": ...} or {"error": {"message": ...}}.
type HTTPUploader struct {
	Endpoint string
	Preset   string
	// DeleteEndpoint, when set, receives DELETE ?url=<image url>.
	DeleteEndpoint string
	Client         *http.Client
}

// NewHTTPUploader returns an uploader with a bounded client timeout.
func NewHTTPUploader(endpoint, preset, deleteEndpoint string) *HTTPUploader {
	return &HTTPUploader{
		Endpoint:       endpoint,
		Preset:         preset,
		DeleteEndpoint: deleteEndpoint,
		Client:         &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (u *HTTPUploader) Upload(ctx context.Context, img Image) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	name := img.Name
	if name == "" {
		name = "upload"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	if img.ContentType != "" {
		header.Set("Content-Type", img.ContentType)
	}
	part, err := w.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return "", err
	}
	if err := w.WriteField("upload_preset", u.Preset); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.Endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := u.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("image upload failed: status %d", resp.StatusCode)
	}
	if out.Error != nil {
		return "", errors.New(out.Error.Message)
	}
	if resp.StatusCode >= 300 || out.SecureURL == "" {
		return "", fmt.Errorf("image upload failed: status %d", resp.StatusCode)
	}
	return out.SecureURL, nil
}

// Delete removes a previously uploaded image. Without a DeleteEndpoint it
// does nothing.
func (u *HTTPUploader) Delete(ctx context.Context, imageURL string) error {
	if u.DeleteEndpoint == "" {
		return nil
	}
	target := u.DeleteEndpoint + "?url=" + url.QueryEscape(imageURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return err
	}
	resp, err := u.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("image delete failed: status %d", resp.StatusCode)
	}
	return nil
}

func (u *HTTPUploader) client() *http.Client {
	if u.Client != nil {
		return u.Client
	}
	return http.DefaultClient
}
