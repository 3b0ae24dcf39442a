// Package remote implements the HTTP client for the skill storage service.
// The service accepts an uploaded archive and answers with an opaque
// business code; presenting the code later returns the archive bytes. The
// endpoint paths are deployment specific and therefore configurable.
package remote

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultServer is used when no server address is configured
	DefaultServer = "http://localhost:8080"
	// DefaultUploadPath is the default upload endpoint path
	DefaultUploadPath = "/sync/upload"
	// DefaultDownloadPath is the default download endpoint path prefix
	DefaultDownloadPath = "/sync/download"

	uploadFieldName   = "file"
	uploadFileName    = "skills.zip"
	uploadContentType = "application/zip"
)

// Config holds the remote service endpoints
type Config struct {
	Server       string
	UploadPath   string
	DownloadPath string
}

// NewConfig returns a Config with default endpoints
func NewConfig() Config {
	return Config{
		Server:       DefaultServer,
		UploadPath:   DefaultUploadPath,
		DownloadPath: DefaultDownloadPath,
	}
}

// Client talks to the skill storage service
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a Client for the given endpoints. Empty config fields
// fall back to the defaults. No request timeout is set; commands run a
// single sequential request and rely on process termination for
// cancellation.
func NewClient(config Config) *Client {
	defaults := NewConfig()
	if config.Server == "" {
		config.Server = defaults.Server
	}
	if config.UploadPath == "" {
		config.UploadPath = defaults.UploadPath
	}
	if config.DownloadPath == "" {
		config.DownloadPath = defaults.DownloadPath
	}
	config.Server = strings.TrimRight(config.Server, "/")

	return &Client{
		config:     config,
		httpClient: &http.Client{},
	}
}

// uploadResponse is the success payload of the upload endpoint; the
// business code lives at body.code
type uploadResponse struct {
	Body struct {
		Code string `json:"code"`
	} `json:"body"`
}

// Upload submits the archive as a multipart request and returns the
// business code issued by the service
func (c *Client) Upload(ctx context.Context, archivePath string) (string, error) {
	content, err := os.ReadFile(archivePath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read archive %s", archivePath)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFieldName, uploadFileName))
	header.Set("Content-Type", uploadContentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", errors.Wrap(err, "failed to create multipart field")
	}
	if _, err := part.Write(content); err != nil {
		return "", errors.Wrap(err, "failed to write multipart field")
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finalize multipart body")
	}

	url := c.config.Server + c.config.UploadPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", errors.Wrap(err, "failed to create upload request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "upload request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return "", errors.Errorf("upload failed: HTTP %d - %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Wrap(err, "failed to parse upload response")
	}
	if result.Body.Code == "" {
		return "", errors.New("business code not found in upload response")
	}

	return result.Body.Code, nil
}

// Download fetches the archive identified by a business code, writes it to
// dest, and returns the sha256 hex digest of the received bytes. The digest
// is surfaced for user verification only; the protocol defines no
// server-declared value to compare against.
func (c *Client) Download(ctx context.Context, code, dest string) (string, error) {
	url := c.config.Server + c.config.DownloadPath + "/" + code
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create download request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "download request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return "", errors.Errorf("download failed: HTTP %d - %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read download response")
	}

	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write archive to %s", dest)
	}

	digest := sha256.Sum256(content)
	return hex.EncodeToString(digest[:]), nil
}
