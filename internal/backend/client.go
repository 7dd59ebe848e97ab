package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/neexbeast/destination-seeder/internal/destination"
)

// DefaultBaseURL is the API root of a locally running destination service.
const DefaultBaseURL = "http://localhost:8083/api/v1"

const (
	requestTimeout = 30 * time.Second
	uploadTimeout  = 60 * time.Second

	uploadPath       = "/media/upload/single"
	destinationsPath = "/destinations"
)

// MaxDownloadBytes caps the size of a downloaded source image. It matches the
// upload limit of the destination service.
const MaxDownloadBytes = 10 << 20

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Client talks to the target destination service and downloads source images.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	upload  *http.Client
}

// NewClient constructs a Client for the service rooted at baseURL. token is
// sent as a bearer token when non-empty.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: requestTimeout},
		upload:  &http.Client{Timeout: uploadTimeout},
	}
}

// Download fetches the bytes at rawURL.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", rawURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return nil, fmt.Errorf("GET %s returned status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	if len(body) > MaxDownloadBytes {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", rawURL, MaxDownloadBytes)
	}

	return body, nil
}

// UploadImage uploads data as a JPEG named filename into folder and returns
// the hosted URL.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte, folder string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("writing file part: %w", err)
	}
	if err := mw.WriteField("folder", folder); err != nil {
		return "", fmt.Errorf("writing folder field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart body: %w", err)
	}

	body, err := c.post(ctx, c.upload, c.baseURL+uploadPath, mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	return uploadedURL(body)
}

// CreateDestination submits rec and returns the id the service assigned.
func (c *Client) CreateDestination(ctx context.Context, rec destination.Record) (string, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshaling destination %s: %w", rec.Name, err)
	}

	body, err := c.post(ctx, c.client, c.baseURL+destinationsPath, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	return createdID(body)
}

// post sends body to endpoint and returns the response body of a 2xx reply.
func (c *Client) post(ctx context.Context, hc *http.Client, endpoint, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", endpoint, err)
	}
	if !success(resp.StatusCode) {
		return nil, fmt.Errorf("POST %s returned status %d: %s", endpoint, resp.StatusCode, truncate(respBody))
	}

	return respBody, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}

func truncate(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
