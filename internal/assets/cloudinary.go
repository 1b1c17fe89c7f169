// Package assets hosts card images on Cloudinary so the Graph API can
// fetch them by URL.
package assets

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ErrNotConfigured is returned when cloud credentials are missing.
var ErrNotConfigured = errors.New("asset host not configured")

// Uploader publishes images and returns their public URL.
type Uploader interface {
	UploadFile(ctx context.Context, path string) (string, error)
	UploadURL(ctx context.Context, src string) (string, error)
}

// Cloudinary performs signed uploads to one cloud.
type Cloudinary struct {
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	client    *http.Client
	now       func() time.Time
}

// NewCloudinary returns an uploader for cloudName. baseURL is the API root,
// normally https://api.cloudinary.com/v1_1.
func NewCloudinary(baseURL, cloudName, apiKey, apiSecret, folder string, timeout time.Duration) *Cloudinary {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Cloudinary{
		baseURL:   strings.TrimRight(baseURL, "/"),
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
		client:    &http.Client{Timeout: timeout},
		now:       time.Now,
	}
}

// Configured reports whether credentials are present.
func (c *Cloudinary) Configured() bool {
	return c.cloudName != "" && c.apiKey != "" && c.apiSecret != ""
}

// UploadFile uploads a local image.
func (c *Cloudinary) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return c.upload(ctx, filepath.Base(path), f)
}

// UploadURL downloads src and re-uploads it.
func (c *Cloudinary) UploadURL(ctx context.Context, src string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", src, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	return c.upload(ctx, filepath.Base(req.URL.Path), resp.Body)
}

// Sign computes the API signature over params: sorted key=value pairs
// joined with '&', followed by the secret, SHA-1 hex encoded.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

type uploadReply struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Cloudinary) upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
		"folder":    c.folder,
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	for k, v := range params {
		if v != "" {
			mw.WriteField(k, v)
		}
	}
	mw.WriteField("api_key", c.apiKey)
	mw.WriteField("signature", Sign(params, c.apiSecret))
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var reply uploadReply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return "", fmt.Errorf("cloudinary upload status %d: %s", resp.StatusCode, respBody)
	}
	if resp.StatusCode != http.StatusOK || reply.Error != nil {
		msg := string(respBody)
		if reply.Error != nil {
			msg = reply.Error.Message
		}
		return "", fmt.Errorf("cloudinary upload status %d: %s", resp.StatusCode, msg)
	}
	if reply.SecureURL != "" {
		return reply.SecureURL, nil
	}
	if reply.URL != "" {
		return reply.URL, nil
	}
	return "", errors.New("cloudinary upload: no url in response")
}
