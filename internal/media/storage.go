// Package media wraps the external object-storage provider behind a small
// HTTP client.  The provider accepts signed multipart uploads and returns
// a durable HTTPS URL; resources are addressed by (publicId, resourceType)
// for later deletion.  No SDK is used: the provider API is two endpoints.
package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Failure modes surfaced to handlers.  Provider-side errors and missing
// URLs in an otherwise-OK response both count as an upload failure.
var (
	ErrUploadFailed = errors.New("upload failed")
	ErrDeleteFailed = errors.New("delete failed")
)

// Resource type categories understood by the provider.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
	ResourceRaw   = "raw"
)

// ResourceTypeFor classifies a file by extension the way the provider's
// "auto" mode would: images and videos get first-class handling, anything
// else (documents, consent-proof scans, archives) is stored raw.  Audio
// rides the video pipeline, which is how the provider treats it.
func ResourceTypeFor(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp", "bmp", "svg", "tif", "tiff", "heic":
		return ResourceImage
	case "mp4", "mov", "avi", "mkv", "webm", "mp3", "wav", "ogg", "m4a", "flac", "aac":
		return ResourceVideo
	default:
		return ResourceRaw
	}
}

// UploadResult is what handlers return to the frontend.
type UploadResult struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	ResourceType string `json:"resourceType"`
}

// Store is the provider client.  BaseURL defaults to the hosted API and
// is overridable for tests.
type Store struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
	Client    *http.Client
}

// NewStore builds a Store with a bounded HTTP client.  Uploads can be
// large, so the timeout is generous.
func NewStore(cloudName, apiKey, apiSecret string) *Store {
	return &Store{
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   "https://api.mediavault.io/v1",
		Client:    &http.Client{Timeout: 5 * time.Minute},
	}
}

// sign produces the request signature: SHA-1 over the sorted key=value
// pairs joined by '&' with the API secret appended, hex encoded.
func (s *Store) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + s.APISecret))
	return hex.EncodeToString(sum[:])
}

// Upload streams the buffer to the provider under the given folder and
// returns the durable URL.  The public id is generated here so that a
// retried upload never collides with a previous partial one.
func (s *Store) Upload(ctx context.Context, buf []byte, originalFilename, folder string) (UploadResult, error) {
	resourceType := ResourceTypeFor(originalFilename)
	publicID := folder + "/" + uuid.NewString()
	ts := strconv.FormatInt(time.Now().Unix(), 10)

	params := map[string]string{
		"public_id": publicID,
		"timestamp": ts,
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range params {
		if err := w.WriteField(k, v); err != nil {
			return UploadResult{}, err
		}
	}
	if err := w.WriteField("api_key", s.APIKey); err != nil {
		return UploadResult{}, err
	}
	if err := w.WriteField("signature", s.sign(params)); err != nil {
		return UploadResult{}, err
	}
	part, err := w.CreateFormFile("file", originalFilename)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := part.Write(buf); err != nil {
		return UploadResult{}, err
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, err
	}

	url := fmt.Sprintf("%s/%s/%s/upload", s.BaseURL, s.CloudName, resourceType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.Client.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return UploadResult{}, fmt.Errorf("%w: provider status %d: %s", ErrUploadFailed, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		PublicID  string `json:"public_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	secure := out.SecureURL
	if secure == "" {
		secure = out.URL
	}
	if secure == "" {
		return UploadResult{}, ErrUploadFailed
	}
	if out.PublicID != "" {
		publicID = out.PublicID
	}
	return UploadResult{URL: secure, PublicID: publicID, ResourceType: resourceType}, nil
}

// Delete removes a previously stored object.  The provider answers with
// {"result":"ok"} on success; anything else is a delete failure.
func (s *Store) Delete(ctx context.Context, publicID, resourceType string) error {
	if resourceType == "" {
		resourceType = ResourceRaw
	}
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": ts,
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range params {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := w.WriteField("api_key", s.APIKey); err != nil {
		return err
	}
	if err := w.WriteField("signature", s.sign(params)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/%s/destroy", s.BaseURL, s.CloudName, resourceType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: provider status %d", ErrDeleteFailed, resp.StatusCode)
	}
	var out struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	if out.Result != "ok" {
		return fmt.Errorf("%w: provider result %q", ErrDeleteFailed, out.Result)
	}
	return nil
}
