package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// StorageService mints short-lived signed upload URLs against the object
// storage. The returned key is what gets recorded as the profile imageKey.
type StorageService interface {
	CreateSignedUploadURL(ctx context.Context, filename, contentType string) (url, key string, err error)
}

type SupabaseStorageService struct {
	baseURL    string
	bucket     string
	serviceKey string
	httpClient *http.Client
}

func NewSupabaseStorageService(baseURL, bucket, serviceKey string) *SupabaseStorageService {
	return &SupabaseStorageService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		serviceKey: serviceKey,
		httpClient: http.DefaultClient,
	}
}

// CreateSignedUploadURL reserves an object key under users/ and asks the
// storage API for a one-shot signed PUT URL for it.
func (s *SupabaseStorageService) CreateSignedUploadURL(ctx context.Context, filename, contentType string) (string, string, error) {
	key := path.Join("users", uuid.NewString()+"-"+path.Base(filename))
	signURL := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", s.baseURL, s.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("build signed upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("create signed upload url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", "", fmt.Errorf("create signed upload url: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", "", fmt.Errorf("decode signed upload url response: %w", err)
	}
	if response.URL == "" {
		return "", "", fmt.Errorf("signed upload url missing from response")
	}

	return fmt.Sprintf("%s/storage/v1%s", s.baseURL, response.URL), key, nil
}

// SignedURLUploader performs the two-leg upload used by the registration
// step: request a signed URL, then PUT the raw bytes to it.
type SignedURLUploader struct {
	storage    StorageService
	httpClient *http.Client
}

func NewSignedURLUploader(storage StorageService) *SignedURLUploader {
	return &SignedURLUploader{
		storage:    storage,
		httpClient: http.DefaultClient,
	}
}

func (u *SignedURLUploader) Upload(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	uploadURL, key, err := u.storage.CreateSignedUploadURL(ctx, filename, contentType)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("read upload content: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("upload file: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return key, nil
}
