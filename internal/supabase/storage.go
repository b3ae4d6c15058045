package supabase

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	storage "github.com/supabase-community/storage-go"
)

// StorageClient maps between image storage keys and the URLs the app shows.
// Outfits are persisted by key; the client only ever sees URLs.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, apiKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	client := storage.NewClient(baseURL+"/storage/v1", apiKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// GeneratedKey is where a try-on image for userID is stored.
func GeneratedKey(userID, name string) string {
	return fmt.Sprintf("generated/%s/%s.png", userID, name)
}

func (s *StorageClient) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, strings.TrimPrefix(key, "/"))
}

// SignedURL returns a time-limited URL for a private object.
func (s *StorageClient) SignedURL(key string, expires time.Duration) (string, error) {
	resp, err := s.client.CreateSignedUrl(s.bucket, key, int(expires.Seconds()))
	if err != nil {
		return "", fmt.Errorf("failed to sign url: %w", err)
	}
	signed := resp.SignedURL
	if strings.HasPrefix(signed, "/") {
		signed = s.baseURL + "/storage/v1" + signed
	}
	return signed, nil
}

// KeyFromURL recovers the storage key from a public or signed object URL.
// Values that are not URLs of this bucket are returned unchanged so a bare key
// passes through.
func (s *StorageClient) KeyFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	for _, kind := range []string{"public", "sign", "authenticated"} {
		prefix := fmt.Sprintf("/storage/v1/object/%s/%s/", kind, s.bucket)
		if strings.HasPrefix(u.Path, prefix) {
			return strings.TrimPrefix(u.Path, prefix)
		}
	}
	return raw
}
