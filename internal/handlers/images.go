package handlers

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Images converts between stored image keys and the URLs returned to
// clients. supabase.StorageClient satisfies it.
type Images interface {
	PublicURL(key string) string
	KeyFromURL(raw string) string
}

// Signer is implemented by image stores that can hand out expiring URLs.
type Signer interface {
	SignedURL(key string, expires time.Duration) (string, error)
}

// LocalImages serves image keys under a plain base URL. Used when Supabase
// storage is not configured.
type LocalImages struct {
	BaseURL string
}

func (l LocalImages) PublicURL(key string) string {
	return fmt.Sprintf("%s/images/%s", strings.TrimSuffix(l.BaseURL, "/"), strings.TrimPrefix(key, "/"))
}

func (l LocalImages) KeyFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	if i := strings.Index(u.Path, "/images/"); i >= 0 {
		return u.Path[i+len("/images/"):]
	}
	return raw
}
