package supabase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *StorageClient {
	t.Helper()
	s, err := NewStorageClient("https://proj.supabase.co/", "anon", "closet-images")
	require.NoError(t, err)
	return s
}

func TestStorageClient_PublicURL(t *testing.T) {
	s := newTestStorage(t)
	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/closet-images/generated/u1/a.png",
		s.PublicURL("generated/u1/a.png"))
}

func TestStorageClient_KeyFromURL(t *testing.T) {
	s := newTestStorage(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"public", "https://proj.supabase.co/storage/v1/object/public/closet-images/generated/u1/a.png", "generated/u1/a.png"},
		{"signed", "https://proj.supabase.co/storage/v1/object/sign/closet-images/generated/u1/a.png?token=abc", "generated/u1/a.png"},
		{"bare key", "generated/u1/a.png", "generated/u1/a.png"},
		{"other bucket", "https://proj.supabase.co/storage/v1/object/public/other/a.png", "https://proj.supabase.co/storage/v1/object/public/other/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.KeyFromURL(tt.in))
		})
	}
}

func TestStorageClient_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	key := GeneratedKey("u1", "abc")
	assert.Equal(t, key, s.KeyFromURL(s.PublicURL(key)))
}

func TestNewStorageClient_RequiresBucket(t *testing.T) {
	_, err := NewStorageClient("https://proj.supabase.co", "anon", "")
	assert.Error(t, err)
}
