package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/api/internal/config"
)

func TestBuildPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{
			name: "endpoint without scheme",
			cfg:  config.StorageConfig{Endpoint: "minio:9000", BucketVideos: "videos"},
			want: "http://minio:9000/videos/lessons/a.mp4",
		},
		{
			name: "ssl endpoint",
			cfg:  config.StorageConfig{Endpoint: "s3.example.com", UseSSL: true, BucketVideos: "videos"},
			want: "https://s3.example.com/videos/lessons/a.mp4",
		},
		{
			name: "public base url wins",
			cfg:  config.StorageConfig{Endpoint: "minio:9000", PublicBaseURL: "https://cdn.example.com/", BucketVideos: "videos"},
			want: "https://cdn.example.com/videos/lessons/a.mp4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildPublicURL(tt.cfg, "lessons/a.mp4"))
		})
	}
}

func TestNewObjectStoreParsesSchemeEndpoint(t *testing.T) {
	store, err := NewObjectStore(config.StorageConfig{
		Endpoint:     "https://s3.example.com",
		AccessKey:    "key",
		SecretKey:    "secret",
		BucketVideos: "videos",
		Region:       "us-east-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "videos", store.Bucket())
	assert.Equal(t, "s3.example.com", store.client.EndpointURL().Host)
	assert.Equal(t, "https", store.client.EndpointURL().Scheme)
}
