package sniffer

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ftyp(brand string) []byte {
	return append([]byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p'}, []byte(brand+"\x00\x00\x02\x00isomiso2")...)
}

func TestDetectHead(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want MediaType
		mime string
	}{
		{"mp4 isom", ftyp("isom"), TypeMP4, "video/mp4"},
		{"mp4 mp42", ftyp("mp42"), TypeMP4, "video/mp4"},
		{"quicktime", ftyp("qt  "), TypeMOV, "video/quicktime"},
		{"webm", append([]byte{0x1a, 0x45, 0xdf, 0xa3, 0x9f, 0x42, 0x86, 0x81, 0x01, 0x42, 0x82, 0x84}, []byte("webm")...), TypeWEBM, "video/webm"},
		{"ogg", []byte("OggS\x00\x02\x00\x00"), TypeOGG, "video/ogg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectHead(tt.head)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.mime, got.MIME)
		})
	}
}

func TestDetectHeadRejectsNonVideo(t *testing.T) {
	for name, head := range map[string][]byte{
		"empty": nil,
		"png":   {0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'},
		"avif":  ftyp("avif"),
		"mkv":   append([]byte{0x1a, 0x45, 0xdf, 0xa3}, []byte("matroska")...),
		"text":  []byte("hello world"),
	} {
		_, err := DetectHead(head)
		assert.ErrorIs(t, err, ErrUnknownType, name)
	}
}

func TestDetectReturnsHead(t *testing.T) {
	data := append(ftyp("isom"), bytes.Repeat([]byte{0}, 1000)...)
	res, head, err := Detect(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, TypeMP4, res.Type)
	assert.Len(t, head, HeadSize)
}

func TestMimeTypeFromHTTP(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, "", MimeTypeFromHTTP(h))
	h.Set("Content-Type", "Video/MP4; codecs=avc1")
	assert.Equal(t, "video/mp4", MimeTypeFromHTTP(h))
	h.Set("Content-Type", "application/octet-stream")
	assert.Equal(t, "", MimeTypeFromHTTP(h))
}
