// Package sniffer identifies uploaded lesson videos from their leading
// bytes instead of trusting the client's declared type.
package sniffer

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
)

type MediaType string

const (
	TypeMP4  MediaType = "mp4"
	TypeMOV  MediaType = "mov"
	TypeWEBM MediaType = "webm"
	TypeOGG  MediaType = "ogv"
)

var ErrUnknownType = errors.New("unknown media type")

// HeadSize is how many leading bytes DetectHead looks at.
const HeadSize = 512

type Result struct {
	Type MediaType
	MIME string
}

func Detect(r io.Reader) (Result, []byte, error) {
	head := make([]byte, HeadSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Result{}, nil, err
	}
	head = head[:n]

	result, err := DetectHead(head)
	return result, head, err
}

func DetectHead(head []byte) (Result, error) {
	if len(head) == 0 {
		return Result{}, ErrUnknownType
	}

	if brand, ok := isoBrand(head); ok {
		if brand == "qt  " {
			return Result{Type: TypeMOV, MIME: "video/quicktime"}, nil
		}
		return Result{Type: TypeMP4, MIME: "video/mp4"}, nil
	}
	if isWEBM(head) {
		return Result{Type: TypeWEBM, MIME: "video/webm"}, nil
	}
	if isOGG(head) {
		return Result{Type: TypeOGG, MIME: "video/ogg"}, nil
	}

	return Result{}, ErrUnknownType
}

// isoBrand reads the major brand of an ISO base media file ("ftyp" box
// first). Image brands such as avif/heic are not videos.
func isoBrand(head []byte) (string, bool) {
	if len(head) < 12 || string(head[4:8]) != "ftyp" {
		return "", false
	}
	brand := string(head[8:12])
	switch brand {
	case "avif", "avis", "heic", "heix", "mif1", "msf1":
		return "", false
	}
	return brand, true
}

func isWEBM(head []byte) bool {
	ebml := []byte{0x1a, 0x45, 0xdf, 0xa3}
	return len(head) >= len(ebml) &&
		bytes.Equal(head[:len(ebml)], ebml) &&
		bytes.Contains(head, []byte("webm"))
}

func isOGG(head []byte) bool {
	return len(head) >= 4 && bytes.Equal(head[:4], []byte("OggS"))
}

func MimeTypeFromHTTP(header http.Header) string {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		return ""
	}
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "application/octet-stream" {
		return ""
	}
	return contentType
}
