package sink

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Content encodings chosen from the destination extension
const (
	EncodingNone   = ""
	EncodingGzip   = "gzip"
	EncodingZstd   = "zstd"
	EncodingBrotli = "br"
)

var compressedExts = map[string]string{
	".gz":  EncodingGzip,
	".zst": EncodingZstd,
	".br":  EncodingBrotli,
}

var contentTypes = map[string]string{
	".svg":  "image/svg+xml",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".pdf":  "application/pdf",
}

// Encoding returns the content encoding implied by dest
func Encoding(dest string) string {
	ext := strings.ToLower(path.Ext(dest))
	if ext == ".svgz" {
		return EncodingGzip
	}
	return compressedExts[ext]
}

// DocumentExt returns the extension of the document itself, ignoring any
// compression suffix: "a.svg.zst" and "a.svgz" both give ".svg"
func DocumentExt(dest string) string {
	ext := strings.ToLower(path.Ext(dest))
	if ext == ".svgz" {
		return ".svg"
	}
	if _, ok := compressedExts[ext]; ok {
		return strings.ToLower(path.Ext(strings.TrimSuffix(dest, path.Ext(dest))))
	}
	return ext
}

// ContentType returns the MIME type of the document stored at dest
func ContentType(dest string) string {
	if ct, ok := contentTypes[DocumentExt(dest)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Encode compresses doc according to the destination extension and returns
// the bytes to store with their content encoding
func Encode(dest string, doc []byte) ([]byte, string, error) {
	encoding := Encoding(dest)

	var buf bytes.Buffer
	switch encoding {
	case EncodingNone:
		return doc, encoding, nil
	case EncodingGzip:
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(doc); err != nil {
			return nil, "", fmt.Errorf("failed to gzip document: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to gzip document: %w", err)
		}
	case EncodingZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		out := enc.EncodeAll(doc, nil)
		if err := enc.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to close zstd encoder: %w", err)
		}
		return out, encoding, nil
	case EncodingBrotli:
		bw := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
		if _, err := bw.Write(doc); err != nil {
			return nil, "", fmt.Errorf("failed to brotli-compress document: %w", err)
		}
		if err := bw.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to brotli-compress document: %w", err)
		}
	}
	return buf.Bytes(), encoding, nil
}
