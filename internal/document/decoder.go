package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Supported input extensions.
const (
	ExtPDF  = ".pdf"
	ExtJSON = ".json"
)

// Decoder turns a document on disk into Content.
type Decoder interface {
	Decode(ctx context.Context, path string) (*Content, error)
}

// Router dispatches to a decoder by file extension.
type Router struct {
	PDF  Decoder
	JSON Decoder
}

// NewRouter wires the PDF and JSON decoders with a shared size limit.
func NewRouter(maxFileSize int64) (*Router, error) {
	jsonDecoder, err := NewJSONDecoder(maxFileSize)
	if err != nil {
		return nil, err
	}
	return &Router{
		PDF:  NewPDFDecoder(maxFileSize),
		JSON: jsonDecoder,
	}, nil
}

// Decode implements Decoder.
func (r *Router) Decode(ctx context.Context, path string) (*Content, error) {
	switch strings.ToLower(extensionOf(path)) {
	case ExtPDF:
		return r.PDF.Decode(ctx, path)
	case ExtJSON:
		return r.JSON.Decode(ctx, path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type: %s", ErrDecodeFailed, path)
	}
}

// SupportedExtensions lists the extensions Router accepts.
func SupportedExtensions() []string {
	return []string{ExtPDF, ExtJSON}
}

// IsSupported reports whether path has a decodable extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(extensionOf(path))
	for _, s := range SupportedExtensions() {
		if ext == s {
			return true
		}
	}
	return false
}

func extensionOf(path string) string {
	return filepath.Ext(path)
}

// statInput performs the checks shared by every decoder.
func statInput(path string, maxFileSize int64) (os.FileInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrDecodeFailed)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: file does not exist: %s", ErrDecodeFailed, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cannot access file: %v", ErrDecodeFailed, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: path is a directory, not a file: %s", ErrDecodeFailed, path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: file is empty: %s", ErrDecodeFailed, path)
	}
	if maxFileSize > 0 && info.Size() > maxFileSize {
		return nil, fmt.Errorf("%w: file too large: %d bytes (max: %d bytes)",
			ErrDecodeFailed, info.Size(), maxFileSize)
	}
	return info, nil
}
