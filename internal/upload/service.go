// Package upload implements the file upload flow: multipart parsing,
// filename sanitization, object key derivation, and the storage write.
package upload

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/s3drop/service/internal/storage"
)

const (
	// KeyPrefix is prepended to every object key written to the bucket.
	KeyPrefix = "uploads/"

	// timestampLayout gives second-resolution UTC timestamps for object keys.
	timestampLayout = "20060102-150405"

	defaultContentType = "application/octet-stream"
)

// Validation errors surfaced to the client as 400 responses.
var (
	// ErrNoFile means the multipart form carried no file part.
	ErrNoFile = errors.New("upload: no file provided")

	// ErrEmptyFilename means the filename was empty, or empty once sanitized.
	ErrEmptyFilename = errors.New("upload: empty filename")
)

// Request is the typed form of an incoming multipart upload. The handler
// validates the raw form into this value before anything else touches it.
type Request struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Result describes a completed upload.
type Result struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Service derives object keys and writes uploads to storage.
type Service struct {
	store storage.Storage

	// Overridable for deterministic tests.
	now     func() time.Time
	randHex func() string
}

// NewService creates an upload Service backed by the given store.
func NewService(store storage.Storage) *Service {
	return &Service{
		store:   store,
		now:     time.Now,
		randHex: randomHex,
	}
}

// Process validates req, derives the object key, and performs exactly one
// storage write. There are no retries: a failed write is a failed upload.
func (s *Service) Process(ctx context.Context, req Request) (*Result, error) {
	name := SanitizeFilename(req.Filename)
	if name == "" {
		return nil, ErrEmptyFilename
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = detectContentType(req.Content)
	}

	key := s.deriveKey(name)
	size := int64(len(req.Content))

	if err := s.store.Upload(ctx, key, bytes.NewReader(req.Content), size, contentType); err != nil {
		return nil, err
	}

	slog.Info("upload accepted", "filename", name, "size", size, "key", key)

	return &Result{
		Key:      key,
		Size:     size,
		Filename: name,
		URL:      s.store.ObjectURL(key),
	}, nil
}

// deriveKey builds `uploads/<UTC timestamp>-<6 hex chars>-<name>`. The random
// segment disambiguates same-name uploads landing within the same second,
// including across replicas.
func (s *Service) deriveKey(name string) string {
	return fmt.Sprintf("%s%s-%s-%s", KeyPrefix, s.now().UTC().Format(timestampLayout), s.randHex(), name)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Names that collide with Windows device files; prefixed rather than served
// back verbatim, matching werkzeug's secure_filename.
var windowsDeviceFiles = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {},
}

// SanitizeFilename reduces an untrusted filename to a string safe for use as
// an object key segment: any directory components are dropped, characters
// outside [A-Za-z0-9_.-] collapse to underscores, and leading/trailing
// dots, dashes, and underscores are trimmed. Returns "" when nothing safe
// remains.
func SanitizeFilename(filename string) string {
	// Windows clients send backslash-separated paths.
	name := strings.ReplaceAll(filename, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}

	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._-")

	stem, _, _ := strings.Cut(name, ".")
	if _, reserved := windowsDeviceFiles[strings.ToUpper(stem)]; reserved {
		name = "_" + name
	}

	return name
}

// detectContentType sniffs the content when the browser did not declare a
// type. mimetype falls back to application/octet-stream on its own, but keep
// the default explicit for empty content.
func detectContentType(content []byte) string {
	if len(content) == 0 {
		return defaultContentType
	}
	return mimetype.Detect(content).String()
}

func randomHex() string {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// constant rather than aborting the upload.
		return "000000"
	}
	return hex.EncodeToString(b[:])
}
