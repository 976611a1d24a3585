package storage

import "fmt"

// Per-kind upload constraints. The client enforces the same limits for UX,
// but these checks are the authoritative ones: Validate must pass before any
// presigned URL is issued.
type uploadLimit struct {
	MaxBytes int64
	MIMEs    []string
}

const mb = 1 << 20

var uploadLimits = map[string]uploadLimit{
	"image": {
		MaxBytes: 5 * mb,
		MIMEs:    []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
	},
	"avatar": {
		MaxBytes: 2 * mb,
		MIMEs:    []string{"image/jpeg", "image/png", "image/webp"},
	},
	"audio": {
		MaxBytes: 100 * mb,
		MIMEs:    []string{"audio/mpeg", "audio/mp4", "audio/x-m4a", "audio/wav"},
	},
	"document": {
		MaxBytes: 20 * mb,
		MIMEs: []string{
			"application/pdf", "application/zip",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
	},
}

// Validate checks an upload request against the kind's size and MIME limits.
func Validate(kind string, size int64, contentType string) error {
	limit, ok := uploadLimits[kind]
	if !ok {
		return fmt.Errorf("unknown upload kind %q", kind)
	}
	if size <= 0 {
		return fmt.Errorf("file size must be positive")
	}
	if size > limit.MaxBytes {
		return fmt.Errorf("file exceeds the %dMB limit for %s uploads", limit.MaxBytes/mb, kind)
	}
	for _, m := range limit.MIMEs {
		if m == contentType {
			return nil
		}
	}
	return fmt.Errorf("content type %q is not allowed for %s uploads", contentType, kind)
}
