package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type StoredObject struct {
	Key string
	URL string
}

// BlobStore keeps uploaded proof photos. The returned URL is opaque to the core.
type BlobStore interface {
	Put(ctx context.Context, fileName string, content []byte) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
}

// ImageContentType returns the MIME type for an image file name and whether the extension is allowed.
func ImageContentType(fileName string) (string, bool) {
	contentType, ok := imageContentTypes[strings.ToLower(filepath.Ext(fileName))]
	return contentType, ok
}

// GenerateObjectKey builds a date-partitioned, collision-free key for fileName.
func GenerateObjectKey(fileName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("submissions/%d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), uuid.New().String(), ext)
}

func objectURL(publicURL, bucket, key string) string {
	base := strings.TrimRight(publicURL, "/")
	if bucket == "" {
		return fmt.Sprintf("%s/%s", base, key)
	}
	return fmt.Sprintf("%s/%s/%s", base, bucket, key)
}
