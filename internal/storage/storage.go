package storage

import (
	"context"
	"fmt"
	"time"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage captures the S3-compatible operations the shopping list
// archive needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	UploadObject(ctx context.Context, key string, data []byte, contentType string) error
	DownloadObject(ctx context.Context, key string) ([]byte, error)
}

// ShoppingListKey is where an exported plan is archived:
// shopping-lists/<yyyy-mm-dd>/<planID>.<ext>.
func ShoppingListKey(generatedAt time.Time, planID, ext string) string {
	return fmt.Sprintf("shopping-lists/%s/%s.%s", generatedAt.UTC().Format("2006-01-02"), planID, ext)
}
