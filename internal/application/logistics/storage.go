package logistics

import (
	"context"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// Key prefixes of the two attachment owners
const (
	PrefixRequests  = "requests"
	PrefixShipments = "shipments"
)

const keyRoot = "logistic"

// ObjectStorage holds file bodies. It never checks tenant ownership; callers
// authorize first and pass tenant-qualified keys.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// DownloadURL returns a time-limited URL that saves the object as fileName
	DownloadURL(ctx context.Context, key, fileName string) (string, time.Time, error)
}

// ObjectKey builds logistic/{prefix}/{tenant}/{entity}[/{folder}]/{file}.
// fileName must already be sanitized.
func ObjectKey(prefix string, tenantID, entityID uuid.UUID, folderID *uuid.UUID, fileName string) string {
	parts := []string{keyRoot, prefix, tenantID.String(), entityID.String()}
	if folderID != nil {
		parts = append(parts, folderID.String())
	}
	parts = append(parts, fileName)
	return path.Join(parts...)
}
