package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
)

// Archive stores raw provider payloads in object storage for later replay.
type Archive struct {
	client Client
	bucket string
}

// New creates an Archive over the given client and bucket.
func New(client Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// EnsureBucket creates the archive bucket if it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create archive bucket: %w", err)
	}
	return nil
}

// StoreRaw writes one raw payload under raw/<source>/<date>/<eventID>.json.
// The capture date partitions objects so a day of scraping is easy to replay.
func (a *Archive) StoreRaw(ctx context.Context, source, eventID string, capturedAt time.Time, payload []byte) (string, error) {
	if eventID == "" {
		eventID = fmt.Sprintf("unkeyed-%d", capturedAt.UnixNano())
	}
	objectName := fmt.Sprintf("raw/%s/%s/%s.json", source, capturedAt.UTC().Format("2006-01-02"), eventID)

	_, err := a.client.PutObject(ctx, a.bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to archive payload %s: %w", objectName, err)
	}
	return objectName, nil
}
