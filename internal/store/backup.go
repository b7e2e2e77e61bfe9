package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// BackupToGCS uploads the current store file to the given gs://bucket/object
// URI before a mutating run touches it. It assumes Application Default
// Credentials are configured. The object name gets a timestamp suffix so
// successive runs never overwrite an earlier snapshot.
func BackupToGCS(ctx context.Context, storePath, gcsURI string) error {
	bucketName, objectPath, err := splitGCSURI(gcsURI)
	if err != nil {
		return err
	}

	f, err := os.Open(storePath)
	if err != nil {
		return fmt.Errorf("BackupToGCS: open store %q: %w", storePath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("BackupToGCS: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	objectName := fmt.Sprintf("%s.%s", objectPath, time.Now().UTC().Format("20060102T150405Z"))
	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("BackupToGCS: copy store to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("BackupToGCS: finalize upload: %w", err)
	}
	return nil
}

func splitGCSURI(gcsURI string) (bucket, object string, err error) {
	if !strings.HasPrefix(gcsURI, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}
