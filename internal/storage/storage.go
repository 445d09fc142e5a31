// Package storage provides the output sink for chopped segments.
// It defines the Storage interface (port) and implementations for a
// local output directory and for local-plus-S3 archival.
package storage

import "context"

// Storage defines the interface for persisting segment files.
// Implementations always produce a local file; they may additionally
// archive the segment to remote storage.
type Storage interface {
	// WriteSegment writes one encoded segment under the given filename
	// and returns the local path it was written to. Writing the same
	// name twice overwrites the earlier file.
	WriteSegment(ctx context.Context, name string, data []byte) (path string, err error)
}
