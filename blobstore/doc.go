// Package blobstore abstracts the storage substrate for match documents
// and track snapshots.
//
// Backends:
//   - MemoryStore: in-memory, for tests
//   - LocalStore: local filesystem with atomic renames
//   - s3.Store: AWS S3
//   - minio.Store: MinIO and other S3-compatible object stores
//
// The interface is deliberately stream-oriented: documents are decoded
// front to back and written once, so the backends only need sequential
// reads and atomic whole-blob writes.
package blobstore
