// Package minio implements blobstore.Store on MinIO and other
// S3-compatible object stores.
package minio
