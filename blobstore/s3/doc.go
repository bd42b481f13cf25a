// Package s3 implements blobstore.Store on AWS S3.
//
// Streaming writes go through a background multipart upload; Close blocks
// until the upload completes, so a nil Close means the blob is durable.
package s3
