// Package blobstore abstracts where matrix and vector files live. The
// coordinator streams inputs from a store and streams the result back to
// one, so the engine works the same against the local file system, an
// in-memory store in tests, or object storage (see the s3 and minio
// subpackages).
package blobstore
