// Package s3 implements blobstore.Store on Amazon S3. Reads stream the
// object body; writes stream through the SDK's multipart upload manager
// and are committed when the writer is closed.
package s3
