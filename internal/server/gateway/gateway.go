// Package gateway talks to the remote image host. The host is treated as an
// opaque service: a single synchronous upload call returning a durable URL
// plus a deletion credential, and a single synchronous delete call. No
// retries are attempted; callers see common.ErrUploadFailed or
// common.ErrDeleteFailed on any non-success outcome.
package gateway

import "context"

// UploadResult is what the remote host returns for a stored image.
type UploadResult struct {
	// URL is the durable public link to the hosted content.
	URL string
	// DeleteHash is the opaque credential required to delete the content
	// later.
	DeleteHash string
}

// ImageHost is the consumed contract of the remote image hosting service.
type ImageHost interface {
	Upload(ctx context.Context, content []byte) (*UploadResult, error)
	Delete(ctx context.Context, deleteHash string) error
}
