package models

import "time"

// Image is the locally persisted metadata for a remotely hosted image.
// DeleteHash is the opaque credential the remote host requires to delete the
// content; it is never exposed to API callers.
type Image struct {
	ID         string
	URL        string
	DeleteHash string
	OwnerID    string
	CreatedAt  time.Time
}

// ImageSummary is the externally visible projection of an Image. It is also
// the value type stored in the image-list cache.
type ImageSummary struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
