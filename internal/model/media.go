package model

// UploadResult represents a completed image upload.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// DeleteUploadRequest represents an image deletion request body.
type DeleteUploadRequest struct {
	PublicID string `json:"publicId"`
}
