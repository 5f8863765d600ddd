package models

// UploadedFile describes an image stored by the upload service
type UploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
	URL          string `json:"url"`
}
