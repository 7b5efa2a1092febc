package core

import "io"

// FileUploadPurpose is the intended use of an uploaded file.
type FileUploadPurpose string

const (
	FilePurposeAssistants FileUploadPurpose = "assistants"
	FilePurposeBatch      FileUploadPurpose = "batch"
	FilePurposeFineTune   FileUploadPurpose = "fine-tune"
	FilePurposeVision     FileUploadPurpose = "vision"
	FilePurposeUserData   FileUploadPurpose = "user_data"
)

// Valid reports whether p is a purpose the service accepts for uploads.
func (p FileUploadPurpose) Valid() bool {
	switch p {
	case FilePurposeAssistants, FilePurposeBatch, FilePurposeFineTune, FilePurposeVision, FilePurposeUserData:
		return true
	}
	return false
}

// FileUploadOptions describes a multipart upload to POST /files.
// File is streamed as the "file" part; every AdditionalFields entry is sent as
// an extra form field.
type FileUploadOptions struct {
	File     io.Reader
	Filename string
	Purpose  FileUploadPurpose

	AdditionalFields RawFields
}

// FileInfo is an uploaded file.
type FileInfo struct {
	ID            string  `json:"id"`
	Object        string  `json:"object"`
	Bytes         int64   `json:"bytes"`
	CreatedAt     int64   `json:"created_at"`
	ExpiresAt     *int64  `json:"expires_at,omitempty"`
	Filename      string  `json:"filename"`
	Purpose       string  `json:"purpose"`
	Status        string  `json:"status,omitempty"`
	StatusDetails *string `json:"status_details,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (f FileInfo) MarshalJSON() ([]byte, error) {
	type alias FileInfo
	return MarshalWithRawFields(alias(f), f.AdditionalFields)
}

func (f *FileInfo) UnmarshalJSON(data []byte) error {
	type alias FileInfo
	return UnmarshalWithRawFields(data, (*alias)(f), &f.AdditionalFields)
}

// FileContent wraps downloaded file bytes with response metadata.
type FileContent struct {
	ID          string
	ContentType string
	Data        []byte
}
