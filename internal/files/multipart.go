package files

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"slices"

	"aisdk/internal/core"
)

// encodeUpload renders opts as a multipart/form-data body. The body is
// buffered so the request can be retried.
func encodeUpload(opts *core.FileUploadOptions) ([]byte, string, error) {
	if opts == nil {
		return nil, "", core.NewInvalidArgumentError("opts", "upload options are required")
	}
	if opts.File == nil {
		return nil, "", core.NewInvalidArgumentError("file", "file content is required")
	}
	if err := core.RequireID("filename", opts.Filename); err != nil {
		return nil, "", err
	}
	if !opts.Purpose.Valid() {
		return nil, "", core.NewInvalidArgumentError("purpose", fmt.Sprintf("unsupported purpose %q", opts.Purpose))
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("purpose", string(opts.Purpose)); err != nil {
		return nil, "", err
	}
	for _, key := range slices.Sorted(maps.Keys(opts.AdditionalFields)) {
		if key == "purpose" || key == "file" {
			continue
		}
		if err := w.WriteField(key, formValue(opts.AdditionalFields[key])); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile("file", opts.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, opts.File); err != nil {
		return nil, "", fmt.Errorf("read upload content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// formValue unquotes JSON strings; other JSON values are sent as written.
func formValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
