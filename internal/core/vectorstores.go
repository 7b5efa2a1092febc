package core

import "encoding/json"

// VectorStoreFileStatusFilter narrows file association listings by status.
type VectorStoreFileStatusFilter string

const (
	VectorStoreFileStatusAny        VectorStoreFileStatusFilter = ""
	VectorStoreFileStatusInProgress VectorStoreFileStatusFilter = "in_progress"
	VectorStoreFileStatusCompleted  VectorStoreFileStatusFilter = "completed"
	VectorStoreFileStatusFailed     VectorStoreFileStatusFilter = "failed"
	VectorStoreFileStatusCancelled  VectorStoreFileStatusFilter = "cancelled"
)

// Valid reports whether f is a known filter (the empty "any" included).
func (f VectorStoreFileStatusFilter) Valid() bool {
	switch f {
	case VectorStoreFileStatusAny, VectorStoreFileStatusInProgress, VectorStoreFileStatusCompleted,
		VectorStoreFileStatusFailed, VectorStoreFileStatusCancelled:
		return true
	}
	return false
}

// VectorStoreFileCounts summarises file states of a store or batch.
type VectorStoreFileCounts struct {
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Cancelled  int `json:"cancelled"`
	Total      int `json:"total"`
}

// VectorStoreExpirationPolicy expires a store after inactivity.
type VectorStoreExpirationPolicy struct {
	Anchor string `json:"anchor"`
	Days   int    `json:"days"`
}

// VectorStore is a searchable collection of processed files.
type VectorStore struct {
	ID           string                       `json:"id"`
	Object       string                       `json:"object"`
	CreatedAt    int64                        `json:"created_at"`
	Name         string                       `json:"name"`
	UsageBytes   int64                        `json:"usage_bytes"`
	FileCounts   VectorStoreFileCounts        `json:"file_counts"`
	Status       string                       `json:"status"`
	ExpiresAfter *VectorStoreExpirationPolicy `json:"expires_after,omitempty"`
	ExpiresAt    *int64                       `json:"expires_at,omitempty"`
	LastActiveAt *int64                       `json:"last_active_at,omitempty"`
	Metadata     map[string]string            `json:"metadata,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (v VectorStore) MarshalJSON() ([]byte, error) {
	type alias VectorStore
	return MarshalWithRawFields(alias(v), v.AdditionalFields)
}

func (v *VectorStore) UnmarshalJSON(data []byte) error {
	type alias VectorStore
	return UnmarshalWithRawFields(data, (*alias)(v), &v.AdditionalFields)
}

// VectorStoreCreationOptions is the body of POST /vector_stores.
type VectorStoreCreationOptions struct {
	FileIDs          []string                     `json:"file_ids,omitempty"`
	Name             string                       `json:"name,omitempty"`
	ExpiresAfter     *VectorStoreExpirationPolicy `json:"expires_after,omitempty"`
	ChunkingStrategy json.RawMessage              `json:"chunking_strategy,omitempty"`
	Metadata         map[string]string            `json:"metadata,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (o VectorStoreCreationOptions) MarshalJSON() ([]byte, error) {
	type alias VectorStoreCreationOptions
	return MarshalWithRawFields(alias(o), o.AdditionalFields)
}

func (o *VectorStoreCreationOptions) UnmarshalJSON(data []byte) error {
	type alias VectorStoreCreationOptions
	return UnmarshalWithRawFields(data, (*alias)(o), &o.AdditionalFields)
}

// VectorStoreModificationOptions is the body of POST /vector_stores/{id}.
type VectorStoreModificationOptions struct {
	Name         *string                      `json:"name,omitempty"`
	ExpiresAfter *VectorStoreExpirationPolicy `json:"expires_after,omitempty"`
	Metadata     map[string]string            `json:"metadata,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (o VectorStoreModificationOptions) MarshalJSON() ([]byte, error) {
	type alias VectorStoreModificationOptions
	return MarshalWithRawFields(alias(o), o.AdditionalFields)
}

func (o *VectorStoreModificationOptions) UnmarshalJSON(data []byte) error {
	type alias VectorStoreModificationOptions
	return UnmarshalWithRawFields(data, (*alias)(o), &o.AdditionalFields)
}

// VectorStoreFileError explains a failed file ingestion.
type VectorStoreFileError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// VectorStoreFileAssociation joins a file to a vector store. Its identity is
// the pair (VectorStoreID, FileID).
type VectorStoreFileAssociation struct {
	FileID           string                `json:"id"`
	Object           string                `json:"object"`
	UsageBytes       int64                 `json:"usage_bytes"`
	CreatedAt        int64                 `json:"created_at"`
	VectorStoreID    string                `json:"vector_store_id"`
	Status           string                `json:"status"`
	LastError        *VectorStoreFileError `json:"last_error,omitempty"`
	ChunkingStrategy json.RawMessage       `json:"chunking_strategy,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (a VectorStoreFileAssociation) MarshalJSON() ([]byte, error) {
	type alias VectorStoreFileAssociation
	return MarshalWithRawFields(alias(a), a.AdditionalFields)
}

func (a *VectorStoreFileAssociation) UnmarshalJSON(data []byte) error {
	type alias VectorStoreFileAssociation
	return UnmarshalWithRawFields(data, (*alias)(a), &a.AdditionalFields)
}

// VectorStoreBatchFileJob ingests several files into a vector store at once.
type VectorStoreBatchFileJob struct {
	BatchID       string                `json:"id"`
	Object        string                `json:"object"`
	CreatedAt     int64                 `json:"created_at"`
	VectorStoreID string                `json:"vector_store_id"`
	Status        string                `json:"status"`
	FileCounts    VectorStoreFileCounts `json:"file_counts"`

	AdditionalFields RawFields `json:"-"`
}

func (j VectorStoreBatchFileJob) MarshalJSON() ([]byte, error) {
	type alias VectorStoreBatchFileJob
	return MarshalWithRawFields(alias(j), j.AdditionalFields)
}

func (j *VectorStoreBatchFileJob) UnmarshalJSON(data []byte) error {
	type alias VectorStoreBatchFileJob
	return UnmarshalWithRawFields(data, (*alias)(j), &j.AdditionalFields)
}
