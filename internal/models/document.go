package models

import "gorm.io/datatypes"

// DocumentStatus tracks a document through its extraction lifecycle.
// Transitions are monotonic: uploaded -> processing -> completed|failed.
type DocumentStatus string

const (
	DocumentUploaded   DocumentStatus = "uploaded"
	DocumentProcessing DocumentStatus = "processing"
	DocumentCompleted  DocumentStatus = "completed"
	DocumentFailed     DocumentStatus = "failed"
)

// Document represents one uploaded file and its extracted text.
// ExtractedText is non-nil iff Status is DocumentCompleted.
type Document struct {
	Base
	UserID string `gorm:"index;not null" json:"user_id"`

	Filename         string `gorm:"size:255;not null" json:"filename"`
	OriginalFilename string `gorm:"size:255;not null" json:"original_filename"`
	FilePath         string `gorm:"size:500;not null" json:"file_path"`
	FileType         string `gorm:"size:50;not null" json:"file_type"`
	FileSize         int64  `gorm:"not null" json:"file_size"`

	Status        DocumentStatus `gorm:"size:50;default:uploaded" json:"status"`
	ExtractedText *string        `json:"extracted_text,omitempty"`

	NumPages *int           `json:"num_pages,omitempty"`
	Metadata datatypes.JSON `json:"metadata,omitempty"`

	// Optional link to the owning project record.
	ProjectType string `gorm:"size:50" json:"project_type,omitempty"`
	ProjectID   string `gorm:"size:36" json:"project_id,omitempty"`
}
