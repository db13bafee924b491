package models

import "gorm.io/datatypes"

// EvaluationStatus tracks an evaluation through its analysis lifecycle.
// Transitions are monotonic: pending -> processing -> completed|failed.
type EvaluationStatus string

const (
	EvaluationPending    EvaluationStatus = "pending"
	EvaluationProcessing EvaluationStatus = "processing"
	EvaluationCompleted  EvaluationStatus = "completed"
	EvaluationFailed     EvaluationStatus = "failed"
)

// Evaluation represents one AI-assisted analysis pass over a Document.
// Re-analysis creates a fresh Evaluation; a single evaluation is only mutated
// during its own pipeline run. EvaluationSummary is non-nil when Status is
// EvaluationCompleted; a failed run writes no scoring fields.
type Evaluation struct {
	Base
	UserID     string `gorm:"index;not null" json:"user_id"`
	DocumentID string `gorm:"index;not null" json:"document_id"`

	RFPTitle string `gorm:"size:500;not null" json:"rfp_title"`
	RFPType  string `gorm:"size:100" json:"rfp_type,omitempty"` // government, commercial, etc.

	Status EvaluationStatus `gorm:"size:50;default:pending" json:"status"`

	EvaluationSummary *string        `json:"evaluation_summary,omitempty"`
	KeyRequirements   datatypes.JSON `json:"key_requirements,omitempty"`
	ComplianceScore   *float64       `json:"compliance_score,omitempty"` // 0-100
	RiskAssessment    datatypes.JSON `json:"risk_assessment,omitempty"`
	Recommendations   datatypes.JSON `json:"recommendations,omitempty"`

	AIModelUsed      string `gorm:"size:100" json:"ai_model_used,omitempty"`
	TokensUsed       int    `gorm:"default:0" json:"tokens_used"`
	ProcessingTimeMS *int64 `json:"processing_time_ms,omitempty"`
}

// Criterion is one weighted scoring dimension within an Evaluation, created
// and scored independently of the top-level summary pass.
type Criterion struct {
	Base
	EvaluationID string `gorm:"index;not null" json:"evaluation_id"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Type        string `gorm:"size:100" json:"type,omitempty"` // technical, financial, experience
	Description string `json:"description,omitempty"`

	Weight       float64  `gorm:"default:1.0" json:"weight"`
	Score        *float64 `json:"score,omitempty"` // 0-10
	AIAssessment *string  `json:"ai_assessment,omitempty"`

	SupportingText *string        `json:"supporting_text,omitempty"`
	PageReferences datatypes.JSON `json:"page_references,omitempty"`
}
