// Package storage defines the persistence interface for documents, evaluations, and criteria.
package storage

import (
	"context"

	"github.com/amodvardhan/ai-hub/internal/models"
)

// Storage defines record persistence operations. All single-record reads and
// listings are scoped to the owning user; a record owned by another user is
// reported as not found.
type Storage interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id, userID string) (*models.Document, error)
	UpdateDocument(ctx context.Context, doc *models.Document) error
	ListDocuments(ctx context.Context, userID string, offset, limit int) ([]*models.Document, error)

	// Evaluation operations
	CreateEvaluation(ctx context.Context, eval *models.Evaluation) error
	GetEvaluation(ctx context.Context, id, userID string) (*models.Evaluation, error)
	UpdateEvaluation(ctx context.Context, eval *models.Evaluation) error
	ListEvaluations(ctx context.Context, userID string, offset, limit int) ([]*models.Evaluation, error)

	// Criterion operations
	CreateCriterion(ctx context.Context, c *models.Criterion) error
	GetCriterion(ctx context.Context, id string) (*models.Criterion, error)
	UpdateCriterion(ctx context.Context, c *models.Criterion) error
	ListCriteria(ctx context.Context, evaluationID string) ([]*models.Criterion, error)

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountEvaluations(ctx context.Context) (int64, error)

	Close() error
}
