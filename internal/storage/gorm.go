// Package storage provides the GORM/SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/amodvardhan/ai-hub/internal/apperrors"
	"github.com/amodvardhan/ai-hub/internal/models"
)

// GormStorage implements Storage using GORM over SQLite.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage opens or creates a SQLite database at dbPath and migrates the schema.
// Parent directories are created if they do not exist.
func NewGormStorage(dbPath string) (*GormStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := db.AutoMigrate(&models.Document{}, &models.Evaluation{}, &models.Criterion{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &GormStorage{db: db}, nil
}

// CreateDocument inserts a document.
func (s *GormStorage) CreateDocument(ctx context.Context, doc *models.Document) error {
	return s.db.WithContext(ctx).Create(doc).Error
}

// GetDocument returns a document by ID, scoped to userID.
func (s *GormStorage) GetDocument(ctx context.Context, id, userID string) (*models.Document, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("document")
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateDocument persists all fields of an existing document.
func (s *GormStorage) UpdateDocument(ctx context.Context, doc *models.Document) error {
	res := s.db.WithContext(ctx).Save(doc)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("document")
	}
	return nil
}

// ListDocuments returns the user's documents ordered by creation time descending.
func (s *GormStorage) ListDocuments(ctx context.Context, userID string, offset, limit int) ([]*models.Document, error) {
	var docs []*models.Document
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&docs).Error
	return docs, err
}

// CreateEvaluation inserts an evaluation.
func (s *GormStorage) CreateEvaluation(ctx context.Context, eval *models.Evaluation) error {
	return s.db.WithContext(ctx).Create(eval).Error
}

// GetEvaluation returns an evaluation by ID, scoped to userID.
func (s *GormStorage) GetEvaluation(ctx context.Context, id, userID string) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&eval).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("evaluation")
	}
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

// UpdateEvaluation persists all fields of an existing evaluation.
func (s *GormStorage) UpdateEvaluation(ctx context.Context, eval *models.Evaluation) error {
	res := s.db.WithContext(ctx).Save(eval)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("evaluation")
	}
	return nil
}

// ListEvaluations returns the user's evaluations ordered by creation time descending.
func (s *GormStorage) ListEvaluations(ctx context.Context, userID string, offset, limit int) ([]*models.Evaluation, error) {
	var evals []*models.Evaluation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&evals).Error
	return evals, err
}

// CreateCriterion inserts a criterion.
func (s *GormStorage) CreateCriterion(ctx context.Context, c *models.Criterion) error {
	return s.db.WithContext(ctx).Create(c).Error
}

// GetCriterion returns a criterion by ID. Criteria are owned through their
// evaluation, so ownership is checked by the caller against the parent.
func (s *GormStorage) GetCriterion(ctx context.Context, id string) (*models.Criterion, error) {
	var c models.Criterion
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("criterion")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCriterion persists all fields of an existing criterion.
func (s *GormStorage) UpdateCriterion(ctx context.Context, c *models.Criterion) error {
	res := s.db.WithContext(ctx).Save(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("criterion")
	}
	return nil
}

// ListCriteria returns all criteria for an evaluation ordered by creation time.
func (s *GormStorage) ListCriteria(ctx context.Context, evaluationID string) ([]*models.Criterion, error) {
	var criteria []*models.Criterion
	err := s.db.WithContext(ctx).
		Where("evaluation_id = ?", evaluationID).
		Order("created_at").
		Find(&criteria).Error
	return criteria, err
}

// CountDocuments returns the total number of documents.
func (s *GormStorage) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Document{}).Count(&count).Error
	return count, err
}

// CountEvaluations returns the total number of evaluations.
func (s *GormStorage) CountEvaluations(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Evaluation{}).Count(&count).Error
	return count, err
}

// Close closes the underlying database connection.
func (s *GormStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
