package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/amodvardhan/ai-hub/internal/apperrors"
	"github.com/amodvardhan/ai-hub/internal/models"
)

func newTestStorage(t *testing.T) *GormStorage {
	t.Helper()
	s, err := NewGormStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewGormStorage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDocumentCRUD(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	doc := &models.Document{
		UserID:           "user-1",
		Filename:         "abc_rfp.pdf",
		OriginalFilename: "rfp.pdf",
		FilePath:         "/tmp/abc_rfp.pdf",
		FileType:         "pdf",
		FileSize:         1024,
		Status:           models.DocumentUploaded,
	}
	if err := s.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("document ID should be assigned on create")
	}

	got, err := s.GetDocument(ctx, doc.ID, "user-1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.OriginalFilename != "rfp.pdf" || got.Status != models.DocumentUploaded {
		t.Errorf("unexpected document: %+v", got)
	}

	text := "extracted"
	got.Status = models.DocumentCompleted
	got.ExtractedText = &text
	if err := s.UpdateDocument(ctx, got); err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	got, err = s.GetDocument(ctx, doc.ID, "user-1")
	if err != nil {
		t.Fatalf("GetDocument after update: %v", err)
	}
	if got.ExtractedText == nil || *got.ExtractedText != "extracted" {
		t.Errorf("extracted text not persisted: %+v", got)
	}
}

func TestGetDocument_ownershipScoped(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	doc := &models.Document{
		UserID: "user-1", Filename: "a", OriginalFilename: "a", FilePath: "/a",
		FileType: "txt", Status: models.DocumentUploaded,
	}
	if err := s.CreateDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}

	_, err := s.GetDocument(ctx, doc.ID, "someone-else")
	var nf *apperrors.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError for other user, got %v", err)
	}
}

func TestEvaluationCRUDAndListOrder(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		eval := &models.Evaluation{
			UserID:     "user-1",
			DocumentID: "doc-1",
			RFPTitle:   title,
			Status:     models.EvaluationPending,
		}
		if err := s.CreateEvaluation(ctx, eval); err != nil {
			t.Fatalf("CreateEvaluation(%s): %v", title, err)
		}
	}

	evals, err := s.ListEvaluations(ctx, "user-1", 0, 10)
	if err != nil {
		t.Fatalf("ListEvaluations: %v", err)
	}
	if len(evals) != 3 {
		t.Fatalf("expected 3 evaluations, got %d", len(evals))
	}

	other, err := s.ListEvaluations(ctx, "user-2", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("other user should see no evaluations, got %d", len(other))
	}

	score := 72.0
	evals[0].Status = models.EvaluationCompleted
	evals[0].ComplianceScore = &score
	if err := s.UpdateEvaluation(ctx, evals[0]); err != nil {
		t.Fatalf("UpdateEvaluation: %v", err)
	}
	got, err := s.GetEvaluation(ctx, evals[0].ID, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ComplianceScore == nil || *got.ComplianceScore != 72.0 {
		t.Errorf("compliance score not persisted: %+v", got)
	}
}

func TestGetEvaluation_notFound(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.GetEvaluation(context.Background(), "missing", "user-1")
	var nf *apperrors.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestCriterionCRUD(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	c := &models.Criterion{
		EvaluationID: "eval-1",
		Name:         "Technical capability",
		Type:         "technical",
		Weight:       2.0,
	}
	if err := s.CreateCriterion(ctx, c); err != nil {
		t.Fatalf("CreateCriterion: %v", err)
	}

	score := 8.5
	assessment := "strong match"
	c.Score = &score
	c.AIAssessment = &assessment
	if err := s.UpdateCriterion(ctx, c); err != nil {
		t.Fatalf("UpdateCriterion: %v", err)
	}

	criteria, err := s.ListCriteria(ctx, "eval-1")
	if err != nil {
		t.Fatalf("ListCriteria: %v", err)
	}
	if len(criteria) != 1 || criteria[0].Score == nil || *criteria[0].Score != 8.5 {
		t.Errorf("unexpected criteria: %+v", criteria)
	}
}

func TestCounts(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.CreateDocument(ctx, &models.Document{
		UserID: "u", Filename: "f", OriginalFilename: "f", FilePath: "/f", FileType: "txt",
	}); err != nil {
		t.Fatal(err)
	}
	docs, err := s.CountDocuments(ctx)
	if err != nil || docs != 1 {
		t.Errorf("CountDocuments = %d, %v", docs, err)
	}
	evals, err := s.CountEvaluations(ctx)
	if err != nil || evals != 0 {
		t.Errorf("CountEvaluations = %d, %v", evals, err)
	}
}
