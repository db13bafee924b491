// Package document provides the upload and text-extraction pipeline for
// uploaded files.
package document

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/amodvardhan/ai-hub/internal/extract"
	"github.com/amodvardhan/ai-hub/internal/models"
	"github.com/amodvardhan/ai-hub/internal/search"
	"github.com/amodvardhan/ai-hub/internal/storage"
)

// Service owns the document lifecycle: save the uploaded stream, extract its
// text, and persist the outcome. A document leaves Upload in completed or
// failed status, never stuck in processing.
type Service struct {
	storage    storage.Storage
	extractor  *extract.Extractor
	index      *search.Index // optional; nil disables search indexing
	uploadsDir string
	logger     *zap.Logger
}

// NewService creates a document service. index may be nil.
func NewService(store storage.Storage, extractor *extract.Extractor, index *search.Index, uploadsDir string, logger *zap.Logger) *Service {
	return &Service{
		storage:    store,
		extractor:  extractor,
		index:      index,
		uploadsDir: uploadsDir,
		logger:     logger,
	}
}

// Upload saves the stream under a fresh name, creates the Document record,
// and runs extraction. The extension is validated before anything is written,
// so an unsupported format produces no partial state. The returned document
// is in completed status on success; on extraction failure the document is
// persisted as failed and the extraction error is returned.
func (s *Service) Upload(ctx context.Context, r io.Reader, originalFilename, userID string) (*models.Document, error) {
	ext := filepath.Ext(originalFilename)
	format, err := extract.FormatForExt(ext)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	filename := uuid.New().String() + ext
	path := filepath.Join(s.uploadsDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	doc := &models.Document{
		UserID:           userID,
		Filename:         filename,
		OriginalFilename: originalFilename,
		FilePath:         path,
		FileType:         format.String(),
		FileSize:         size,
		Status:           models.DocumentUploaded,
	}
	if err := s.storage.CreateDocument(ctx, doc); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("create document record: %w", err)
	}

	if err := s.process(ctx, doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// IngestFile ingests an existing file on disk (inbox path) on behalf of userID.
func (s *Service) IngestFile(ctx context.Context, path, userID string) (*models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inbox file: %w", err)
	}
	defer f.Close()
	return s.Upload(ctx, f, filepath.Base(path), userID)
}

// process runs extraction for an uploaded document and persists the result.
// On any failure the document status is advanced to failed before returning.
func (s *Service) process(ctx context.Context, doc *models.Document) error {
	doc.Status = models.DocumentProcessing
	if err := s.storage.UpdateDocument(ctx, doc); err != nil {
		return fmt.Errorf("mark document processing: %w", err)
	}

	res, err := s.extractor.Extract(doc.FilePath)
	if err != nil {
		doc.Status = models.DocumentFailed
		if uerr := s.storage.UpdateDocument(ctx, doc); uerr != nil {
			s.logger.Error("failed to persist failed document status",
				zap.String("document_id", doc.ID), zap.Error(uerr))
		}
		return err
	}

	doc.ExtractedText = &res.Text
	doc.Metadata = buildMetadata(res)
	if res.Format == extract.FormatPDF {
		pages := len(res.Units)
		doc.NumPages = &pages
	}
	doc.Status = models.DocumentCompleted
	if err := s.storage.UpdateDocument(ctx, doc); err != nil {
		return fmt.Errorf("persist extracted document: %w", err)
	}

	if s.index != nil {
		if err := s.index.IndexDocument(doc); err != nil {
			// Search is best-effort; the document itself is already durable.
			s.logger.Warn("failed to index document for search",
				zap.String("document_id", doc.ID), zap.Error(err))
		}
	}

	s.logger.Info("document processed",
		zap.String("document_id", doc.ID),
		zap.String("format", res.Format.String()),
		zap.Int("chars", len(res.Text)),
	)
	return nil
}

// Get returns a document scoped to the requesting user.
func (s *Service) Get(ctx context.Context, id, userID string) (*models.Document, error) {
	return s.storage.GetDocument(ctx, id, userID)
}

// List returns the user's documents, newest first.
func (s *Service) List(ctx context.Context, userID string, offset, limit int) ([]*models.Document, error) {
	return s.storage.ListDocuments(ctx, userID, offset, limit)
}

// buildMetadata flattens extraction metadata into the document's JSON column.
func buildMetadata(res *extract.Result) datatypes.JSON {
	meta := map[string]interface{}{"format": res.Format.String()}
	switch res.Format {
	case extract.FormatPDF:
		meta["num_pages"] = len(res.Units)
	case extract.FormatWordDoc:
		meta["num_paragraphs"] = len(res.Units)
	}
	for k, v := range res.Metadata {
		meta[k] = v
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
