// Package search provides a Bleve keyword index over extracted document text.
package search

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/amodvardhan/ai-hub/internal/models"
)

// Result is one search hit.
type Result struct {
	DocumentID string  `json:"document_id"`
	Score      float64 `json:"score"`
}

// indexedDocument is the shape stored in the index. Only completed documents
// are indexed, so Content is always the extracted text.
type indexedDocument struct {
	UserID   string `json:"user_id"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Index is a keyword index over extracted document text, scoped per owner.
type Index struct {
	index bleve.Index
}

// NewIndex creates or opens a Bleve index at path. An existing index is
// reopened so already-ingested documents stay searchable across restarts.
func NewIndex(path string) (*Index, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so query terms
	// match the exact words that appear in the document.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("filename", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("user_id", keywordFieldMapping)
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open search index: %w", openErr)
		}
		return &Index{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &Index{index: index}, nil
}

// IndexDocument indexes a completed document's extracted text under its ID.
func (i *Index) IndexDocument(doc *models.Document) error {
	if doc.ExtractedText == nil {
		return fmt.Errorf("document %s has no extracted text", doc.ID)
	}
	return i.index.Index(doc.ID, indexedDocument{
		UserID:   doc.UserID,
		Filename: doc.OriginalFilename,
		Content:  *doc.ExtractedText,
	})
}

// Search runs a match query over filename and content, restricted to the
// given owner, and returns up to limit hits by descending score.
func (i *Index) Search(userID, queryText string, limit int) ([]Result, error) {
	match := bleve.NewMatchQuery(queryText)
	owner := bleve.NewTermQuery(userID)
	owner.SetField("user_id")
	q := bleve.NewConjunctionQuery(match, owner)

	req := bleve.NewSearchRequest(q)
	req.Size = limit
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	out := make([]Result, len(res.Hits))
	for n, hit := range res.Hits {
		out[n] = Result{DocumentID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// Delete removes a document from the index.
func (i *Index) Delete(documentID string) error {
	return i.index.Delete(documentID)
}

// Close closes the underlying index.
func (i *Index) Close() error {
	return i.index.Close()
}
