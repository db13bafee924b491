// Package evaluation orchestrates the per-evaluation analysis lifecycle:
// state transitions, prompt assembly, the completion call, parsing, and
// persistence.
package evaluation

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/amodvardhan/ai-hub/internal/ai"
	"github.com/amodvardhan/ai-hub/internal/analysis"
	"github.com/amodvardhan/ai-hub/internal/apperrors"
	"github.com/amodvardhan/ai-hub/internal/config"
	"github.com/amodvardhan/ai-hub/internal/models"
	"github.com/amodvardhan/ai-hub/internal/storage"
)

// Service sequences the evaluation pipeline. Each Analyze run mutates only its
// own record, so different evaluations can be analyzed concurrently without
// coordination.
type Service struct {
	storage storage.Storage
	ai      ai.Client
	cfg     *config.AIConfig
	logger  *zap.Logger
}

// NewService creates an evaluation service.
func NewService(store storage.Storage, client ai.Client, cfg *config.AIConfig, logger *zap.Logger) *Service {
	return &Service{
		storage: store,
		ai:      client,
		cfg:     cfg,
		logger:  logger,
	}
}

// Create records a new evaluation in pending status for a document the user
// owns. The backing document must have finished extraction.
func (s *Service) Create(ctx context.Context, userID, documentID, title, rfpType string) (*models.Evaluation, error) {
	doc, err := s.storage.GetDocument(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.DocumentCompleted {
		return nil, apperrors.NewValidation("document processing failed")
	}

	eval := &models.Evaluation{
		UserID:     userID,
		DocumentID: doc.ID,
		RFPTitle:   title,
		RFPType:    rfpType,
		Status:     models.EvaluationPending,
	}
	if err := s.storage.CreateEvaluation(ctx, eval); err != nil {
		return nil, err
	}

	// Tag the document so later listings can tell evaluation uploads apart
	// from bare ones.
	doc.ProjectType = "rfp_evaluation"
	doc.ProjectID = eval.ID
	if err := s.storage.UpdateDocument(ctx, doc); err != nil {
		s.logger.Warn("failed to tag document with evaluation",
			zap.String("document_id", doc.ID), zap.Error(err))
	}

	s.logger.Info("evaluation created",
		zap.String("evaluation_id", eval.ID),
		zap.String("document_id", doc.ID),
	)
	return eval, nil
}

// Analyze runs the AI analysis pipeline for one evaluation:
// load (ownership-scoped) -> mark processing -> prompt -> complete -> parse ->
// write results -> completed. On any failure past the processing write, the
// evaluation is persisted as failed before the error is returned, so a failed
// run is queryable rather than stuck in processing.
func (s *Service) Analyze(ctx context.Context, evaluationID, userID string) (*models.Evaluation, error) {
	eval, err := s.storage.GetEvaluation(ctx, evaluationID, userID)
	if err != nil {
		return nil, err
	}

	doc, err := s.storage.GetDocument(ctx, eval.DocumentID, eval.UserID)
	if err != nil {
		return nil, err
	}
	if doc.ExtractedText == nil || *doc.ExtractedText == "" {
		return nil, apperrors.NewValidation("document text not available")
	}

	// Known gap: no compare-and-swap on status here, so two concurrent
	// Analyze calls on the same evaluation both run and the later write
	// wins. A conditional UPDATE ... WHERE status = 'pending' would close it.
	eval.Status = models.EvaluationProcessing
	if err := s.storage.UpdateEvaluation(ctx, eval); err != nil {
		return nil, err
	}

	if err := s.runAnalysis(ctx, eval, *doc.ExtractedText); err != nil {
		s.markFailed(ctx, eval)
		return nil, err
	}

	s.logger.Info("evaluation completed",
		zap.String("evaluation_id", eval.ID),
		zap.Int("tokens_used", eval.TokensUsed),
	)
	return eval, nil
}

// runAnalysis performs the completion call and persists the parsed result.
func (s *Service) runAnalysis(ctx context.Context, eval *models.Evaluation, text string) error {
	start := time.Now()

	prompt := analysis.AnalysisPrompt(analysis.Truncate(text, s.cfg.MaxPromptChars))
	resp, err := s.ai.Complete(ctx, &ai.Request{
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: prompt}},
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return err
	}

	result := analysis.ParseAnalysis(resp.Content)
	if result.Degraded {
		s.logger.Warn("model output was not valid JSON, keeping raw text as summary",
			zap.String("evaluation_id", eval.ID))
	}

	summary := result.Summary
	eval.EvaluationSummary = &summary
	eval.KeyRequirements = mustJSON(result.KeyRequirements)
	eval.ComplianceScore = result.ComplianceScore
	eval.RiskAssessment = mustJSON(result.RiskAssessment)
	eval.Recommendations = mustJSON(result.Recommendations)
	eval.AIModelUsed = resp.Model
	eval.TokensUsed = resp.TokensUsed
	elapsed := time.Since(start).Milliseconds()
	eval.ProcessingTimeMS = &elapsed
	eval.Status = models.EvaluationCompleted

	return s.storage.UpdateEvaluation(ctx, eval)
}

// markFailed persists the failed status. Scoring fields from the aborted
// attempt are cleared first so a failed evaluation never carries partial
// results.
func (s *Service) markFailed(ctx context.Context, eval *models.Evaluation) {
	eval.Status = models.EvaluationFailed
	eval.EvaluationSummary = nil
	eval.KeyRequirements = nil
	eval.ComplianceScore = nil
	eval.RiskAssessment = nil
	eval.Recommendations = nil
	eval.ProcessingTimeMS = nil
	if err := s.storage.UpdateEvaluation(ctx, eval); err != nil {
		s.logger.Error("failed to persist failed evaluation status",
			zap.String("evaluation_id", eval.ID), zap.Error(err))
	}
}

// Get returns an evaluation scoped to the requesting user.
func (s *Service) Get(ctx context.Context, evaluationID, userID string) (*models.Evaluation, error) {
	return s.storage.GetEvaluation(ctx, evaluationID, userID)
}

// List returns the user's evaluations, newest first.
func (s *Service) List(ctx context.Context, userID string, offset, limit int) ([]*models.Evaluation, error) {
	return s.storage.ListEvaluations(ctx, userID, offset, limit)
}

// AddCriterion attaches a scoring dimension to an evaluation the user owns.
func (s *Service) AddCriterion(ctx context.Context, evaluationID, userID, name, criterionType, description string, weight float64) (*models.Criterion, error) {
	eval, err := s.storage.GetEvaluation(ctx, evaluationID, userID)
	if err != nil {
		return nil, err
	}
	if weight <= 0 {
		weight = 1.0
	}
	c := &models.Criterion{
		EvaluationID: eval.ID,
		Name:         name,
		Type:         criterionType,
		Description:  description,
		Weight:       weight,
	}
	if err := s.storage.CreateCriterion(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ScoreCriterion runs the per-criterion scoring pass against the evaluation's
// document text. Criteria are scored independently of the top-level summary.
func (s *Service) ScoreCriterion(ctx context.Context, criterionID, userID string) (*models.Criterion, error) {
	c, err := s.storage.GetCriterion(ctx, criterionID)
	if err != nil {
		return nil, err
	}
	// Ownership flows through the parent evaluation.
	eval, err := s.storage.GetEvaluation(ctx, c.EvaluationID, userID)
	if err != nil {
		return nil, err
	}
	doc, err := s.storage.GetDocument(ctx, eval.DocumentID, eval.UserID)
	if err != nil {
		return nil, err
	}
	if doc.ExtractedText == nil || *doc.ExtractedText == "" {
		return nil, apperrors.NewValidation("document text not available")
	}

	prompt := analysis.CriterionPrompt(c.Name, c.Type, c.Description,
		analysis.Truncate(*doc.ExtractedText, s.cfg.MaxPromptChars))
	resp, err := s.ai.Complete(ctx, &ai.Request{
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: prompt}},
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	result := analysis.ParseCriterion(resp.Content)
	c.Score = result.Score
	assessment := result.Assessment
	c.AIAssessment = &assessment
	if result.Evidence != "" {
		evidence := result.Evidence
		c.SupportingText = &evidence
	}
	if err := s.storage.UpdateCriterion(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCriteria returns the criteria of an evaluation the user owns.
func (s *Service) ListCriteria(ctx context.Context, evaluationID, userID string) ([]*models.Criterion, error) {
	eval, err := s.storage.GetEvaluation(ctx, evaluationID, userID)
	if err != nil {
		return nil, err
	}
	return s.storage.ListCriteria(ctx, eval.ID)
}

func mustJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
