package analysis

import (
	"encoding/json"
	"strings"
)

// Analysis is the structured evaluation data extracted from one completion.
type Analysis struct {
	KeyRequirements []string            `json:"key_requirements"`
	ComplianceScore *float64            `json:"compliance_score"` // 0-100, absent when the model gave none
	RiskAssessment  map[string][]string `json:"risk_assessment"`
	Recommendations []string            `json:"recommendations"`
	Summary         string              `json:"summary"`

	// Degraded is true when raw text could not be parsed as JSON and the
	// whole response was kept as Summary instead.
	Degraded bool `json:"-"`
}

// ParseAnalysis interprets raw completion text as evaluation JSON. Markdown
// code fences and surrounding chatter are stripped before decoding, since
// chat models routinely wrap payloads that way. Missing keys take empty
// defaults. When the text still does not decode, the parser does not fail:
// the entire raw text is kept verbatim as Summary with all structured fields
// empty, because losing a whole response over a formatting slip is worse
// than keeping an unstructured summary.
func ParseAnalysis(raw string) *Analysis {
	cleaned := cleanJSONResponse(raw)
	var a Analysis
	// A valid payload is always a JSON object. Bare "null" would otherwise
	// decode into a zero struct and masquerade as a parsed result.
	if !strings.HasPrefix(cleaned, "{") || json.Unmarshal([]byte(cleaned), &a) != nil {
		return &Analysis{
			Summary:         raw,
			KeyRequirements: []string{},
			RiskAssessment:  map[string][]string{},
			Recommendations: []string{},
			Degraded:        true,
		}
	}
	if a.KeyRequirements == nil {
		a.KeyRequirements = []string{}
	}
	if a.RiskAssessment == nil {
		a.RiskAssessment = map[string][]string{}
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
	return &a
}

// CriterionResult is the structured outcome of scoring one criterion.
type CriterionResult struct {
	Score      *float64 `json:"score"` // 0-10
	Assessment string   `json:"assessment"`
	Evidence   string   `json:"evidence"`
	Degraded   bool     `json:"-"`
}

// ParseCriterion interprets raw completion text as criterion-scoring JSON,
// with the same degrade-not-fail policy as ParseAnalysis.
func ParseCriterion(raw string) *CriterionResult {
	cleaned := cleanJSONResponse(raw)
	var r CriterionResult
	if !strings.HasPrefix(cleaned, "{") || json.Unmarshal([]byte(cleaned), &r) != nil {
		return &CriterionResult{Assessment: raw, Degraded: true}
	}
	return &r
}

// cleanJSONResponse strips markdown code fences and leading/trailing chatter
// around the outermost JSON object.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		content = content[start : end+1]
	}
	return content
}
