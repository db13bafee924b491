package analysis

import (
	"strings"
	"testing"
)

func TestParseAnalysis_wellFormed(t *testing.T) {
	raw := `{
		"key_requirements": ["req A", "req B"],
		"compliance_score": 72,
		"risk_assessment": {"technical_risks": ["legacy integration"]},
		"recommendations": ["partner with a vendor"],
		"summary": "ok"
	}`
	a := ParseAnalysis(raw)
	if a.Degraded {
		t.Fatal("well-formed JSON should not degrade")
	}
	if len(a.KeyRequirements) != 2 || a.KeyRequirements[0] != "req A" {
		t.Errorf("key_requirements = %v", a.KeyRequirements)
	}
	if a.ComplianceScore == nil || *a.ComplianceScore != 72 {
		t.Errorf("compliance_score = %v", a.ComplianceScore)
	}
	if len(a.RiskAssessment["technical_risks"]) != 1 {
		t.Errorf("risk_assessment = %v", a.RiskAssessment)
	}
	if a.Summary != "ok" {
		t.Errorf("summary = %q", a.Summary)
	}
}

func TestParseAnalysis_missingKeysDefault(t *testing.T) {
	a := ParseAnalysis(`{"summary": "only a summary"}`)
	if a.Degraded {
		t.Fatal("valid JSON should not degrade")
	}
	if a.KeyRequirements == nil || len(a.KeyRequirements) != 0 {
		t.Errorf("key_requirements should default to empty, got %v", a.KeyRequirements)
	}
	if a.RiskAssessment == nil || len(a.RiskAssessment) != 0 {
		t.Errorf("risk_assessment should default to empty, got %v", a.RiskAssessment)
	}
	if a.Recommendations == nil || len(a.Recommendations) != 0 {
		t.Errorf("recommendations should default to empty, got %v", a.Recommendations)
	}
	if a.ComplianceScore != nil {
		t.Errorf("compliance_score should be absent, got %v", *a.ComplianceScore)
	}
}

func TestParseAnalysis_fencedJSON(t *testing.T) {
	raw := "```json\n{\"summary\": \"fenced\", \"compliance_score\": 50}\n```"
	a := ParseAnalysis(raw)
	if a.Degraded {
		t.Fatal("fenced JSON should parse after cleaning")
	}
	if a.Summary != "fenced" || a.ComplianceScore == nil || *a.ComplianceScore != 50 {
		t.Errorf("unexpected analysis: %+v", a)
	}
}

func TestParseAnalysis_degradedVerbatim(t *testing.T) {
	raw := "Sorry, I cannot comply."
	a := ParseAnalysis(raw)
	if !a.Degraded {
		t.Fatal("non-JSON text should degrade")
	}
	if a.Summary != raw {
		t.Errorf("summary should be the raw text verbatim, got %q", a.Summary)
	}
	if len(a.KeyRequirements) != 0 || len(a.RiskAssessment) != 0 || len(a.Recommendations) != 0 {
		t.Errorf("structured fields should be empty: %+v", a)
	}
	if a.ComplianceScore != nil {
		t.Errorf("compliance_score should be nil, got %v", *a.ComplianceScore)
	}
}

func TestParseAnalysis_nonObjectDegrades(t *testing.T) {
	// "null" decodes into a zero struct without error, so it must be caught
	// before unmarshalling rather than by the decode failure path.
	for _, raw := range []string{"null", " null ", "```json\nnull\n```"} {
		a := ParseAnalysis(raw)
		if !a.Degraded {
			t.Errorf("ParseAnalysis(%q) should degrade", raw)
		}
		if a.Summary != raw {
			t.Errorf("ParseAnalysis(%q) summary should be verbatim, got %q", raw, a.Summary)
		}
	}
}

func TestParseAnalysis_neverPanics(t *testing.T) {
	inputs := []string{
		"",
		"{",
		"null",
		"[1, 2, 3]",
		`"just a string"`,
		"{\"risk_assessment\": \"not a map\"}",
		strings.Repeat("}", 100),
	}
	for _, in := range inputs {
		a := ParseAnalysis(in)
		if a == nil {
			t.Fatalf("ParseAnalysis(%q) returned nil", in)
		}
	}
}

func TestParseCriterion(t *testing.T) {
	r := ParseCriterion(`{"score": 8.5, "assessment": "strong", "evidence": "section 2.1"}`)
	if r.Degraded {
		t.Fatal("valid JSON should not degrade")
	}
	if r.Score == nil || *r.Score != 8.5 || r.Assessment != "strong" {
		t.Errorf("unexpected result: %+v", r)
	}

	d := ParseCriterion("no structure here")
	if !d.Degraded || d.Assessment != "no structure here" || d.Score != nil {
		t.Errorf("unexpected degraded result: %+v", d)
	}

	n := ParseCriterion("null")
	if !n.Degraded || n.Assessment != "null" || n.Score != nil {
		t.Errorf("null should degrade verbatim: %+v", n)
	}
}
