package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/krshsl/admitwise/backend/models"
	"github.com/krshsl/admitwise/backend/profile"

	"google.golang.org/genai"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash"

	// longer documents are truncated before being sent to the model
	maxPromptChars = 30000
)

// GeminiExtractor asks Gemini to turn document text into ParsedData JSON
type GeminiExtractor struct {
	genaiClient *genai.Client
	model       string
}

func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiExtractor{genaiClient: genaiClient, model: model}, nil
}

func (g *GeminiExtractor) Extract(ctx context.Context, documentType, text string) (*models.ParsedData, error) {
	if strings.TrimSpace(text) == "" {
		return &models.ParsedData{RawText: text}, nil
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You extract structured data from student application documents. Reply with JSON only.",
			genai.RoleUser,
		),
		ResponseMIMEType: "application/json",
	}

	result, err := g.genaiClient.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(buildExtractionPrompt(documentType, text)),
		config,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate extraction: %w", err)
	}

	data, err := parseExtraction(result.Text())
	if err != nil {
		return nil, err
	}
	data.RawText = text
	return data, nil
}

func buildExtractionPrompt(documentType, text string) string {
	text = profile.Truncate(text, maxPromptChars)
	return fmt.Sprintf(`Extract the following from this %s document. Omit any section the document does not mention.

{
  "education": {"institutions": [{"name": "", "degree": "", "field": "", "gpa": 0.0, "graduation_year": 0}]},
  "experience": {"positions": [{"title": "", "company": "", "duration": "", "description": ""}]},
  "skills": {"technical": [], "languages": [{"language": "", "proficiency": ""}], "soft": []},
  "academic_performance": {"gpa": 0.0, "test_scores": [{"name": "", "score": 0, "date": ""}]},
  "preferences": {"study_fields": [], "career_goals": []},
  "contact": {"email": "", "phone": "", "address": "", "linkedin": ""}
}

GPA must be on a 0-4 scale. Degrees should name the level, e.g. "Bachelor of Science".

Document:
%s`, documentType, text)
}

// parseExtraction decodes the model reply, tolerating a fenced code block
func parseExtraction(reply string) (*models.ParsedData, error) {
	cleaned := cleanJSONBlock(reply)
	if cleaned == "" {
		return nil, fmt.Errorf("empty extraction response")
	}

	var data models.ParsedData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}

	if gpa := data.AcademicPerformance; gpa != nil && gpa.GPA != nil && (*gpa.GPA < 0 || *gpa.GPA > 4) {
		gpa.GPA = nil
	}
	return &data, nil
}

func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// FallbackExtractor uses primary and falls back when it fails
type FallbackExtractor struct {
	primary  profile.Extractor
	fallback profile.Extractor
}

func NewFallbackExtractor(primary, fallback profile.Extractor) *FallbackExtractor {
	return &FallbackExtractor{primary: primary, fallback: fallback}
}

func (f *FallbackExtractor) Extract(ctx context.Context, documentType, text string) (*models.ParsedData, error) {
	data, err := f.primary.Extract(ctx, documentType, text)
	if err == nil {
		return data, nil
	}

	extractionFailures.WithLabelValues(extractorName(f.primary)).Inc()
	slog.Warn("Primary extractor failed, using fallback", "error", err, "document_type", documentType)
	return f.fallback.Extract(ctx, documentType, text)
}

func extractorName(e profile.Extractor) string {
	switch v := e.(type) {
	case *GeminiExtractor:
		return "gemini"
	case *profile.RuleExtractor:
		return "rules"
	case *FallbackExtractor:
		return extractorName(v.primary)
	default:
		return "custom"
	}
}
