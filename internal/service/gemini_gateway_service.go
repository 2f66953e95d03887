package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/mcherifi/quizforge/config"
	"github.com/mcherifi/quizforge/internal/apperror"
	"github.com/mcherifi/quizforge/internal/dto"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GenerationGateway performs exactly one round-trip to the external
// generative service per generation attempt. It never retries internally;
// retrying is the caller's decision.
type GenerationGateway interface {
	// UploadSourceFile streams a local document to the model provider's
	// file store and returns a stable handle. The caller is responsible
	// for caching the handle so repeat attempts do not re-upload.
	UploadSourceFile(ctx context.Context, path, originalName string) (string, error)
	// GenerateItems issues a single structured-output completion grounded
	// on a previously uploaded file and returns the raw candidate items.
	GenerateItems(ctx context.Context, params dto.GenerateItemsParams) ([]dto.RawGeneratedItem, error)
}

type geminiGateway struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiGateway(cfg *config.Config) (GenerationGateway, error) {
	if cfg.Generation.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Generation gateway will be non-functional.")
		return &geminiGateway{model: cfg.Generation.Model}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Generation.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	return &geminiGateway{
		client:  client,
		model:   cfg.Generation.Model,
		timeout: time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
	}, nil
}

func (g *geminiGateway) UploadSourceFile(ctx context.Context, path, originalName string) (string, error) {
	if g.client == nil {
		return "", apperror.Upstream("generation service is unavailable", fmt.Errorf("gemini client not initialized"))
	}

	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return "", apperror.Upstream("source file not found on disk", err)
	}
	if _, err := os.Stat(absolutePath); err != nil {
		return "", apperror.Upstream("source file not found on disk", err)
	}

	reader, err := os.Open(absolutePath)
	if err != nil {
		return "", apperror.Upstream("source file could not be read", err)
	}
	defer reader.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(originalName))
	uploaded, err := g.client.UploadFile(ctx, "", reader, &genai.UploadFileOptions{
		DisplayName: originalName,
		MIMEType:    mimeType,
	})
	if err != nil {
		log.Error().Err(err).Str("path", absolutePath).Msg("Failed to upload source document to Gemini")
		return "", apperror.Upstream("failed to upload source document to the generation service", err)
	}
	if uploaded == nil || uploaded.URI == "" {
		return "", apperror.Upstream("failed to upload source document to the generation service", fmt.Errorf("upload response carried no file handle"))
	}

	log.Info().Str("file_uri", uploaded.URI).Str("original_name", originalName).Msg("Source document uploaded to Gemini")
	return uploaded.URI, nil
}

// itemsSchema is the structured-output contract. Every item must declare all
// four keys: the schema cannot make options conditionally absent, so QROC
// items carry an empty array and MCQ items an empty expected_answer. The
// cross-field rules (exactly 4 options, exactly one correct) are enforced
// post-parse by the item validator.
var itemsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"type": {Type: genai.TypeString, Enum: []string{"MCQ", "QROC"}},
					"stem": {Type: genai.TypeString},
					"options": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"content":    {Type: genai.TypeString},
								"is_correct": {Type: genai.TypeBoolean},
							},
							Required: []string{"content", "is_correct"},
						},
					},
					"expected_answer": {Type: genai.TypeString},
				},
				Required: []string{"type", "stem", "options", "expected_answer"},
			},
		},
	},
	Required: []string{"items"},
}

func buildGenerationPrompt(params dto.GenerateItemsParams) string {
	var sb strings.Builder
	sb.WriteString("Tu es un enseignant-chercheur en médecine. À partir du document joint, génère des questions d'examen en français pour le niveau indiqué.\n")
	sb.WriteString("Contraintes:\n")
	sb.WriteString(fmt.Sprintf("- MCQ total: %d\n", params.MCQCount))
	sb.WriteString(fmt.Sprintf("- QROC total: %d\n", params.QROCCount))
	sb.WriteString(fmt.Sprintf("- Cours: %s\n", params.CourseName))
	sb.WriteString(fmt.Sprintf("- Année: %s\n", params.YearOfStudy))
	sb.WriteString(fmt.Sprintf("- Difficulté: %s\n", params.Difficulty))
	if params.UnitName != "" {
		sb.WriteString(fmt.Sprintf("- Unité: %s\n", params.UnitName))
	}
	if params.SubjectName != "" {
		sb.WriteString(fmt.Sprintf("- Module: %s\n", params.SubjectName))
	}
	sb.WriteString("Règles de sortie:\n")
	sb.WriteString("- Les MCQ ont exactement 4 options uniques, 1 seule correcte.\n")
	sb.WriteString("- Les QROC ont une réponse courte attendue et aucune option.\n")
	sb.WriteString("- Respecte strictement le schéma JSON. Aucun champ supplémentaire.")
	return sb.String()
}

// responseExtractor is one strategy for pulling the JSON payload out of a
// completion response. Strategies are probed in priority order; each either
// produces a non-empty string or declines. The external response shape has
// shifted before, so this stays an explicit list rather than one hardcoded
// access path.
type responseExtractor func(resp *genai.GenerateContentResponse) (string, bool)

var responseExtractors = []responseExtractor{
	firstCandidateText,
	anyCandidateText,
	allCandidatesJoined,
}

func firstCandidateText(resp *genai.GenerateContentResponse) (string, bool) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}
	text := joinTextParts(resp.Candidates[0].Content.Parts)
	return text, text != ""
}

func anyCandidateText(resp *genai.GenerateContentResponse) (string, bool) {
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		if text := joinTextParts(candidate.Content.Parts); text != "" {
			return text, true
		}
	}
	return "", false
}

func allCandidatesJoined(resp *genai.GenerateContentResponse) (string, bool) {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		sb.WriteString(joinTextParts(candidate.Content.Parts))
	}
	text := sb.String()
	return text, text != ""
}

func joinTextParts(parts []genai.Part) string {
	var sb strings.Builder
	for _, part := range parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// extractResponseText probes each known response shape in order and fails
// only when every strategy declines.
func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	for _, extract := range responseExtractors {
		if text, ok := extract(resp); ok {
			return text, nil
		}
	}
	return "", fmt.Errorf("no extraction strategy produced content")
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

type generatedPayload struct {
	Items []dto.RawGeneratedItem `json:"items"`
}

// parseGeneratedItems decodes the model's JSON payload. A parse failure is a
// distinct, reported failure, never silently treated as zero items.
func parseGeneratedItems(raw string) ([]dto.RawGeneratedItem, error) {
	var payload generatedPayload
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &payload); err != nil {
		return nil, apperror.Upstream("unable to parse AI response", err)
	}
	return payload.Items, nil
}

func (g *geminiGateway) GenerateItems(ctx context.Context, params dto.GenerateItemsParams) ([]dto.RawGeneratedItem, error) {
	if g.client == nil {
		return nil, apperror.Upstream("generation service is unavailable", fmt.Errorf("gemini client not initialized"))
	}

	// Document-grounded generation is slow; the bound is generous and the
	// only cancellation mechanism for the call.
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	generativeModel := g.client.GenerativeModel(g.model)
	generativeModel.SetTemperature(0.6)
	generativeModel.ResponseMIMEType = "application/json"
	generativeModel.ResponseSchema = itemsSchema
	generativeModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text("You generate medical exam questions formatted exactly as requested.")},
	}

	prompt := buildGenerationPrompt(params)
	log.Info().
		Int("mcq_count", params.MCQCount).
		Int("qroc_count", params.QROCCount).
		Str("model", g.model).
		Msg("Requesting item generation")

	resp, err := generativeModel.GenerateContent(ctx,
		genai.FileData{URI: params.ExternalFileID},
		genai.Text(prompt),
	)
	if err != nil {
		log.Error().Err(err).Str("model", g.model).Msg("Gemini generation request failed")
		return nil, apperror.Upstream("AI failed to generate items", err)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		log.Error().Err(err).Msg("Unexpected Gemini response shape")
		return nil, apperror.Upstream("AI responded without content", err)
	}

	items, err := parseGeneratedItems(text)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse Gemini response")
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.Upstream("AI responded without generated items", nil)
	}

	return items, nil
}
