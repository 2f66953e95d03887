package service

import (
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/mcherifi/quizforge/internal/apperror"
	"github.com/mcherifi/quizforge/internal/dto"
)

func textResponse(texts ...string) *genai.GenerateContentResponse {
	resp := &genai.GenerateContentResponse{}
	for _, text := range texts {
		resp.Candidates = append(resp.Candidates, &genai.Candidate{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}},
		})
	}
	return resp
}

func TestExtractResponseText(t *testing.T) {
	t.Run("first candidate wins", func(t *testing.T) {
		text, err := extractResponseText(textResponse("first", "second"))
		if err != nil {
			t.Fatal(err)
		}
		if text != "first" {
			t.Errorf("text = %q, want %q", text, "first")
		}
	})

	t.Run("falls through an empty first candidate", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("payload")}}},
		}}
		text, err := extractResponseText(resp)
		if err != nil {
			t.Fatal(err)
		}
		if text != "payload" {
			t.Errorf("text = %q, want %q", text, "payload")
		}
	})

	t.Run("joins multiple parts of one candidate", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"items"`), genai.Text(`:[]}`)}}},
		}}
		text, err := extractResponseText(resp)
		if err != nil {
			t.Fatal(err)
		}
		if text != `{"items":[]}` {
			t.Errorf("text = %q", text)
		}
	})

	t.Run("no candidates fails every strategy", func(t *testing.T) {
		if _, err := extractResponseText(&genai.GenerateContentResponse{}); err == nil {
			t.Error("expected an error for an empty response")
		}
	})
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json untouched", `{"items":[]}`, `{"items":[]}`},
		{"json fence", "```json\n{\"items\":[]}\n```", `{"items":[]}`},
		{"bare fence", "```\n{\"items\":[]}\n```", `{"items":[]}`},
		{"surrounding whitespace", "  {\"items\":[]}  ", `{"items":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseGeneratedItems(t *testing.T) {
	t.Run("decodes a valid payload", func(t *testing.T) {
		raw := `{"items":[{"type":"QROC","stem":"Name it","options":[],"expected_answer":"X"}]}`
		items, err := parseGeneratedItems(raw)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 1 || items[0].Type != "QROC" || items[0].ExpectedAnswer != "X" {
			t.Errorf("items = %+v", items)
		}
	})

	t.Run("decodes a fenced payload", func(t *testing.T) {
		raw := "```json\n{\"items\":[]}\n```"
		items, err := parseGeneratedItems(raw)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 0 {
			t.Errorf("items = %+v", items)
		}
	})

	t.Run("malformed json is a distinct upstream error", func(t *testing.T) {
		_, err := parseGeneratedItems("this is prose, not JSON")
		if err == nil {
			t.Fatal("expected a parse error")
		}
		if apperror.KindOf(err) != apperror.KindUpstream {
			t.Errorf("kind = %v, want upstream", apperror.KindOf(err))
		}
		if apperror.MessageOf(err) != "unable to parse AI response" {
			t.Errorf("message = %q", apperror.MessageOf(err))
		}
	})
}

func TestBuildGenerationPrompt(t *testing.T) {
	prompt := buildGenerationPrompt(dto.GenerateItemsParams{
		MCQCount:    3,
		QROCCount:   2,
		Difficulty:  "hard",
		CourseName:  "Cardiologie",
		YearOfStudy: "4",
		UnitName:    "UE Coeur",
		SubjectName: "Physiologie",
	})

	for _, fragment := range []string{"3", "2", "hard", "Cardiologie", "UE Coeur", "Physiologie"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
}

func TestItemsSchemaRequiresAllKeys(t *testing.T) {
	items, ok := itemsSchema.Properties["items"]
	if !ok {
		t.Fatal("schema missing items property")
	}
	required := items.Items.Required
	for _, key := range []string{"type", "stem", "options", "expected_answer"} {
		found := false
		for _, r := range required {
			if r == key {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("schema does not require %q", key)
		}
	}
}
