package service

import (
	"fmt"
	"strings"

	"github.com/mcherifi/quizforge/internal/dto"
	"github.com/mcherifi/quizforge/internal/model"
)

// The structured-output schema keeps every raw item syntactically well formed
// but cannot express cross-field rules (exact option counts, exactly one
// correct option). Those are enforced here, after parsing. Invalid items are
// dropped, never repaired.

const mcqOptionCount = 4

// NormalizeRawItem trims stem, option text and expected answer and is
// applied to every item, valid or not, before any validity check.
func NormalizeRawItem(item dto.RawGeneratedItem) dto.RawGeneratedItem {
	item.Stem = strings.TrimSpace(item.Stem)
	item.ExpectedAnswer = strings.TrimSpace(item.ExpectedAnswer)
	for i := range item.Options {
		item.Options[i].Content = strings.TrimSpace(item.Options[i].Content)
	}
	return item
}

// IsValidMCQ reports whether a normalized item satisfies the MCQ contract:
// declared type MCQ, exactly 4 options, every option non-empty, exactly one
// option marked correct.
func IsValidMCQ(item dto.RawGeneratedItem) bool {
	if item.Type != string(model.ItemTypeMCQ) {
		return false
	}
	if len(item.Options) != mcqOptionCount {
		return false
	}
	correct := 0
	for _, option := range item.Options {
		if option.Content == "" {
			return false
		}
		if option.IsCorrect {
			correct++
		}
	}
	return correct == 1
}

// IsValidQROC reports whether a normalized item satisfies the QROC contract:
// declared type QROC, zero options, non-empty expected answer.
func IsValidQROC(item dto.RawGeneratedItem) bool {
	if item.Type != string(model.ItemTypeQROC) {
		return false
	}
	if len(item.Options) != 0 {
		return false
	}
	return item.ExpectedAnswer != ""
}

// ValidationReport is operator telemetry about a validation pass. Rejections
// are logged, never surfaced per-item to the end user.
type ValidationReport struct {
	RawCount      int
	AcceptedMCQ   int
	AcceptedQROC  int
	RejectedCount int
	Rejections    []string
}

// ValidateGeneratedBatch normalizes every raw item, filters by declared
// type, slices each type to its requested count and drops items failing the
// per-type contract. The model is instructed to produce the exact counts but
// is not trusted to.
func ValidateGeneratedBatch(raw []dto.RawGeneratedItem, mcqCount, qrocCount int) ([]dto.RawGeneratedItem, ValidationReport) {
	report := ValidationReport{RawCount: len(raw)}

	var mcqs, qrocs []dto.RawGeneratedItem
	for _, item := range raw {
		item = NormalizeRawItem(item)
		switch item.Type {
		case string(model.ItemTypeMCQ):
			mcqs = append(mcqs, item)
		case string(model.ItemTypeQROC):
			qrocs = append(qrocs, item)
		default:
			report.RejectedCount++
			report.Rejections = append(report.Rejections, fmt.Sprintf("unknown item type %q", item.Type))
		}
	}

	if len(mcqs) > mcqCount {
		mcqs = mcqs[:mcqCount]
	}
	if len(qrocs) > qrocCount {
		qrocs = qrocs[:qrocCount]
	}

	var survivors []dto.RawGeneratedItem
	for i, item := range mcqs {
		if IsValidMCQ(item) {
			survivors = append(survivors, item)
			report.AcceptedMCQ++
			continue
		}
		report.RejectedCount++
		report.Rejections = append(report.Rejections, fmt.Sprintf("mcq %d failed structural validation", i+1))
	}
	for i, item := range qrocs {
		if IsValidQROC(item) {
			survivors = append(survivors, item)
			report.AcceptedQROC++
			continue
		}
		report.RejectedCount++
		report.Rejections = append(report.Rejections, fmt.Sprintf("qroc %d failed structural validation", i+1))
	}

	return survivors, report
}
