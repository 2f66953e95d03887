package dto

// RawOption is an answer choice exactly as the model produced it, before
// normalization.
type RawOption struct {
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

// RawGeneratedItem is one candidate item as returned by the generative
// model. The structured-output schema keeps all four keys present for every
// item: QROC items carry an empty options array and MCQ items an empty
// expected_answer. Cross-field rules are enforced after parsing, never by
// the schema.
type RawGeneratedItem struct {
	Type           string      `json:"type"`
	Stem           string      `json:"stem"`
	Options        []RawOption `json:"options"`
	ExpectedAnswer string      `json:"expected_answer"`
}

// GenerateItemsParams carries everything the model gateway needs for one
// generation round-trip.
type GenerateItemsParams struct {
	MCQCount       int
	QROCCount      int
	Difficulty     string
	CourseName     string
	YearOfStudy    string
	UnitName       string
	SubjectName    string
	ExternalFileID string
}
