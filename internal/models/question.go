// internal/models/question.go
package models

// FormatHint names the expected shape of a final answer.
type FormatHint string

const (
	FormatInt    FormatHint = "int"
	FormatFloat  FormatHint = "float"
	FormatString FormatHint = "string"
	FormatJSON   FormatHint = "json"
	FormatList   FormatHint = "list"
)

// KnownFormatHints is the closed set accepted on input records.
var KnownFormatHints = []FormatHint{FormatInt, FormatFloat, FormatString, FormatJSON, FormatList}

// IsValid reports whether the hint is one of the known values.
func (f FormatHint) IsValid() bool {
	for _, k := range KnownFormatHints {
		if f == k {
			return true
		}
	}
	return false
}

// Question is the immutable per-run input.
type Question struct {
	Text       string     `json:"question"`
	FormatHint FormatHint `json:"format_hint"`
}

// Classification selects the execution branch for a question.
type Classification string

const (
	ClassDocOnly  Classification = "doc_only"
	ClassDataOnly Classification = "data_only"
	ClassHybrid   Classification = "hybrid"
)
