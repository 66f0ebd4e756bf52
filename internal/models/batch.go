// internal/models/batch.go
package models

// BatchInput is one record of the JSONL batch input.
type BatchInput struct {
	ID         string `json:"id"`
	Question   string `json:"question"`
	FormatHint string `json:"format_hint"`
}

// BatchOutput is one record of the JSONL batch output. A record is emitted
// for every input, including invalid or failed ones.
type BatchOutput struct {
	ID          string      `json:"id"`
	FinalAnswer interface{} `json:"final_answer"`
	SQL         string      `json:"sql"`
	Confidence  float64     `json:"confidence"`
	Explanation string      `json:"explanation"`
	Citations   []string    `json:"citations"`
}
