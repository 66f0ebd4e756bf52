// internal/workers/plan/models.go
package plan

type Input struct {
	Question   string `json:"question"`
	DocContext string `json:"docContext"`
}

type Output struct {
	Constraints string `json:"constraints"`
	Degraded    bool   `json:"degraded"`
}
