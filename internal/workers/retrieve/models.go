// internal/workers/retrieve/models.go
package retrieve

import "northwind-agent/internal/models"

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	Fragments  []models.Fragment `json:"fragments"`
	DocContext string            `json:"docContext"`
	Citations  []string          `json:"citations"`
}
