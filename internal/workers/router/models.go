// internal/workers/router/models.go
package router

import "northwind-agent/internal/models"

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	Classification models.Classification `json:"classification"`
	RawLabel       string                `json:"rawLabel"`
	Degraded       bool                  `json:"degraded"`
}
