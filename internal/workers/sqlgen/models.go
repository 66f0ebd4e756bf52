// internal/workers/sqlgen/models.go
package sqlgen

type Input struct {
	Question    string `json:"question"`
	Constraints string `json:"constraints"`
	RetryCount  int    `json:"retryCount"`
	LastError   string `json:"lastError"`
}

type Output struct {
	SQL        string `json:"sqlQuery"`
	Schema     string `json:"schemaContext"`
	RetryCount int    `json:"retryCount"`
	// Err is set when the generator failed to produce a query; it counts
	// against the retry budget exactly like an execution failure.
	Err string `json:"error,omitempty"`
}
