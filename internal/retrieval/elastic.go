// internal/retrieval/elastic.go
package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"northwind-agent/internal/common/config"
	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/models"
)

var ErrMissingIndex = errors.New("index name is required")

// ElasticRetriever serves fragment searches from an Elasticsearch index
// instead of the in-process lexical index. Documents are expected to be
// indexed with id, text and source fields matching models.Fragment.
type ElasticRetriever struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewElasticRetriever(cfg config.ElasticsearchConfig, log logger.Logger) (*ElasticRetriever, error) {
	if cfg.Index == "" {
		return nil, ErrMissingIndex
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticRetriever{
		client: client,
		index:  cfg.Index,
		logger: log.With(map[string]interface{}{"component": "retriever-es"}),
	}, nil
}

func (r *ElasticRetriever) Search(ctx context.Context, query string, k int) ([]models.Fragment, error) {
	if k <= 0 {
		return nil, nil
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"text": query,
			},
		},
	}
	body, _ := json.Marshal(queryBody)

	from := 0
	req := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &k,
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64 `json:"_score"`
				Source struct {
					ID     string `json:"id"`
					Text   string `json:"text"`
					Source string `json:"source"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	var out []models.Fragment
	for _, h := range parsed.Hits.Hits {
		if h.Score <= 0 {
			continue
		}
		out = append(out, models.Fragment{
			ID:     h.Source.ID,
			Text:   h.Source.Text,
			Source: h.Source.Source,
			Score:  h.Score,
		})
	}
	return out, nil
}
