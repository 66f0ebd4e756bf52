// internal/retrieval/retriever.go
package retrieval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/models"
)

// Searcher turns a question into a ranked set of cited fragments.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]models.Fragment, error)
}

// LocalRetriever indexes a markdown corpus once and serves lexical searches.
// The index is read-only after construction and safe for concurrent use.
type LocalRetriever struct {
	fragments []models.Fragment
	tokens    [][]string
	bm25      *BM25
	logger    logger.Logger
}

// NewLocalRetriever loads every *.md file under docsDir and indexes it.
// Files are split on "\n## " so a section heading and its defining details
// stay in one fragment; the boundary choice is correctness-relevant, not
// cosmetic.
func NewLocalRetriever(docsDir string, log logger.Logger) (*LocalRetriever, error) {
	paths, err := filepath.Glob(filepath.Join(docsDir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("scan docs dir: %w", err)
	}
	sort.Strings(paths)

	r := &LocalRetriever{
		logger: log.With(map[string]interface{}{"component": "retriever"}),
	}

	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		r.addDocument(filepath.Base(p), string(content))
	}

	r.bm25 = NewBM25(r.tokens)

	r.logger.Info("document index built", map[string]interface{}{
		"files":     len(paths),
		"fragments": len(r.fragments),
	})
	return r, nil
}

// NewLocalRetrieverFromDocs indexes in-memory documents keyed by file name.
// Used by tests and by callers that already hold the corpus.
func NewLocalRetrieverFromDocs(docs map[string]string, log logger.Logger) *LocalRetriever {
	r := &LocalRetriever{
		logger: log.With(map[string]interface{}{"component": "retriever"}),
	}
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.addDocument(name, docs[name])
	}
	r.bm25 = NewBM25(r.tokens)
	return r
}

func (r *LocalRetriever) addDocument(fname, content string) {
	base := strings.TrimSuffix(fname, ".md")
	for i, text := range strings.Split(content, "\n## ") {
		if strings.TrimSpace(text) == "" {
			continue
		}
		// Restore the heading marker the split consumed.
		full := text
		if !strings.HasPrefix(full, "#") {
			full = "## " + full
		}
		r.fragments = append(r.fragments, models.Fragment{
			ID:     fmt.Sprintf("%s::chunk%d", base, i),
			Text:   full,
			Source: fname,
		})
		r.tokens = append(r.tokens, Tokenize(full))
	}
}

// Search returns up to k fragments with strictly positive scores, ordered by
// descending score; ties keep original index order. An empty corpus or an
// all-zero-score query yields an empty result, not an error.
func (r *LocalRetriever) Search(_ context.Context, query string, k int) ([]models.Fragment, error) {
	if len(r.fragments) == 0 || k <= 0 {
		return nil, nil
	}

	scores := r.bm25.Scores(Tokenize(query))

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	var out []models.Fragment
	for _, i := range idx {
		if len(out) >= k {
			break
		}
		if scores[i] <= 0 {
			break
		}
		frag := r.fragments[i]
		frag.Score = scores[i]
		out = append(out, frag)
	}
	return out, nil
}

// FragmentCount reports the index size.
func (r *LocalRetriever) FragmentCount() int {
	return len(r.fragments)
}
