// internal/retrieval/scorer.go
package retrieval

import (
	"math"
	"strings"
)

// Tokenize lowercases, strips non-alphanumerics and splits on whitespace.
// Index time and query time must use the same rules, so this is the only
// tokenizer in the package.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

// BM25 scores token overlap between a query and indexed fragments using
// Okapi BM25 with the conventional parameters.
type BM25 struct {
	k1      float64
	b       float64
	epsilon float64

	corpus    [][]string
	docLens   []float64
	avgDocLen float64
	// idf per term, with negative values floored per Okapi convention
	idf map[string]float64
	// termFreqs[i][term] = count of term in document i
	termFreqs []map[string]int
}

// NewBM25 indexes the tokenized corpus. An empty corpus is valid and scores
// every query as zero.
func NewBM25(corpus [][]string) *BM25 {
	bm := &BM25{
		k1:        1.5,
		b:         0.75,
		epsilon:   0.25,
		corpus:    corpus,
		docLens:   make([]float64, len(corpus)),
		termFreqs: make([]map[string]int, len(corpus)),
		idf:       make(map[string]float64),
	}

	var total float64
	df := make(map[string]int)
	for i, doc := range corpus {
		bm.docLens[i] = float64(len(doc))
		total += float64(len(doc))

		tf := make(map[string]int, len(doc))
		for _, t := range doc {
			tf[t]++
		}
		bm.termFreqs[i] = tf
		for t := range tf {
			df[t]++
		}
	}
	if len(corpus) > 0 {
		bm.avgDocLen = total / float64(len(corpus))
	}

	n := float64(len(corpus))
	var idfSum float64
	var negative []string
	for t, d := range df {
		idf := math.Log(n-float64(d)+0.5) - math.Log(float64(d)+0.5)
		bm.idf[t] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, t)
		}
	}
	if len(df) > 0 {
		avgIDF := idfSum / float64(len(df))
		floor := bm.epsilon * avgIDF
		for _, t := range negative {
			bm.idf[t] = floor
		}
	}

	return bm
}

// Scores returns one BM25 score per indexed fragment, in index order.
func (bm *BM25) Scores(queryTokens []string) []float64 {
	scores := make([]float64, len(bm.corpus))
	for _, q := range queryTokens {
		idf, ok := bm.idf[q]
		if !ok {
			continue
		}
		for i := range bm.corpus {
			f := float64(bm.termFreqs[i][q])
			if f == 0 {
				continue
			}
			denom := f + bm.k1*(1-bm.b+bm.b*bm.docLens[i]/bm.avgDocLen)
			scores[i] += idf * (f * (bm.k1 + 1)) / denom
		}
	}
	return scores
}
