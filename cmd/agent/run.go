// cmd/agent/run.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"northwind-agent/internal/common/validation"
	"northwind-agent/internal/models"
)

var (
	runInput       string
	runOutput      string
	runMetricsAddr string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Answer a JSONL batch of questions",
	Long: `run reads one JSON record per line ({"id", "question", "format_hint"})
from the input file, answers each question concurrently, and writes one
output record per input line in input order. Invalid records produce a
zero-confidence output record rather than aborting the batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if runMetricsAddr != "" {
			go serveMetrics(a, runMetricsAddr)
		}

		records, err := readBatch(runInput)
		if err != nil {
			return err
		}
		a.log.Info("batch loaded", map[string]interface{}{
			"records": len(records),
			"workers": a.cfg.Workflow.BatchWorkers,
		})

		results := make([]models.BatchOutput, len(records))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.cfg.Workflow.BatchWorkers)

		start := time.Now()
		for i, rec := range records {
			i, rec := i, rec
			g.Go(func() error {
				results[i] = a.answerRecord(gctx, rec)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		a.log.Info("batch finished", map[string]interface{}{
			"records":  len(records),
			"duration": time.Since(start).String(),
		})

		return writeBatch(runOutput, results)
	},
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "JSONL input file (required)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "JSONL output file (default stdout)")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "expose prometheus metrics on this address (e.g. :9090)")
	_ = runCmd.MarkFlagRequired("input")
}

// batchRecord keeps the decoded record together with its raw form so
// schema validation sees exactly what was on the wire.
type batchRecord struct {
	input   models.BatchInput
	raw     map[string]interface{}
	line    int
	decodeE error
}

func readBatch(path string) ([]batchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var records []batchRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		rec := batchRecord{line: line}
		if err := json.Unmarshal(text, &rec.raw); err != nil {
			rec.decodeE = err
		} else {
			// Re-decode into the typed form; a raw record that parsed
			// cannot fail here.
			_ = json.Unmarshal(text, &rec.input)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return records, nil
}

// answerRecord produces the output record for one input. Validation
// failures and run failures degrade to a zero-confidence record so the
// batch always yields one output line per input line.
func (a *app) answerRecord(ctx context.Context, rec batchRecord) models.BatchOutput {
	if rec.decodeE != nil {
		return models.BatchOutput{
			ID:          rec.input.ID,
			Explanation: fmt.Sprintf("Invalid record at line %d: %v", rec.line, rec.decodeE),
			Citations:   []string{},
		}
	}
	if err := validation.ValidateBatchInput(rec.raw); err != nil {
		return models.BatchOutput{
			ID:          rec.input.ID,
			Explanation: fmt.Sprintf("Invalid record at line %d: %v", rec.line, err),
			Citations:   []string{},
		}
	}

	q := models.Question{
		Text:       rec.input.Question,
		FormatHint: models.FormatHint(rec.input.FormatHint),
	}
	final, err := a.agent.Answer(ctx, q)
	if err != nil {
		a.log.Error("run failed", map[string]interface{}{
			"id":    rec.input.ID,
			"error": err.Error(),
		})
		return models.BatchOutput{
			ID:          rec.input.ID,
			Explanation: fmt.Sprintf("Run failed: %v", err),
			Citations:   []string{},
		}
	}

	citations := final.Answer.Citations
	if citations == nil {
		citations = []string{}
	}
	return models.BatchOutput{
		ID:          rec.input.ID,
		FinalAnswer: final.Answer.Value,
		SQL:         final.SQL,
		Confidence:  final.Answer.Confidence,
		Explanation: final.Answer.Explanation,
		Citations:   citations,
	}
}

func writeBatch(path string, results []models.BatchOutput) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return w.Flush()
}

func serveMetrics(a *app, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	a.log.Info("serving metrics", map[string]interface{}{"addr": addr})
	if err := http.ListenAndServe(addr, mux); err != nil {
		a.log.Warn("metrics server stopped", map[string]interface{}{"error": err.Error()})
	}
}
