// cmd/agent/root.go
package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "Question answering agent over the Northwind dataset and its document corpus",
	Long: `agent answers analytical questions by routing each one through a
workflow: classification, document retrieval, constraint planning, SQL
generation with bounded self-repair, execution, and answer synthesis.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(schemaCmd)
}
