// cmd/agent/schema.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the introspected schema of the known tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		schema, err := a.store.Schema(ctx)
		if err != nil {
			return err
		}
		fmt.Print(schema)
		return nil
	},
}
