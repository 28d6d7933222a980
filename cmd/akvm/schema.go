package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akvm/akvm/config"
)

func newSchemaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:    "schema",
		Short:  "Generate JSON schema for configuration",
		Long:   "Generate JSON schema for the akvm configuration file",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bts, err := config.Schema()
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bts))
			return nil
		},
	}
}
