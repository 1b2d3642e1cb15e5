package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	exportRunID       string
	exportDir         string
	exportFormat      string
	exportAnnotations bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the result tables of a stored run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		result, err := st.GetResult(ctx, exportRunID)
		if err != nil {
			return err
		}
		if result == nil {
			return eris.Errorf("export: run %s has no stored result", exportRunID)
		}

		if exportAnnotations {
			annotations, err := st.ListAnnotations(ctx, exportRunID, 0, 0)
			if err != nil {
				return err
			}
			result.Annotations = annotations
		}

		if err := exportResult(result, exportDir, exportFormat); err != nil {
			return err
		}
		fmt.Printf("tables for run %s written to %s\n", exportRunID, exportDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportRunID, "run", "", "run ID to export (required)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "out", "output directory")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "export format: csv or xlsx")
	exportCmd.Flags().BoolVar(&exportAnnotations, "annotations", false, "include stored frequency annotations")
	_ = exportCmd.MarkFlagRequired("run")
}
