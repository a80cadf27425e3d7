package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var output, housing, search string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download submitted applications as XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := resty.New().
				SetBaseURL(serverURL).
				SetTimeout(requestTimeout()).
				R().
				SetContext(cmd.Context()).
				SetQueryParam("housing_location", housing).
				SetQueryParam("search", search).
				Get("/admin/api/v1/applications/export")
			if err != nil {
				return fmt.Errorf("export request failed: %w", err)
			}
			if resp.IsError() {
				return fmt.Errorf("export failed with status %d: %s", resp.StatusCode(), resp.String())
			}
			if output == "" {
				output = fmt.Sprintf("applications_%s.xlsx", time.Now().Format("20060102"))
			}
			if err := os.WriteFile(output, resp.Body(), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(resp.Body()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&housing, "housing", "", "filter by housing location")
	cmd.Flags().StringVar(&search, "search", "", "filter by name")
	return cmd
}
