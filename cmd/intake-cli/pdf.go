package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/service"
)

func newPDFCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pdf <intake.json|->",
		Short: "Render an intake record to PDF through the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readIntake(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			lg := newLogger()
			defer lg.Sync()

			url := strings.TrimRight(serverURL, "/") + "/api/pdf"
			pdf, err := service.NewPDFClient(url, requestTimeout(), lg).Generate(cmd.Context(), in)
			if err != nil {
				return err
			}
			if output == "" {
				output = service.PDFFileName(in)
			}
			if err := os.WriteFile(output, pdf, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(pdf))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <Last><First>_Intake.pdf)")
	return cmd
}
