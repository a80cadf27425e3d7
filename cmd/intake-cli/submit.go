package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/service"
)

func newSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <intake.json|->",
		Short: "Validate and submit an intake record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readIntake(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			lg := newLogger()
			defer lg.Sync()

			client := service.NewSubmissionClient(serverURL, requestTimeout(), lg)
			res, err := client.Submit(cmd.Context(), in)
			if err != nil {
				var ve *service.ValidationError
				if errors.As(err, &ve) {
					return fmt.Errorf("validation failed (%s): %s", ve.Rule, ve.Message)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (participant_id=%d)\n", res.Message, res.ParticipantID)
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <intake.json|->",
		Short: "Normalize and validate an intake record without submitting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readIntake(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if _, err := service.PrepareSubmission(in); err != nil {
				var ve *service.ValidationError
				if errors.As(err, &ve) {
					return fmt.Errorf("%s: %s", ve.Rule, ve.Message)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
