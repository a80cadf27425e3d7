package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	commoncfg "github.com/JakeSchindel1/JHOnboard-sub001/common/config"
	"github.com/JakeSchindel1/JHOnboard-sub001/common/mqtt"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/service"
)

func newWatchCmd() *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print submission events published over MQTT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := commoncfg.MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "intake-cli-watch", QoS: 1}
			cfg.LoadFromEnv("MQTT")
			lg := newLogger()
			defer lg.Sync()

			client, err := mqtt.NewClient(&cfg, lg)
			if err != nil {
				return err
			}
			defer client.Disconnect()

			out := cmd.OutOrStdout()
			err = client.Subscribe(topic, client.QoS(), func(_ string, payload []byte) error {
				var ev service.SubmissionEvent
				if err := json.Unmarshal(payload, &ev); err != nil {
					return fmt.Errorf("unexpected payload: %w", err)
				}
				fmt.Fprintf(out, "%s %s participant_id=%d name=%q intake_date=%s housing=%s",
					ev.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"), ev.Event, ev.ParticipantID, ev.Name, ev.IntakeDate, ev.HousingLocation)
				if ev.PDFKey != "" {
					fmt.Fprintf(out, " pdf_key=%s", ev.PDFKey)
				}
				fmt.Fprintln(out)
				return nil
			})
			if err != nil {
				return err
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sig:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "intake/submitted", "MQTT topic")
	return cmd
}
