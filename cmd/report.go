package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/communityshield/dispatch/config"
	"github.com/communityshield/dispatch/core/model"
	"github.com/communityshield/dispatch/infra/logger"
	"github.com/communityshield/dispatch/infra/mqtt"
)

var reportSource string

var reportCmd = &cobra.Command{
	Use:   "report [text]",
	Short: "Publish a raw incident report to the broker",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportSource, "source", "CLI", "report source tag")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.MQTT.Broker == "" {
		return fmt.Errorf("no mqtt broker configured")
	}
	mqttCfg := cfg.MQTT
	mqttCfg.ClientID = fmt.Sprintf("report-%d", time.Now().UnixNano())
	client, err := mqtt.Connect(mqttCfg, logger.New("report-command"))
	if err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	defer client.Disconnect(250)

	rep := model.RawReport{
		ID:        uuid.NewString(),
		RawText:   strings.Join(args, " "),
		Source:    reportSource,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	tok := client.Publish(mqttCfg.ReportTopic, mqttCfg.QoS, false, payload)
	if !tok.WaitTimeout(5*time.Second) || tok.Error() != nil {
		return fmt.Errorf("publish report: %v", tok.Error())
	}
	fmt.Println(rep.ID)
	return nil
}
