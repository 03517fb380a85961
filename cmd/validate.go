package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <stop_code>",
	Short: "Checks an ATCO stop code and shows the stop's metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  validate,
}

func validate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s := newService(cfg, newLogger(cfg))

	result := s.ValidateStopCode(cmd.Context(), args[0])

	buf, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(buf))

	return nil
}
