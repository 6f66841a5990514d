package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/user/claimsportal/internal/config"
	"github.com/user/claimsportal/internal/prompt"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Extract structured data from a PDF claim document",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setupLogging(cfg)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}

	counter := prompt.NewCounter(cfg.AzureOpenAI.Model)
	svc := newIngestService(cfg, counter)

	result, err := svc.ProcessPDF(cmd.Context(), data, filepath.Base(args[0]))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
