package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/careerboost-api/internal/usecase"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a CV file (pdf, doc, docx)",
	Long:  "Extract the text of a CV, score it against an optional job description and print the analysis JSON.",
	RunE:  runAnalyze,
}

var (
	analyzeFile           string
	analyzeJobDescription string
	analyzeUserID         string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to the CV file (required)")
	analyzeCmd.Flags().StringVar(&analyzeJobDescription, "job-description", "", "Job description to match against")
	analyzeCmd.Flags().StringVar(&analyzeUserID, "user", "", "Owner id recorded in history")
	_ = analyzeCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	f, err := os.Open(analyzeFile)
	if err != nil {
		return fmt.Errorf("failed to open CV: %w", err)
	}
	defer func() { _ = f.Close() }()
	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat CV: %w", err)
	}
	if st.Size() > cfg.MaxUploadBytes() {
		return fmt.Errorf("file too large. Maximum size is %dMB", cfg.MaxUploadMB)
	}

	ctx := cmd.Context()
	c, err := buildContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	analysis, err := c.CV.Analyze(ctx, usecase.AnalyzeInput{
		FileName:       filepath.Base(analyzeFile),
		FileSize:       st.Size(),
		File:           f,
		JobDescription: analyzeJobDescription,
		UserID:         analyzeUserID,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), analysis)
}
