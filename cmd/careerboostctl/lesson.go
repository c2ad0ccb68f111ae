package main

import (
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/careerboost-api/internal/usecase"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Build a lesson from a YouTube link",
	RunE:  runLesson,
}

var (
	lessonURL    string
	lessonUserID string
)

func init() {
	lessonCmd.Flags().StringVarP(&lessonURL, "url", "u", "", "YouTube video URL (required)")
	lessonCmd.Flags().StringVar(&lessonUserID, "user", "", "Owner id recorded in history")
	_ = lessonCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(lessonCmd)
}

func runLesson(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	c, err := buildContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	lesson, err := c.Lessons.Process(ctx, usecase.ProcessInput{VideoURL: lessonURL, UserID: lessonUserID})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), lesson)
}
