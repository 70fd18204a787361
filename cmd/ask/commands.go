package ask

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	askCmd := &cobra.Command{
		Use:   "ask [VIDEO_URL] [QUESTION]",
		Short: "Ask a question about a YouTube video",
		Long: `Ask a question about a YouTube video. The video is ingested on first use
in a chat (transcript and on-screen text) and reused afterwards.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoURL := args[0]
			question := args[1]

			userID, _ := cmd.Flags().GetString("user")
			chatID, _ := cmd.Flags().GetString("chat")
			format, _ := cmd.Flags().GetString("format")

			// First-time ingestion downloads and OCRs the video, so be generous
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()

			service, cleanup, err := NewServiceFactory().CreateService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			answer, err := service.Ask(ctx, userID, chatID, videoURL, question)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				jsonBytes, err := json.MarshalIndent(answer, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(jsonBytes))

			default:
				fmt.Println(answer.Text)
				if len(answer.Timestamps) > 0 {
					fmt.Printf("\nReferenced moments: %s\n", strings.Join(answer.Timestamps, ", "))
				}
			}

			return nil
		},
	}

	askCmd.Flags().StringP("user", "u", "", "User ID owning the chat")
	askCmd.Flags().StringP("chat", "c", "", "Chat ID the video belongs to")
	askCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	askCmd.MarkFlagRequired("user")
	askCmd.MarkFlagRequired("chat")

	return askCmd
}
