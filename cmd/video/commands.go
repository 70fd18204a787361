package video

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewVideoCmd creates the video command tree
func NewVideoCmd() *cobra.Command {
	videoCmd := &cobra.Command{
		Use:   "video",
		Short: "Video ingestion operations",
		Long:  `Operations for ingesting YouTube videos into per-chat indexes.`,
	}

	videoCmd.AddCommand(newIngestCmd())

	return videoCmd
}

// newIngestCmd creates the video ingest command
func newIngestCmd() *cobra.Command {
	ingestCmd := &cobra.Command{
		Use:   "ingest [VIDEO_URL]",
		Short: "Ingest a video for a chat",
		Long: `Extract a video's transcript and on-screen text and index it for a chat.
Ingestion is idempotent: re-running for the same chat and URL reuses the
existing index without rebuilding.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoURL := args[0]

			userID, _ := cmd.Flags().GetString("user")
			chatID, _ := cmd.Flags().GetString("chat")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()

			service, cleanup, err := NewServiceFactory().CreateService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := service.EnsureIndex(ctx, userID, chatID, videoURL)
			if err != nil {
				return err
			}

			if result.Reused {
				fmt.Printf("Video %s already ingested for this chat.\n", result.VideoID)
			} else {
				fmt.Printf("Video %s ingested.\n", result.VideoID)
			}
			fmt.Printf("Index handle: %s\n", result.IndexHandle)

			return nil
		},
	}

	ingestCmd.Flags().StringP("user", "u", "", "User ID owning the chat")
	ingestCmd.Flags().StringP("chat", "c", "", "Chat ID the video belongs to")
	ingestCmd.MarkFlagRequired("user")
	ingestCmd.MarkFlagRequired("chat")

	return ingestCmd
}
