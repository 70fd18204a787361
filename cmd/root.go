package cmd

import (
	"github.com/spf13/cobra"

	askcmd "github.com/Taichi-iskw/yt-tutor/cmd/ask"
	chatcmd "github.com/Taichi-iskw/yt-tutor/cmd/chat"
	videocmd "github.com/Taichi-iskw/yt-tutor/cmd/video"
)

// NewRootCmd creates the yt-tutor root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "yt-tutor",
		Short: "Ask questions about YouTube videos",
		Long: `yt-tutor answers student questions about educational YouTube videos.

It ingests a video once per chat (transcript plus on-screen text), indexes the
content for similarity search, and grounds every answer in what the video
actually says and shows.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(askcmd.NewAskCmd())
	rootCmd.AddCommand(videocmd.NewVideoCmd())
	rootCmd.AddCommand(chatcmd.NewChatCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
