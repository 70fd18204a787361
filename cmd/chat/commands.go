package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-tutor/internal/config"
	historyrepo "github.com/Taichi-iskw/yt-tutor/internal/repository/history"
	indexrepo "github.com/Taichi-iskw/yt-tutor/internal/repository/index"
	"github.com/Taichi-iskw/yt-tutor/internal/repository/ingestcache"
)

// NewChatCmd creates the chat command tree
func NewChatCmd() *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat history operations",
		Long:  `Operations for listing, inspecting and deleting tutoring chats.`,
	}

	chatCmd.AddCommand(newListCmd())
	chatCmd.AddCommand(newHistoryCmd())
	chatCmd.AddCommand(newDeleteCmd())

	return chatCmd
}

// newListCmd creates the chat list command
func newListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List chats for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			format, _ := cmd.Flags().GetString("format")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			dbPool, err := config.NewDatabasePool(ctx, cfg)
			if err != nil {
				return err
			}
			defer dbPool.Close()

			histRepo := historyrepo.NewRepository(dbPool)
			cacheRepo := ingestcache.NewRepository(dbPool)

			summaries, err := histRepo.ListChats(ctx, userID)
			if err != nil {
				return err
			}

			// Attach the video each chat is about, where one exists
			for _, summary := range summaries {
				url, err := cacheRepo.URLForChat(ctx, userID, summary.ChatID)
				if err == nil {
					summary.VideoURL = url
				}
			}

			if format == "json" {
				jsonBytes, err := json.MarshalIndent(summaries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(jsonBytes))
				return nil
			}

			if len(summaries) == 0 {
				fmt.Println("No chats found.")
				return nil
			}
			for _, summary := range summaries {
				fmt.Printf("%s  (%d messages)", summary.ChatID, summary.MessageCount)
				if summary.VideoURL != "" {
					fmt.Printf("  %s", summary.VideoURL)
				}
				fmt.Println()
			}

			return nil
		},
	}

	listCmd.Flags().StringP("user", "u", "", "User ID")
	listCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	listCmd.MarkFlagRequired("user")

	return listCmd
}

// newHistoryCmd creates the chat history command
func newHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history [CHAT_ID]",
		Short: "Show full history of a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID := args[0]
			userID, _ := cmd.Flags().GetString("user")
			format, _ := cmd.Flags().GetString("format")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			dbPool, err := config.NewDatabasePool(ctx, cfg)
			if err != nil {
				return err
			}
			defer dbPool.Close()

			histRepo := historyrepo.NewRepository(dbPool)
			messages, err := histRepo.LoadAll(ctx, userID, chatID)
			if err != nil {
				return err
			}

			if format == "json" {
				jsonBytes, err := json.MarshalIndent(messages, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(jsonBytes))
				return nil
			}

			for _, message := range messages {
				fmt.Printf("[%s] %s: %s\n",
					message.CreatedAt.Format(time.RFC3339),
					message.Role,
					message.Content)
			}

			return nil
		},
	}

	historyCmd.Flags().StringP("user", "u", "", "User ID")
	historyCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	historyCmd.MarkFlagRequired("user")

	return historyCmd
}

// newDeleteCmd creates the chat delete command
func newDeleteCmd() *cobra.Command {
	deleteCmd := &cobra.Command{
		Use:   "delete [CHAT_ID]",
		Short: "Delete a chat and its indexes",
		Long:  `Delete a chat's history, its ingest cache entries and every video index it owns.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID := args[0]
			userID, _ := cmd.Flags().GetString("user")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			dbPool, err := config.NewDatabasePool(ctx, cfg)
			if err != nil {
				return err
			}
			defer dbPool.Close()

			histRepo := historyrepo.NewRepository(dbPool)
			cacheRepo := ingestcache.NewRepository(dbPool)
			idxRepo := indexrepo.NewRepository(dbPool)

			// Indexes first, then the cache entries pointing at them
			handles, err := cacheRepo.HandlesByChat(ctx, userID, chatID)
			if err != nil {
				return err
			}
			for _, handle := range handles {
				if err := idxRepo.DeleteByHandle(ctx, handle); err != nil {
					return err
				}
			}

			if _, err := cacheRepo.DeleteByChat(ctx, userID, chatID); err != nil {
				return err
			}

			deleted, err := histRepo.DeleteChat(ctx, userID, chatID)
			if err != nil {
				return err
			}

			if deleted || len(handles) > 0 {
				fmt.Printf("Deleted chat %s (%d indexes removed).\n", chatID, len(handles))
			} else {
				fmt.Printf("Chat %s not found.\n", chatID)
			}

			return nil
		},
	}

	deleteCmd.Flags().StringP("user", "u", "", "User ID")
	deleteCmd.MarkFlagRequired("user")

	return deleteCmd
}
