package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process <audio.wav>",
	Short: "Run the full pipeline on one recording and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, st, _, err := wire()
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := pipe.Process(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("recording %s\n", rec.ID)
		if rec.Title != "" {
			fmt.Printf("title:    %s\n", rec.Title)
		}
		if rec.Category != "" {
			fmt.Printf("category: %s\n", rec.Category)
		}
		if rec.ErrorMessage != "" {
			fmt.Printf("notes:    %s\n", rec.ErrorMessage)
		}
		fmt.Println()
		fmt.Println(rec.SummaryMarkdown)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
