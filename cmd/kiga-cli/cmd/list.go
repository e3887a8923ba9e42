package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, most recently modified first",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := notesSvc.List(cmd.Context(), domain.UserID(userID))
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("no notes")
			return nil
		}
		for _, n := range list {
			fmt.Printf("%s  %s  %s\n", n.ID, n.LastModified.Format("2006-01-02 15:04"), n.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
