package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new empty note",
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := notesSvc.Create(cmd.Context(), domain.UserID(userID))
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%q)\n", meta.ID, meta.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
