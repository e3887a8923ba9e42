package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <note-id>",
	Short: "Delete a note and its content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := domain.NoteID(args[0])

		if !deleteForce && !confirmOnTerminal(fmt.Sprintf("Delete note %s? This cannot be undone.", id)) {
			return nil
		}

		if err := notesSvc.Delete(cmd.Context(), domain.UserID(userID), id); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", id)
		return nil
	},
}

func confirmOnTerminal(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
