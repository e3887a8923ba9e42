package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cachesqlite "github.com/Hotate516/kiga-workspace/internal/adapters/cache/sqlite"
	"github.com/Hotate516/kiga-workspace/internal/adapters/editor"
	"github.com/Hotate516/kiga-workspace/internal/app/notesession"
	"github.com/Hotate516/kiga-workspace/internal/config"
	"github.com/Hotate516/kiga-workspace/internal/domain"
)

// terminalNotifier prints transient messages the way the web client toasts
// them.
type terminalNotifier struct{}

func (terminalNotifier) Success(msg string) { fmt.Printf("✔ %s\n", msg) }
func (terminalNotifier) Error(msg string)   { fmt.Printf("✘ %s\n", msg) }

var openCmd = &cobra.Command{
	Use:   "open [note-id]",
	Short: "Open an interactive note session",
	Long: `open starts a note session against the device-local cache: the last
opened note is restored (or the given note selected), typed lines become
paragraphs, and edits survive note switches without an explicit save.

Session commands:
  :notes            list notes
  :open <note-id>   switch note
  :title <text>     set the title
  :new              create a note
  :save             save to the remote store
  :delete           delete the current note
  :quit             leave the session`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		cache, err := cachesqlite.Open(cfg.CachePath)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer cache.Close()

		surface := editor.NewHeadless()
		session := domain.Session{UserID: domain.UserID(userID)}
		ctrl := notesession.NewController(
			session, notesSvc, cache, surface, terminalNotifier{}, confirmOnTerminal,
		)

		ctx := cmd.Context()
		ctrl.Start(ctx)
		if len(args) == 1 {
			ctrl.Select(ctx, domain.NoteID(args[0]))
		}
		if ctrl.CurrentNoteID() == "" {
			return fmt.Errorf("no note could be opened")
		}
		fmt.Printf("editing %q (%s)\n", ctrl.Title(), ctrl.CurrentNoteID())

		var lines []string
		if doc := surface.Content(); !doc.IsEmpty() {
			lines = paragraphLines(doc)
			for _, l := range lines {
				fmt.Println(l)
			}
		}

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, ":") {
				lines = append(lines, line)
				surface.Edit(domain.TextDocument(lines...))
				continue
			}

			cmdWord, rest, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
			switch cmdWord {
			case "quit", "q":
				return nil
			case "notes":
				for _, n := range ctrl.Notes() {
					marker := " "
					if n.ID == ctrl.CurrentNoteID() {
						marker = "*"
					}
					fmt.Printf("%s %s  %s\n", marker, n.ID, n.Title)
				}
			case "open":
				ctrl.Select(ctx, domain.NoteID(strings.TrimSpace(rest)))
				lines = paragraphLines(surface.Content())
				fmt.Printf("editing %q (%s)\n", ctrl.Title(), ctrl.CurrentNoteID())
			case "title":
				ctrl.SetTitle(strings.TrimSpace(rest))
			case "new":
				ctrl.CreatePage(ctx)
				lines = nil
			case "save":
				ctrl.Save(ctx)
			case "delete":
				ctrl.Delete(ctx)
				lines = paragraphLines(surface.Content())
			default:
				fmt.Printf("unknown command %q\n", cmdWord)
			}
		}
		return scanner.Err()
	},
}

// paragraphLines flattens top-level paragraphs back into editable lines.
// This is the CLI's rendering of its own plain documents, not an
// interpretation of arbitrary rich content: unknown structure simply renders
// as its concatenated text.
func paragraphLines(doc domain.Document) []string {
	var lines []string
	for _, node := range doc.Content {
		var b strings.Builder
		collectText(node, &b)
		lines = append(lines, b.String())
	}
	return lines
}

func collectText(node domain.DocumentNode, b *strings.Builder) {
	b.WriteString(node.Text)
	for _, child := range node.Content {
		collectText(child, b)
	}
}

func init() {
	rootCmd.AddCommand(openCmd)
}
