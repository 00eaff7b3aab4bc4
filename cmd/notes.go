package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/studio-review/blocks"
	"github.com/user/studio-review/db"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage the session notes of a video",
	Long: `Session notes are a block document (headings, lists, to-dos, quotes, code and
dividers) stored as markdown with the video.`,
}

var notesImportCmd = &cobra.Command{
	Use:   "import <file.md>",
	Short: "Replace the session notes with a markdown file",
	Long:  `Read markdown ("-" for stdin) into blocks and store it. Lines the editor has no block for become paragraphs.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		s, err := notesSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		doc := blocks.FromMarkdown(string(data))
		if err := db.SaveSessionNote(s.db, s.video.ID, blocks.ToMarkdown(doc)); err != nil {
			return err
		}
		fmt.Printf("Notes saved: %d block(s).\n", len(doc))
		return nil
	},
}

var notesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the session notes as markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadNotes(cmd)
		if err != nil {
			return err
		}
		return writeOut(cmd, blocks.ToMarkdown(doc)+"\n")
	},
}

var notesRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the session notes to HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadNotes(cmd)
		if err != nil {
			return err
		}
		html, err := blocks.RenderHTML(doc)
		if err != nil {
			return fmt.Errorf("failed to render notes: %w", err)
		}
		return writeOut(cmd, html)
	},
}

var notesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the session notes block by block",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadNotes(cmd)
		if err != nil {
			return err
		}
		for i, b := range doc {
			fmt.Printf("%3d  %-10s %s\n", i+1, b.Type.Label(), showBlock(doc, i))
		}
		return nil
	},
}

// showBlock renders one block as a single plain-text line.
func showBlock(doc []blocks.Block, i int) string {
	b := doc[i]
	switch b.Type {
	case blocks.BulletList:
		return "• " + b.Content
	case blocks.NumberedList:
		return fmt.Sprintf("%d. %s", blocks.ListNumber(doc, i), b.Content)
	case blocks.CheckList:
		if b.Checked {
			return "[x] " + b.Content
		}
		return "[ ] " + b.Content
	case blocks.Quote:
		return "│ " + b.Content
	case blocks.Divider:
		return strings.Repeat("─", 20)
	}
	return b.Content
}

func notesSession(cmd *cobra.Command) (*session, error) {
	videoPath, err := videoFromFlagOrMpv(cmd)
	if err != nil {
		return nil, err
	}
	return openSession(videoPath)
}

// loadNotes returns the stored document, or a new empty one.
func loadNotes(cmd *cobra.Command) ([]blocks.Block, error) {
	s, err := notesSession(cmd)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	n, err := db.SelectSessionNote(s.db, s.video.ID)
	if errors.Is(err, db.ErrNotFound) {
		return blocks.Normalize(nil), nil
	}
	if err != nil {
		return nil, err
	}
	return blocks.FromMarkdown(n.Markdown), nil
}

func writeOut(cmd *cobra.Command, text string) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err := io.WriteString(os.Stdout, text)
		return err
	}
	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("Written to %s\n", out)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{notesImportCmd, notesExportCmd, notesRenderCmd, notesShowCmd} {
		c.Flags().String("video", "", "video file (default: the file mpv is playing)")
	}
	notesExportCmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	notesRenderCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	notesCmd.AddCommand(notesImportCmd, notesExportCmd, notesRenderCmd, notesShowCmd)
	rootCmd.AddCommand(notesCmd)
}
