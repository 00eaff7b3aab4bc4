package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/user/studio-review/annotation"
	"github.com/user/studio-review/db"
	"github.com/user/studio-review/drawing"
	"github.com/user/studio-review/geom"
	"github.com/user/studio-review/pkg/export"
	"github.com/user/studio-review/pkg/timeutil"
)

var annotateCmd = &cobra.Command{
	Use:     "annotate",
	Aliases: []string{"ann"},
	Short:   "Manage drawn annotations",
	Long: `Add, list, edit and export the annotations of a video. Commands act on --video,
or on the file mpv is currently playing.`,
}

var annotateAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an annotation with one shape",
	Long: `Add an annotation at --at (or mpv's current position) holding one shape.
Points are percentages of the picture, written x,y. Shapes no bigger than a click are rejected.

  annotate add --tool arrow --from 20,30 --to 60,45
  annotate add --tool freehand --points "10,10;12,14;15,20"
  annotate add --tool text --from 5,90 --text "Hold the line"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		at, err := timeFromFlagOrMpv(cmd)
		if err != nil {
			return err
		}
		shape, err := shapeFromFlags(cmd)
		if err != nil {
			return err
		}

		a := annotation.New(at, shape)
		a.Label, _ = cmd.Flags().GetString("label")
		if end, _ := cmd.Flags().GetString("end"); end != "" {
			e, err := parseTime(end)
			if err != nil {
				return err
			}
			a.EndTime = annotation.Seconds(e)
		}
		if err := store.Add(a); err != nil {
			return fmt.Errorf("failed to add annotation: %w", err)
		}
		fmt.Printf("Annotation %d added: %s at %s\n", store.Len(), shape.Kind(), timeutil.FormatPrecise(at))
		return nil
	},
}

var annotateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the annotations of a video",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		list := store.All()
		if at, _ := cmd.Flags().GetString("at"); at != "" {
			t, err := parseTime(at)
			if err != nil {
				return err
			}
			list = store.VisibleAt(t)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tLabel\tStart\tEnd\tShapes\tID")
		fmt.Fprintln(w, "-\t-----\t-----\t---\t------\t--")
		for i, a := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, a.DisplayName(i+1),
				timeutil.FormatPrecise(a.StartTime), endString(a), shapeKinds(a), shortID(a.ID))
		}
		w.Flush()

		if len(list) == 0 {
			fmt.Println("\nNo annotations found.")
		} else {
			fmt.Printf("\n%d annotation(s) found.\n", len(list))
		}
		return nil
	},
}

var annotateDeleteCmd = &cobra.Command{
	Use:   "delete <number|id>",
	Short: "Delete an annotation",
	Long:  `Delete an annotation by list number or ID prefix. Prompts for confirmation unless --force is used.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, store, sink, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, a, err := findAnnotation(store.All(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Annotation %d: %s at %s (%s)\n", n, a.DisplayName(n), timeutil.FormatPrecise(a.StartTime), shapeKinds(a))
		if force, _ := cmd.Flags().GetBool("force"); !force && !confirm("Are you sure you want to delete this annotation?") {
			fmt.Println("Deletion cancelled.")
			return nil
		}
		store.Delete(a.ID)
		if err := sink.Err(); err != nil {
			return fmt.Errorf("failed to delete annotation: %w", err)
		}
		fmt.Printf("Annotation %d deleted.\n", n)
		return nil
	},
}

var annotateUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the most recently added annotation",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, store, sink, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		a, ok := store.UndoLast()
		if !ok {
			fmt.Println("Nothing to undo.")
			return nil
		}
		if err := sink.Err(); err != nil {
			return fmt.Errorf("failed to undo: %w", err)
		}
		fmt.Printf("Removed %s at %s.\n", a.DisplayName(store.Len()+1), timeutil.FormatPrecise(a.StartTime))
		return nil
	},
}

var annotateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every annotation of a video",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, store, sink, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n := store.Len()
		if n == 0 {
			fmt.Println("No annotations to clear.")
			return nil
		}
		if force, _ := cmd.Flags().GetBool("force"); !force && !confirm(fmt.Sprintf("Delete all %d annotations?", n)) {
			fmt.Println("Clear cancelled.")
			return nil
		}
		store.Clear()
		if err := sink.Err(); err != nil {
			return fmt.Errorf("failed to clear annotations: %w", err)
		}
		fmt.Printf("%d annotation(s) deleted.\n", n)
		return nil
	},
}

var annotateEndCmd = &cobra.Command{
	Use:   "end <number|id> [time]",
	Short: "Set or remove an annotation's end time",
	Long: `With a time, the annotation ends there. Without one, an annotation that has an end
loses it, and an open one ends at --at (or mpv's current position).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, store, sink, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, a, err := findAnnotation(store.All(), args[0])
		if err != nil {
			return err
		}
		switch {
		case len(args) == 2:
			end, perr := parseTime(args[1])
			if perr != nil {
				return perr
			}
			err = store.SetEndTime(a.ID, annotation.Seconds(end))
		case a.EndTime != nil:
			err = store.SetEndTime(a.ID, nil)
		default:
			at, terr := timeFromFlagOrMpv(cmd)
			if terr != nil {
				return terr
			}
			err = store.ToggleEnd(a.ID, at)
		}
		if err != nil {
			return err
		}
		if err := sink.Err(); err != nil {
			return fmt.Errorf("failed to save annotation: %w", err)
		}
		updated, _ := store.Get(a.ID)
		fmt.Printf("Annotation %d: %s to %s\n", n, timeutil.FormatPrecise(updated.StartTime), endString(updated))
		return nil
	},
}

var annotateLabelCmd = &cobra.Command{
	Use:   "label <number|id> <text>",
	Short: "Name an annotation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, store, sink, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, a, err := findAnnotation(store.All(), args[0])
		if err != nil {
			return err
		}
		store.SetLabel(a.ID, strings.TrimSpace(args[1]))
		if err := sink.Err(); err != nil {
			return fmt.Errorf("failed to save label: %w", err)
		}
		updated, _ := store.Get(a.ID)
		fmt.Printf("Annotation %d is now %q.\n", n, updated.DisplayName(n))
		return nil
	},
}

var annotateExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export annotations as JSON, YAML, markdown or SVG",
	Long: `Write the video's annotations and session notes to --out (stdout when omitted).
The format comes from --format or the file extension. --format svg writes one
picture per annotation into the --out directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		out, _ := cmd.Flags().GetString("out")
		formatName, _ := cmd.Flags().GetString("format")

		if formatName == "svg" {
			if out == "" {
				return fmt.Errorf("--out directory is required for svg")
			}
			w, _ := cmd.Flags().GetFloat64("width")
			h, _ := cmd.Flags().GetFloat64("height")
			paths, err := export.WriteSVGs(out, store.All(), w, h)
			if err != nil {
				return err
			}
			fmt.Printf("%d SVG file(s) written to %s\n", len(paths), out)
			return nil
		}

		var format export.Format
		switch {
		case formatName != "":
			format, err = export.ParseFormat(formatName)
		case out != "":
			format, err = export.FormatFromPath(out)
		default:
			format = export.FormatJSON
		}
		if err != nil {
			return err
		}

		sess, err := sessionExport(s, store.All())
		if err != nil {
			return err
		}
		if out == "" {
			return export.Write(os.Stdout, sess, format)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		if err := export.Write(f, sess, format); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Exported %d annotation(s) to %s\n", len(sess.Annotations), out)
		return nil
	},
}

var annotateImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace annotations from a JSON or YAML export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.FormatFromPath(args[0])
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		sess, err := export.Read(f, format)
		if err != nil {
			return err
		}
		list, err := sess.AnnotationList()
		if err != nil {
			return err
		}

		s, store, sink, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if n := store.Len(); n > 0 {
			if force, _ := cmd.Flags().GetBool("force"); !force && !confirm(fmt.Sprintf("Replace %d existing annotation(s)?", n)) {
				fmt.Println("Import cancelled.")
				return nil
			}
		}
		store.Clear()
		for _, a := range list {
			if err := store.Add(a); err != nil {
				return fmt.Errorf("annotation %s: %w", a.ID, err)
			}
		}
		if err := sink.Err(); err != nil {
			return fmt.Errorf("failed to save annotations: %w", err)
		}
		fmt.Printf("Imported %d annotation(s).\n", len(list))
		return nil
	},
}

var annotateClipCmd = &cobra.Command{
	Use:   "clip <number|id>",
	Short: "Cut the annotation's window into an mp4 with the drawings burned in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, store, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, a, err := findAnnotation(store.All(), args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = export.BuildClipPath(s.video.Path, a.DisplayName(n), max(a.StartTime, 0))
		}
		if _, err := db.EnqueueJob(s.db, s.video.ID, db.JobClip, a.ID, out); err != nil {
			return err
		}
		if wait, _ := cmd.Flags().GetBool("queue"); wait {
			fmt.Println("Clip queued; it is cut the next time the review UI is open.")
			return nil
		}
		fmt.Println("Cutting clip...")
		return runJobs(cmd, s)
	},
}

// openStore opens the session of the command's video and its annotation store.
func openStore(cmd *cobra.Command) (*session, *annotation.Store, *db.AnnotationSink, error) {
	videoPath, err := videoFromFlagOrMpv(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := openSession(videoPath)
	if err != nil {
		return nil, nil, nil, err
	}
	store, sink, err := s.store()
	if err != nil {
		s.Close()
		return nil, nil, nil, err
	}
	return s, store, sink, nil
}

// findAnnotation resolves a 1-based list number or an ID prefix.
func findAnnotation(list []annotation.Annotation, ref string) (int, annotation.Annotation, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list) {
			return 0, annotation.Annotation{}, fmt.Errorf("annotation %d not found (have %d)", n, len(list))
		}
		return n, list[n-1], nil
	}
	found := -1
	for i, a := range list {
		if strings.HasPrefix(a.ID, ref) {
			if found >= 0 {
				return 0, annotation.Annotation{}, fmt.Errorf("annotation ID %q is ambiguous", ref)
			}
			found = i
		}
	}
	if found < 0 {
		return 0, annotation.Annotation{}, fmt.Errorf("annotation %q not found", ref)
	}
	return found + 1, list[found], nil
}

// shapeFromFlags builds one shape through the same rules as drawing with
// the pointer.
func shapeFromFlags(cmd *cobra.Command) (geom.Shape, error) {
	d := app.cfg.DrawingOptions()
	toolName, _ := cmd.Flags().GetString("tool")
	tool := d.Tool
	if toolName != "" {
		t, err := drawing.ParseTool(toolName)
		if err != nil {
			return nil, err
		}
		tool = t
	}
	if tool == drawing.ToolSelect {
		return nil, fmt.Errorf("the select tool does not draw")
	}
	style := geom.Style{ID: uuid.NewString(), Color: d.Color, StrokeWidth: d.StrokeWidth}
	if c, _ := cmd.Flags().GetString("color"); c != "" {
		color, err := geom.ParseColor(c)
		if err != nil {
			return nil, err
		}
		style.Color = color
	}
	if w, _ := cmd.Flags().GetInt("stroke-width"); w > 0 {
		style.StrokeWidth = w
	}

	g := drawing.Gesture{Tool: tool, Style: style, FontSize: d.FontSize}
	g.Text, _ = cmd.Flags().GetString("text")
	if fs, _ := cmd.Flags().GetFloat64("font-size"); fs > 0 {
		g.FontSize = fs
	}

	var err error
	if tool == drawing.ToolFreehand {
		raw, _ := cmd.Flags().GetString("points")
		for _, p := range strings.Split(raw, ";") {
			if strings.TrimSpace(p) == "" {
				continue
			}
			pt, perr := parsePoint(p)
			if perr != nil {
				return nil, perr
			}
			g.Trail = append(g.Trail, pt)
		}
		if len(g.Trail) > 0 {
			g.Start, g.Current = g.Trail[0], g.Trail[len(g.Trail)-1]
		}
	} else {
		from, _ := cmd.Flags().GetString("from")
		if g.Start, err = parsePoint(from); err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
		g.Current = g.Start
		if to, _ := cmd.Flags().GetString("to"); to != "" {
			if g.Current, err = parsePoint(to); err != nil {
				return nil, fmt.Errorf("--to: %w", err)
			}
		}
	}

	shape, ok := drawing.Build(g)
	if !ok {
		return nil, fmt.Errorf("%s is too small to keep (or has no text)", tool.Label())
	}
	return shape, nil
}

// parsePoint reads "x,y" percentages.
func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return geom.Point{}, fmt.Errorf("expected x,y, got %q", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return geom.Point{}, fmt.Errorf("expected x,y, got %q", s)
	}
	if x < 0 || x > 100 || y < 0 || y > 100 {
		return geom.Point{}, fmt.Errorf("point %q is outside 0-100", s)
	}
	return geom.Point{X: x, Y: y}, nil
}

func parseTime(s string) (float64, error) {
	return timeutil.ParseTimeToSeconds(s)
}

func endString(a annotation.Annotation) string {
	if a.EndTime == nil {
		return "open"
	}
	return timeutil.FormatPrecise(*a.EndTime)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shapeKinds(a annotation.Annotation) string {
	kinds := make([]string, len(a.Shapes))
	for i, s := range a.Shapes {
		kinds[i] = string(s.Kind())
	}
	return strings.Join(kinds, ", ")
}

func init() {
	for _, c := range []*cobra.Command{annotateAddCmd, annotateListCmd, annotateDeleteCmd, annotateUndoCmd,
		annotateClearCmd, annotateEndCmd, annotateLabelCmd, annotateExportCmd, annotateImportCmd, annotateClipCmd} {
		c.Flags().String("video", "", "video file (default: the file mpv is playing)")
	}
	for _, c := range []*cobra.Command{annotateAddCmd, annotateListCmd, annotateEndCmd} {
		c.Flags().String("at", "", "time as seconds, M:SS or H:MM:SS (default: mpv's position)")
	}
	for _, c := range []*cobra.Command{annotateDeleteCmd, annotateClearCmd, annotateImportCmd} {
		c.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	}

	annotateAddCmd.Flags().StringP("tool", "t", "", "circle, arrow, line, rectangle, freehand or text (default from config)")
	annotateAddCmd.Flags().StringP("color", "c", "", "red, yellow, green, blue or white (default from config)")
	annotateAddCmd.Flags().Int("stroke-width", 0, "stroke width in pixels (default from config)")
	annotateAddCmd.Flags().String("from", "", "start point x,y in percent")
	annotateAddCmd.Flags().String("to", "", "end point x,y in percent")
	annotateAddCmd.Flags().String("points", "", "freehand points x,y;x,y;...")
	annotateAddCmd.Flags().String("text", "", "content of a text shape")
	annotateAddCmd.Flags().Float64("font-size", 0, "text size in pixels (default from config)")
	annotateAddCmd.Flags().StringP("label", "l", "", "annotation label")
	annotateAddCmd.Flags().String("end", "", "end time (default: open-ended)")

	annotateExportCmd.Flags().StringP("out", "o", "", "output file, or directory for svg")
	annotateExportCmd.Flags().String("format", "", "json, yaml, markdown or svg")
	annotateExportCmd.Flags().Float64("width", 1280, "svg width in pixels")
	annotateExportCmd.Flags().Float64("height", 720, "svg height in pixels")

	annotateClipCmd.Flags().StringP("out", "o", "", "output file (default: clips/ next to the video)")
	annotateClipCmd.Flags().Bool("queue", false, "queue the clip instead of cutting it now")

	annotateCmd.AddCommand(annotateAddCmd, annotateListCmd, annotateDeleteCmd, annotateUndoCmd, annotateClearCmd,
		annotateEndCmd, annotateLabelCmd, annotateExportCmd, annotateImportCmd, annotateClipCmd)
	rootCmd.AddCommand(annotateCmd)
}
