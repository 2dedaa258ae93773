package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/1broseidon/mditile/internal/config"
	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/1broseidon/mditile/internal/ipc"
	"github.com/1broseidon/mditile/internal/preview"
	"github.com/1broseidon/mditile/internal/tiling"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "cascade":
		os.Exit(runArrange(tiling.ActionCascade, os.Args[2:], os.Stdout))
	case "tile":
		os.Exit(runArrange(tiling.ActionTile, os.Args[2:], os.Stdout))
	case "undo":
		os.Exit(runUndo(os.Args[2:]))
	case "raise":
		os.Exit(runRaise(os.Args[2:]))
	case "frames":
		os.Exit(runFrames(os.Args[2:], os.Stdout))
	case "status":
		os.Exit(runStatus(os.Args[2:], os.Stdout))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "switch":
		os.Exit(runSwitch(os.Args[2:]))
	case "simulate":
		os.Exit(runSimulate(os.Args[2:], os.Stdout))
	case "config":
		os.Exit(runConfig(os.Args[2:], os.Stdout))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mditile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the mditile daemon (foreground)")
	fmt.Fprintln(w, "  cascade             Cascade windows on the active monitor")
	fmt.Fprintln(w, "  tile                Tile windows on the active monitor")
	fmt.Fprintln(w, "  undo                Restore geometry from before the last arrangement")
	fmt.Fprintln(w, "  raise <id>          Bring a window to the front")
	fmt.Fprintln(w, "  frames              List the windows that would be arranged")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload daemon configuration")
	fmt.Fprintln(w, "  switch              Pick a window or arrangement from a rofi/dmenu palette")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  simulate            Arrange a scenario file offline and preview it")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'mditile <command> --help' for command-specific options.")
}

// parseFlags parses args and maps the outcome to an exit code. ok is false
// when the caller should return code immediately.
func parseFlags(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func runArrange(action tiling.Action, args []string, out io.Writer) int {
	fs := flag.NewFlagSet(string(action), flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Print the result as JSON")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mditile %s [--json]\n", action)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "Ask the running daemon to %s the windows on the active monitor.\n", action)
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", action)
		fs.Usage()
		return 2
	}

	res, err := ipc.NewClient().Arrange(action)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return writeJSON(out, res)
	}
	fmt.Fprintln(out, formatResult(*res))
	return 0
}

func formatResult(res tiling.Result) string {
	if res.Frames == 0 {
		return fmt.Sprintf("%s: no frames", res.Action)
	}
	line := fmt.Sprintf("%s: arranged %d of %d frames", res.Action, res.Arranged, res.Frames)
	if res.Action == tiling.ActionTile {
		line += fmt.Sprintf(" (%d rows x %d columns", res.Grid.Rows, res.Grid.Columns)
		if res.Grid.ExtraColumns > 0 {
			line += fmt.Sprintf(", last %d with an extra row", res.Grid.ExtraColumns)
		}
		line += ")"
	}
	return line
}

func runUndo(args []string) int {
	fs := flag.NewFlagSet("undo", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mditile undo")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Restore window geometry from before the last cascade or tile.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "undo takes no arguments")
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().Undo(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runRaise(args []string) int {
	fs := flag.NewFlagSet("raise", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mditile raise <id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Deiconify, focus and raise a window. IDs are listed by 'mditile frames'.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := ipc.NewClient().Raise(id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// parseWindowID accepts decimal or 0x-prefixed hex, as printed by xwininfo.
func parseWindowID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(id), nil
}

func runFrames(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("frames", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Print frames as JSON")
	showPreview := fs.Bool("preview", false, "Draw the pane and frames")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mditile frames [--json|--preview]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the windows the daemon would arrange, in arrangement order.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "frames takes no arguments")
		fs.Usage()
		return 2
	}

	data, err := ipc.NewClient().ListFrames()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch {
	case *jsonOut:
		return writeJSON(out, data)
	case *showPreview:
		pane := desktop.Size{Width: data.Pane.Width, Height: data.Pane.Height}
		fmt.Fprintln(out, preview.Render(data.Frames, pane, preview.TerminalWidth()))
	default:
		writeFrameTable(out, data.Frames)
	}
	return 0
}

func writeFrameTable(out io.Writer, frames []desktop.FrameInfo) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tX\tY\tWIDTH\tHEIGHT\tSTATE\tTITLE")
	for _, f := range frames {
		state := "-"
		switch {
		case f.Iconified:
			state = "iconified"
		case f.Maximized:
			state = "maximized"
		}
		if f.Selected {
			state += "*"
		}
		fmt.Fprintf(tw, "0x%08x\t%d\t%d\t%d\t%d\t%s\t%s\n", f.ID, f.X, f.Y, f.Width, f.Height, state, f.Title)
	}
	tw.Flush()
}

func runStatus(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mditile status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(out, "daemon_running: %v\n", status.DaemonRunning)
	fmt.Fprintf(out, "passes:         %d\n", status.Passes)
	if status.LastAction != "" {
		fmt.Fprintf(out, "last_action:    %s\n", status.LastAction)
	}
	if status.LastRunAt != nil {
		fmt.Fprintf(out, "last_run_at:    %s\n", status.LastRunAt.Format("15:04:05"))
	}
	fmt.Fprintf(out, "can_undo:       %v\n", status.CanUndo)
	fmt.Fprintf(out, "uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mditile reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Reload the daemon configuration and rebind hotkeys.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}

func runConfig(args []string, out io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  mditile config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  mditile config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/mditile/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintln(out, "config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/mditile/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			var err error
			if cfg, err = loadConfig(*path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprint(out, string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

// loadConfig reads path, or the default location when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func writeJSON(out io.Writer, v any) int {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
