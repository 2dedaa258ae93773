package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/1broseidon/mditile/internal/logging"
	"github.com/1broseidon/mditile/internal/preview"
	"github.com/1broseidon/mditile/internal/scenario"
	"github.com/1broseidon/mditile/internal/tiling"
	"github.com/charmbracelet/log"
)

func runSimulate(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Print the arranged frames as JSON instead of a preview")
	outPath := fs.String("out", "", "Write the arranged desktop as a scenario file")
	before := fs.Bool("before", false, "Also preview the desktop before arranging")
	width := fs.Int("width", 0, "Preview width in columns (default: terminal width)")
	verbose := fs.Bool("verbose", false, "Log each placement to stderr")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mditile simulate [options] <scenario.yaml> <cascade|tile>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Arrange the frames described by a scenario file without a display.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	action, err := tiling.ParseAction(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	sc, err := scenario.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := logging.Discard()
	if *verbose {
		logger = logging.New(os.Stderr, log.DebugLevel)
	}

	wm := sc.Desktop()
	arranger := tiling.NewArranger(tiling.StaticSource(wm), logger)

	cols := *width
	if cols <= 0 {
		cols = preview.TerminalWidth()
	}
	pane := desktop.Size{Width: sc.Pane.Width, Height: sc.Pane.Height}

	if *before && !*jsonOut {
		fmt.Fprintln(out, preview.Render(desktop.Snapshot(wm), pane, cols))
		fmt.Fprintln(out)
	}

	res, err := arranger.Arrange(action)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *outPath != "" {
		data, err := scenario.Capture(wm).Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := os.WriteFile(*outPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *outPath, err)
			return 1
		}
	}

	if *jsonOut {
		return writeJSON(out, struct {
			Result tiling.Result       `json:"result"`
			Frames []desktop.FrameInfo `json:"frames"`
		}{res, desktop.Snapshot(wm)})
	}

	fmt.Fprintln(out, formatResult(res))
	fmt.Fprintln(out, preview.Render(desktop.Snapshot(wm), pane, cols))
	return 0
}
