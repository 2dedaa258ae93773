package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/mditile/internal/ipc"
	"github.com/1broseidon/mditile/internal/palette"
	"github.com/1broseidon/mditile/internal/tiling"
)

// switchClient is the daemon API the switcher needs.
type switchClient interface {
	ListFrames() (*ipc.FramesData, error)
	Arrange(action tiling.Action) (*ipc.ArrangeData, error)
	Undo() error
	Raise(id uint32) error
}

func runSwitch(args []string) int {
	fs := flag.NewFlagSet("switch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backendName := fs.String("backend", "", "Palette backend: auto, rofi, fuzzel, wofi, dmenu (default: palette_backend from config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mditile switch [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a window to raise, or an arrangement to run, from a palette.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "switch takes no arguments")
		fs.Usage()
		return 2
	}

	name := *backendName
	if name == "" {
		cfg, err := loadConfig("")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		name = cfg.PaletteBackend
	}
	backend, err := palette.NewBackend(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := runSwitcher(backend, ipc.NewClient()); err != nil {
		if errors.Is(err, palette.ErrCancelled) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// runSwitcher shows the palette and dispatches the picked entry.
func runSwitcher(backend palette.Backend, client switchClient) error {
	data, err := client.ListFrames()
	if err != nil {
		return err
	}

	message := fmt.Sprintf("%d windows on a %dx%d pane", len(data.Frames), data.Pane.Width, data.Pane.Height)
	item, err := backend.Show("mditile", palette.SwitcherItems(data.Frames), message)
	if err != nil {
		return err
	}
	choice, err := palette.ParseChoice(item)
	if err != nil {
		return err
	}

	switch {
	case choice.RaiseID != 0:
		return client.Raise(choice.RaiseID)
	case choice.Undo:
		return client.Undo()
	default:
		_, err := client.Arrange(choice.Arrange)
		return err
	}
}
