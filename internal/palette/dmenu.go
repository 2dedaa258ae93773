package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// picker runs one dmenu-compatible program. Programs differ only in their
// flags and in how they report the chosen row.
type picker struct {
	command    string
	args       []string
	promptFlag string

	// byIndex pickers print the chosen row number; the others echo the label.
	byIndex bool
	// rich pickers understand pango markup, per-row properties, an initial
	// row and a message bar (rofi).
	rich bool
}

var pickers = map[string]picker{
	"rofi": {
		command:    "rofi",
		args:       []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows"},
		promptFlag: "-p",
		byIndex:    true,
		rich:       true,
	},
	"fuzzel": {
		command:    "fuzzel",
		args:       []string{"--dmenu", "--index"},
		promptFlag: "--prompt",
		byIndex:    true,
	},
	"wofi": {
		command:    "wofi",
		args:       []string{"--dmenu"},
		promptFlag: "--prompt",
	},
	"dmenu": {
		command:    "dmenu",
		args:       []string{"-i"},
		promptFlag: "-p",
	},
}

// Show pipes the rows to the program and returns the chosen item.
func (p picker) Show(prompt string, items []Item, message string) (Item, error) {
	rows := p.rows(items)
	if len(rows) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	cmd := exec.Command(p.command, p.commandArgs(prompt, message, initialRow(rows))...)
	cmd.Stdin = strings.NewReader(p.input(rows))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", p.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", p.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}
	return p.choose(selection, rows)
}

// rows drops headers the program cannot show and, for label-matching
// programs, makes every label unique.
func (p picker) rows(items []Item) []Item {
	rows := make([]Item, 0, len(items))
	seen := make(map[string]int)
	for _, item := range items {
		if item.IsHeader {
			if p.rich {
				rows = append(rows, item)
			}
			continue
		}
		item.Label = cleanLabel(item.Label)
		if !p.byIndex {
			if n := seen[item.Label]; n > 0 {
				seen[item.Label]++
				item.Label = fmt.Sprintf("%s (%d)", item.Label, n+1)
			} else {
				seen[item.Label] = 1
			}
		}
		rows = append(rows, item)
	}
	return rows
}

func (p picker) commandArgs(prompt, message string, selected int) []string {
	args := append([]string(nil), p.args...)
	if prompt != "" {
		args = append(args, p.promptFlag, prompt)
	}
	if !p.rich {
		return args
	}
	if selected >= 0 {
		args = append(args, "-selected-row", strconv.Itoa(selected))
	}
	if message != "" {
		args = append(args, "-mesg", message)
	}
	return args
}

func (p picker) input(rows []Item) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = p.line(row)
	}
	return strings.Join(lines, "\n")
}

// line renders one row. Rofi row properties follow a single NUL as
// key\x1fvalue pairs.
func (p picker) line(row Item) string {
	if !p.rich {
		return cleanLabel(row.Label)
	}
	text := html.EscapeString(cleanLabel(row.Label))
	var props []string
	if row.IsHeader {
		text = "<b>" + text + "</b>"
		props = append(props, "nonselectable", "true")
	}
	if row.Meta != "" {
		props = append(props, "meta", strings.NewReplacer("\x00", " ", "\x1f", " ").Replace(row.Meta))
	}
	if len(props) == 0 {
		return text
	}
	return text + "\x00" + strings.Join(props, "\x1f")
}

func (p picker) choose(selection string, rows []Item) (Item, error) {
	if p.byIndex {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(rows) || rows[idx].IsHeader {
				return Item{}, fmt.Errorf("palette: row %d is not selectable", idx)
			}
			return rows[idx], nil
		}
	}
	for _, row := range rows {
		if !row.IsHeader && row.Label == selection {
			return row, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

// initialRow is the first active row, else the first selectable one, or -1.
func initialRow(rows []Item) int {
	first := -1
	for i, row := range rows {
		if row.IsHeader {
			continue
		}
		if row.IsActive {
			return i
		}
		if first == -1 {
			first = i
		}
	}
	return first
}

func cleanLabel(label string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(label))
}

// isCancelExit reports exit status 1 (nothing chosen) or 130 (interrupted).
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	code := exitErr.ExitCode()
	return code == 1 || code == 130
}
