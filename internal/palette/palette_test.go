package palette

import (
	"strings"
	"testing"

	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/1broseidon/mditile/internal/tiling"
)

func mustPicker(t *testing.T, name string) picker {
	t.Helper()
	p, ok := pickers[name]
	if !ok {
		t.Fatalf("unknown backend %q", name)
	}
	return p
}

func containsArgs(args []string, key, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == key && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestRofiLine_HeaderProperties(t *testing.T) {
	p := mustPicker(t, "rofi")

	out := p.line(Item{Label: "Header", IsHeader: true, Meta: "meta"})

	if got := strings.Count(out, "\x00"); got != 1 {
		t.Fatalf("expected exactly 1 NUL separator, got %d (%q)", got, out)
	}
	if out != "<b>Header</b>\x00nonselectable\x1ftrue\x1fmeta\x1fmeta" {
		t.Fatalf("unexpected header line %q", out)
	}
}

func TestRofiLine_EscapesMarkup(t *testing.T) {
	p := mustPicker(t, "rofi")
	if out := p.line(Item{Label: "a <b> & c\nd"}); out != "a &lt;b&gt; &amp; c d" {
		t.Fatalf("unexpected label %q", out)
	}
}

func TestRofiArgs_OpensOnActiveRow(t *testing.T) {
	p := mustPicker(t, "rofi")
	rows := p.rows([]Item{
		{Label: "head", IsHeader: true},
		{Label: "a"},
		{Label: "b", IsActive: true},
	})
	if len(rows) != 3 {
		t.Fatalf("expected rofi to keep the header, got %d rows", len(rows))
	}

	args := p.commandArgs("windows", "3 frames", initialRow(rows))
	for _, pair := range [][2]string{{"-format", "i"}, {"-selected-row", "2"}, {"-mesg", "3 frames"}, {"-p", "windows"}} {
		if !containsArgs(args, pair[0], pair[1]) {
			t.Fatalf("expected %s %s in args, got %v", pair[0], pair[1], args)
		}
	}
}

func TestPlainPickers_IgnoreRichOptions(t *testing.T) {
	for _, name := range []string{"fuzzel", "wofi", "dmenu"} {
		p := mustPicker(t, name)
		args := p.commandArgs("mditile", "ignored", 1)
		if !containsArgs(args, p.promptFlag, "mditile") {
			t.Fatalf("%s: expected prompt in args, got %v", name, args)
		}
		for _, a := range args {
			if a == "-mesg" || a == "-selected-row" {
				t.Fatalf("%s: unexpected rofi option in %v", name, args)
			}
		}
		if rows := p.rows([]Item{{Label: "head", IsHeader: true}, {Label: "a"}}); len(rows) != 1 {
			t.Fatalf("%s: expected header dropped, got %+v", name, rows)
		}
	}
}

func TestLabelPickers_DisambiguateLabels(t *testing.T) {
	p := mustPicker(t, "dmenu")
	rows := p.rows([]Item{{Label: "xterm"}, {Label: "xterm"}, {Label: "vim"}})

	if input := p.input(rows); input != "xterm\nxterm (2)\nvim" {
		t.Fatalf("unexpected input %q", input)
	}
	if got := initialRow(rows); got != 0 {
		t.Fatalf("expected first row selected, got %d", got)
	}

	got, err := p.choose("xterm (2)", rows)
	if err != nil || got.Label != "xterm (2)" {
		t.Fatalf("choose = %+v, %v", got, err)
	}
	if _, err := p.choose("emacs", rows); err == nil {
		t.Fatalf("expected unknown selection error")
	}
}

func TestIndexPickers_ChooseByRow(t *testing.T) {
	p := mustPicker(t, "rofi")
	rows := p.rows([]Item{{Label: "Arrange", IsHeader: true}, {Label: "a", Action: "x"}, {Label: "b", Action: "y"}})

	got, err := p.choose("2", rows)
	if err != nil || got.Action != "y" {
		t.Fatalf("choose = %+v, %v", got, err)
	}
	for _, sel := range []string{"0", "5", "-1"} {
		if _, err := p.choose(sel, rows); err == nil {
			t.Fatalf("expected error for row %s", sel)
		}
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	if _, err := NewBackend("kitty"); err == nil || !strings.Contains(err.Error(), "unknown palette backend") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
	if ValidName("kitty") || !ValidName("auto") || !ValidName("Rofi") {
		t.Fatalf("unexpected ValidName results")
	}
}

func TestSwitcherItems(t *testing.T) {
	items := SwitcherItems([]desktop.FrameInfo{
		{ID: 7, Title: "editor", Selected: true},
		{ID: 9, Title: "", Iconified: true},
	})

	if len(items) != 7 {
		t.Fatalf("expected 7 items, got %d", len(items))
	}
	editor := items[5]
	if editor.Label != "editor" || !editor.IsActive || editor.Action != "raise:7" {
		t.Fatalf("unexpected editor row %+v", editor)
	}
	if items[6].Label != "0x00000009  (iconified)" {
		t.Fatalf("unexpected untitled row %q", items[6].Label)
	}

	if got := SwitcherItems(nil); len(got) != 4 {
		t.Fatalf("expected only arrangement rows without frames, got %d", len(got))
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		action  string
		want    Choice
		wantErr bool
	}{
		{"cascade", Choice{Arrange: tiling.ActionCascade}, false},
		{"tile", Choice{Arrange: tiling.ActionTile}, false},
		{"undo", Choice{Undo: true}, false},
		{"raise:42", Choice{RaiseID: 42}, false},
		{"raise:0", Choice{}, true},
		{"raise:x", Choice{}, true},
		{"stack", Choice{}, true},
	}
	for _, tt := range tests {
		got, err := ParseChoice(Item{Action: tt.action})
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChoice(%q) error = %v, wantErr %v", tt.action, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseChoice(%q) = %+v, want %+v", tt.action, got, tt.want)
		}
	}
}
