package hotkeys

import (
	"errors"
	"sort"
	"testing"

	"github.com/1broseidon/mditile/internal/config"
	"github.com/1broseidon/mditile/internal/logging"
	"github.com/1broseidon/mditile/internal/tiling"
	"github.com/BurntSushi/xgb/xproto"
)

type fakeArranger struct {
	actions []tiling.Action
	undos   int
	err     error
}

func (f *fakeArranger) Arrange(action tiling.Action) (tiling.Result, error) {
	f.actions = append(f.actions, action)
	return tiling.Result{Action: action}, f.err
}

func (f *fakeArranger) Undo() error {
	f.undos++
	return f.err
}

func TestBindingsFor_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	arr := &fakeArranger{}

	got := bindingsFor(cfg, arr, func() { t.Fatalf("switch is disabled by default") }, logging.Discard())
	if len(got) != 3 {
		t.Fatalf("expected 3 bindings, got %d", len(got))
	}
	wantSeq := []string{cfg.CascadeHotkey, cfg.TileHotkey, cfg.UndoHotkey}
	for i, b := range got {
		if b.seq != wantSeq[i] {
			t.Fatalf("binding %d = %q, want %q", i, b.seq, wantSeq[i])
		}
		b.run()
	}

	if len(arr.actions) != 2 || arr.actions[0] != tiling.ActionCascade || arr.actions[1] != tiling.ActionTile {
		t.Fatalf("unexpected actions %v", arr.actions)
	}
	if arr.undos != 1 {
		t.Fatalf("expected one undo, got %d", arr.undos)
	}
}

func TestBindingsFor_SkipsDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CascadeHotkey = ""
	cfg.UndoHotkey = ""

	cfg.SwitchHotkey = "Mod4-w"
	launched := 0

	got := bindingsFor(cfg, &fakeArranger{}, func() { launched++ }, logging.Discard())
	if len(got) != 2 || got[0].name != "tile" || got[1].name != "switch" {
		t.Fatalf("expected tile and switch bindings, got %+v", got)
	}
	got[1].run()
	if launched != 1 {
		t.Fatalf("expected switch binding to launch the switcher")
	}
}

func TestBindingsFor_ErrorsDoNotPanic(t *testing.T) {
	arr := &fakeArranger{err: errors.New("no display")}
	for _, b := range bindingsFor(config.DefaultConfig(), arr, nil, logging.Discard()) {
		b.run()
	}
	if len(arr.actions) != 2 || arr.undos != 1 {
		t.Fatalf("expected every callback to reach the arranger")
	}
}

func TestIgnoreMasks(t *testing.T) {
	caps := uint16(xproto.ModMaskLock)
	num := uint16(xproto.ModMask2)

	tests := []struct {
		name   string
		num    uint16
		scroll uint16
		want   []uint16
	}{
		{"caps only", 0, 0, []uint16{0, caps}},
		{"caps and numlock", num, 0, []uint16{0, caps, num, caps | num}},
		{"duplicate scroll ignored", num, num, []uint16{0, caps, num, caps | num}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ignoreMasks(caps, tt.num, tt.scroll)
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			want := append([]uint16(nil), tt.want...)
			sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
			if len(got) != len(want) {
				t.Fatalf("ignoreMasks = %v, want %v", got, want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("ignoreMasks = %v, want %v", got, want)
				}
			}
		})
	}
}
