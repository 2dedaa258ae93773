package hotkeys

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/1broseidon/mditile/internal/config"
	"github.com/1broseidon/mditile/internal/platform"
	"github.com/1broseidon/mditile/internal/tiling"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/charmbracelet/log"
)

// Arranger is the part of tiling.Arranger bound to hotkeys.
type Arranger interface {
	Arrange(action tiling.Action) (tiling.Result, error)
	Undo() error
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	mu       sync.Mutex
	xu       *xgbutil.XUtil
	root     xproto.Window
	arranger Arranger
	logger   *log.Logger
	launch   func()
}

type binding struct {
	name string
	seq  string
	run  func()
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, arranger Arranger, logger *log.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("backend does not support global hotkeys")
	}
	if logger == nil {
		logger = log.Default()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	h := &Handler{
		xu:       xu,
		root:     accessor.RootWindow(),
		arranger: arranger,
		logger:   logger,
	}
	h.launch = h.launchSwitcher
	return h, nil
}

// Bind grabs every hotkey configured in cfg. A sequence that fails to grab
// is reported but does not stop the others from being bound.
func (h *Handler) Bind(cfg *config.Config) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bindLocked(cfg)
}

// Rebind releases all grabs and binds cfg's hotkeys again.
func (h *Handler) Rebind(cfg *config.Config) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	keybind.Detach(h.xu, h.root)
	xproto.UngrabKey(h.xu.Conn(), xproto.GrabAny, h.root, xproto.ModMaskAny)
	return h.bindLocked(cfg)
}

func (h *Handler) bindLocked(cfg *config.Config) error {
	var errs []error
	for _, b := range bindingsFor(cfg, h.arranger, h.launch, h.logger) {
		if err := h.registerFunc(b.seq, b.run); err != nil {
			errs = append(errs, fmt.Errorf("failed to register %s hotkey %q: %w", b.name, b.seq, err))
			continue
		}
		h.logger.Info("Hotkey registered", "action", b.name, "keys", b.seq)
	}
	return errors.Join(errs...)
}

func (h *Handler) registerFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// launchSwitcher runs "mditile switch" detached so the palette does not
// block the X event loop.
func (h *Handler) launchSwitcher() {
	exe, err := os.Executable()
	if err != nil {
		h.logger.Error("Switcher: failed to find executable", "err", err)
		return
	}
	cmd := exec.Command(exe, "switch")
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		h.logger.Error("Switcher: failed to launch", "err", err)
		return
	}
	go cmd.Wait()
}

// bindingsFor lists the configured hotkeys with their callbacks. Empty
// sequences are skipped.
func bindingsFor(cfg *config.Config, arranger Arranger, launch func(), logger *log.Logger) []binding {
	arrange := func(action tiling.Action) func() {
		return func() {
			logger.Debug("Hotkey triggered", "action", action)
			if _, err := arranger.Arrange(action); err != nil {
				logger.Error("Arrangement failed", "action", action, "err", err)
			}
		}
	}

	all := []binding{
		{name: "cascade", seq: cfg.CascadeHotkey, run: arrange(tiling.ActionCascade)},
		{name: "tile", seq: cfg.TileHotkey, run: arrange(tiling.ActionTile)},
		{name: "undo", seq: cfg.UndoHotkey, run: func() {
			logger.Debug("Hotkey triggered", "action", "undo")
			if err := arranger.Undo(); err != nil {
				logger.Warn("Undo failed", "err", err)
			}
		}},
		{name: "switch", seq: cfg.SwitchHotkey, run: launch},
	}

	out := all[:0]
	for _, b := range all {
		if b.seq != "" {
			out = append(out, b)
		}
	}
	return out
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the lock modifiers, including
// none, so a hotkey fires regardless of lock state.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
