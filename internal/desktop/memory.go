package desktop

import "sync"

// StaticPane is a pane with fixed dimensions.
type StaticPane struct {
	W int
	H int
}

func (p StaticPane) Width() int  { return p.W }
func (p StaticPane) Height() int { return p.H }

// FrameSpec describes a frame to add to a Memory window manager.
// Position and Size are the normal (non-maximized) bounds.
type FrameSpec struct {
	Title     string
	Position  Point
	Size      Size
	Preferred Size // natural size used by Pack; zero keeps the current size
	Iconified bool
	Maximized bool
}

// Memory is an in-process window manager holding frames in creation order.
// It backs the simulate command and tests.
type Memory struct {
	mu       sync.Mutex
	pane     StaticPane
	frames   []*MemoryFrame
	stacking []*MemoryFrame // bottom to top
	selected *MemoryFrame
	nextID   uint32
}

var _ WindowManager = (*Memory)(nil)

// NewMemory creates an empty desktop with a pane of the given size.
func NewMemory(width, height int) *Memory {
	return &Memory{
		pane:   StaticPane{W: width, H: height},
		nextID: 1,
	}
}

// AddFrame creates a frame on top of the stacking order.
func (m *Memory) AddFrame(spec FrameSpec) *MemoryFrame {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := &MemoryFrame{
		desk:      m,
		id:        m.nextID,
		title:     spec.Title,
		pos:       spec.Position,
		size:      clampSize(spec.Size),
		preferred: clampSize(spec.Preferred),
		iconified: spec.Iconified,
	}
	m.nextID++
	m.frames = append(m.frames, f)
	m.stacking = append(m.stacking, f)

	if spec.Maximized {
		f.maximizeLocked()
	}
	return f
}

// Windows returns the frames in creation order.
func (m *Memory) Windows() []Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Frame, len(m.frames))
	for i, f := range m.frames {
		out[i] = f
	}
	return out
}

// DesktopPane returns the pane.
func (m *Memory) DesktopPane() Pane {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pane
}

// SetSelectedWindow marks frame as the active one. Frames that do not belong
// to this desktop are ignored.
func (m *Memory) SetSelectedWindow(frame Frame) {
	mf, ok := frame.(*MemoryFrame)
	if !ok || mf.desk != m {
		return
	}
	m.mu.Lock()
	m.selected = mf
	m.mu.Unlock()
}

// SelectedWindow returns the selected frame, or nil.
func (m *Memory) SelectedWindow() Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == nil {
		return nil
	}
	return m.selected
}

// Stacking returns frame IDs from bottom to top.
func (m *Memory) Stacking() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]uint32, len(m.stacking))
	for i, f := range m.stacking {
		ids[i] = f.id
	}
	return ids
}

func (m *Memory) raiseLocked(f *MemoryFrame) {
	for i, s := range m.stacking {
		if s == f {
			m.stacking = append(m.stacking[:i], m.stacking[i+1:]...)
			break
		}
	}
	m.stacking = append(m.stacking, f)
}

// MemoryFrame is a frame owned by a Memory window manager.
type MemoryFrame struct {
	desk *Memory

	id        uint32
	title     string
	pos       Point
	size      Size
	preferred Size
	iconified bool
	maximized bool
	restore   struct {
		pos  Point
		size Size
	}
}

var (
	_ Frame         = (*MemoryFrame)(nil)
	_ Raiser        = (*MemoryFrame)(nil)
	_ NormalBounder = (*MemoryFrame)(nil)
)

func (f *MemoryFrame) ID() uint32    { return f.id }
func (f *MemoryFrame) Title() string { return f.title }

func (f *MemoryFrame) Iconified() bool {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()
	return f.iconified
}

func (f *MemoryFrame) SetIconified(iconified bool) {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()
	f.iconified = iconified
}

func (f *MemoryFrame) Maximized() bool {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()
	return f.maximized
}

// SetMaximized fills the pane when set and restores the previous normal
// bounds when cleared.
func (f *MemoryFrame) SetMaximized(maximized bool) {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()

	if maximized == f.maximized {
		return
	}
	if maximized {
		f.maximizeLocked()
		return
	}
	f.maximized = false
	f.pos = f.restore.pos
	f.size = f.restore.size
}

func (f *MemoryFrame) maximizeLocked() {
	f.restore.pos = f.pos
	f.restore.size = f.size
	f.maximized = true
	f.pos = Point{}
	f.size = Size{Width: f.desk.pane.W, Height: f.desk.pane.H}
}

func (f *MemoryFrame) Pack() {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()
	if f.preferred.Width == 0 && f.preferred.Height == 0 {
		return
	}
	f.size = f.preferred
}

// Preferred returns the natural size Pack resizes to.
func (f *MemoryFrame) Preferred() Size {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()
	return f.preferred
}

// NormalBounds returns the bounds the frame has when not maximized.
func (f *MemoryFrame) NormalBounds() (Point, Size) {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()
	if f.maximized {
		return f.restore.pos, f.restore.size
	}
	return f.pos, f.size
}

func (f *MemoryFrame) Size() Size {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()
	return f.size
}

func (f *MemoryFrame) SetSize(size Size) {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()
	f.size = clampSize(size)
}

func (f *MemoryFrame) Position() Point {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()
	return f.pos
}

func (f *MemoryFrame) SetPosition(pos Point) {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()
	f.pos = pos
}

// ToFront moves the frame to the top of the stacking order.
func (f *MemoryFrame) ToFront() {
	f.desk.mu.Lock()
	defer f.desk.mu.Unlock()
	f.desk.raiseLocked(f)
}

func clampSize(s Size) Size {
	if s.Width < 0 {
		s.Width = 0
	}
	if s.Height < 0 {
		s.Height = 0
	}
	return s
}
