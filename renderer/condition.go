package renderer

// ConditionSchedule drives the GPU-side visibility condition: the cubes
// are visible for VisibleFrames out of every CycleFrames. An interactive
// override can pin the condition to a fixed value.
type ConditionSchedule struct {
	VisibleFrames uint32
	CycleFrames   uint32

	frames        uint32
	override      bool
	overrideValue bool
}

func NewConditionSchedule() *ConditionSchedule {
	return &ConditionSchedule{
		VisibleFrames: 60,
		CycleFrames:   120,
	}
}

// Advance counts one rendered frame.
func (s *ConditionSchedule) Advance() {
	s.frames++
}

func (s *ConditionSchedule) Frame() uint32 {
	return s.frames
}

// Visible reports whether the condition is true for the current frame.
func (s *ConditionSchedule) Visible() bool {
	if s.override {
		return s.overrideValue
	}
	return s.frames%s.CycleFrames < s.VisibleFrames
}

// ToggleOverride pins the condition to the opposite of its current value,
// or flips the pinned value if already overridden.
func (s *ConditionSchedule) ToggleOverride() {
	if !s.override {
		s.override = true
		s.overrideValue = !s.Visible()
		return
	}
	s.overrideValue = !s.overrideValue
}

// ClearOverride returns control to the frame counter.
func (s *ConditionSchedule) ClearOverride() {
	s.override = false
}

func (s *ConditionSchedule) Overridden() bool {
	return s.override
}
