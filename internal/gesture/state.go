package gesture

// Progress holds the two sticky checkpoint flags of one direction
type Progress [2]bool

// Entered reports whether the first checkpoint has been passed
func (p Progress) Entered() bool { return p[0] }

// Crossed reports whether the second checkpoint has been passed
func (p Progress) Crossed() bool { return p[1] }

// State is the per-contact gesture state. A recognizer owns exactly one and
// resets it in place at every contact boundary.
type State struct {
	LastX       int
	LastY       int
	HasPosition bool

	Forward Progress
	Reverse Progress

	Fired         bool
	ContactActive bool
	ContactID     string
}

// Progress returns the checkpoint flags of a direction
func (s *State) Progress(d Direction) Progress {
	if d == Reverse {
		return s.Reverse
	}
	return s.Forward
}

func (s *State) progress(d Direction) *Progress {
	if d == Reverse {
		return &s.Reverse
	}
	return &s.Forward
}

func (s *State) reset() {
	*s = State{}
}
