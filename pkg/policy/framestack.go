package policy

// FrameStack keeps the most recent observation frames of one controller.
// Frames are size*size grayscale images in row-major order.
type FrameStack struct {
	size   int
	depth  int
	frames [][]float32 // oldest first
}

// NewFrameStack returns an empty stack holding depth frames of size*size.
func NewFrameStack(size, depth int) *FrameStack {
	return &FrameStack{
		size:   max(1, size),
		depth:  max(1, depth),
		frames: make([][]float32, 0, max(1, depth)),
	}
}

// FrameLen is the number of pixels of one frame.
func (s *FrameStack) FrameLen() int { return s.size * s.size }

// Depth is the number of stacked frames.
func (s *FrameStack) Depth() int { return s.depth }

// Push appends a frame, dropping the oldest when full. The first frame pushed
// into an empty stack is replicated so the stack is always full after Push.
// The frame slice is copied.
func (s *FrameStack) Push(frame []float32) {
	n := s.FrameLen()
	if len(s.frames) == 0 {
		for range s.depth {
			s.frames = append(s.frames, fit(frame, n))
		}
		return
	}
	if len(s.frames) == s.depth {
		oldest := s.frames[0]
		copy(s.frames, s.frames[1:])
		s.frames = s.frames[:s.depth-1]
		// recycle the oldest buffer
		clear(oldest)
		copy(oldest, frame)
		s.frames = append(s.frames, oldest)
		return
	}
	s.frames = append(s.frames, fit(frame, n))
}

// Stacked returns depth*size*size floats, oldest frame first.
// An empty stack returns zeros.
func (s *FrameStack) Stacked() []float32 {
	n := s.FrameLen()
	if len(s.frames) == 0 {
		return make([]float32, n*s.depth)
	}
	out := make([]float32, 0, n*s.depth)
	for _, f := range s.frames {
		out = append(out, f...)
	}
	return out
}

// Reset forgets every frame.
func (s *FrameStack) Reset() {
	s.frames = s.frames[:0]
}

func fit(frame []float32, n int) []float32 {
	out := make([]float32, n)
	copy(out, frame)
	return out
}
