package scanqueue

import "sync"

// LookAwayFrames is how many consecutive frames without the locked code must
// pass before the same code may be accepted again.
const LookAwayFrames = 15

// MaxDecodeError rejects camera reads whose average decode error suggests a
// misread rather than a clean scan.
const MaxDecodeError = 0.1

// Frame is one camera decode attempt. Code is empty when the frame showed no
// barcode at all.
type Frame struct {
	Code        string  `json:"code"`
	DecodeError float64 `json:"decodeError"`
}

// FrameFilter debounces a continuous camera decode stream into discrete
// scans. After accepting a code it locks onto it, so holding the same label
// in front of the camera produces a single scan. The lock releases after the
// operator looks away long enough, or instantly when a different clean code
// appears.
type FrameFilter struct {
	mu     sync.Mutex
	locked string
	missed int
}

func NewFrameFilter() *FrameFilter {
	return &FrameFilter{}
}

// Observe feeds one frame through the filter and reports whether it yields a
// scan to submit.
func (f *FrameFilter) Observe(frame Frame) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.locked != "" {
		if frame.Code == f.locked {
			f.missed = 0
		} else {
			f.missed++
			if f.missed >= LookAwayFrames {
				f.locked = ""
				f.missed = 0
			}
		}
	}

	if frame.Code == "" || frame.DecodeError > MaxDecodeError {
		return "", false
	}
	if frame.Code == f.locked {
		return "", false
	}
	f.locked = frame.Code
	f.missed = 0
	return frame.Code, true
}

// Reset clears the lock so the next clean frame is accepted immediately.
func (f *FrameFilter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locked = ""
	f.missed = 0
}
