package bridge

import "strings"

// overflowMessage replaces output once a call has emitted more than the
// sink allows.
const overflowMessage = "could not generate output\n"

// sink accumulates interpreter output on two channels. Once the combined
// size would pass max, the emission is dropped, the overflow diagnostic is
// added to the error channel and nothing more is kept until reset.
type sink struct {
	max        int
	out, errs  strings.Builder
	overflowed bool
}

func newSink(limit int) *sink {
	return &sink{max: limit}
}

func (s *sink) write(text string, isError bool) {
	if text == "" || s.overflowed {
		return
	}
	if s.max > 0 && s.out.Len()+s.errs.Len()+len(text) > s.max {
		s.overflowed = true
		s.errs.WriteString(overflowMessage)
		return
	}
	if isError {
		s.errs.WriteString(text)
	} else {
		s.out.WriteString(text)
	}
}

func (s *sink) reset() {
	s.out.Reset()
	s.errs.Reset()
	s.overflowed = false
}

// drain returns both channels and resets the sink.
func (s *sink) drain() (out, errs string) {
	out, errs = s.out.String(), s.errs.String()
	s.reset()
	return out, errs
}
