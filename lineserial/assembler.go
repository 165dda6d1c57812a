package lineserial

// Terminator ends a line on the wire. It is not part of the assembled line.
const Terminator = '\n'

// FeedResult tells what LineAssembler.Feed did with a byte
type FeedResult int

const (
	// Pending means the byte was buffered or discarded and no line is complete
	Pending FeedResult = iota
	// Complete means the byte was a terminator and a line is returned
	Complete
	// Overflow means the line grew past the limit and was discarded
	Overflow
)

// LineAssembler collects bytes into lines. A carriage return before the terminator is
// kept. It is not safe for concurrent use; the worker owns it.
type LineAssembler struct {
	buf        []byte
	maxLength  int
	discarding bool
}

// NewLineAssembler creates an assembler. maxLength <= 0 means lines can grow without limit.
func NewLineAssembler(maxLength int) *LineAssembler {
	return &LineAssembler{maxLength: maxLength}
}

// Feed consumes one byte
func (a *LineAssembler) Feed(b byte) (string, FeedResult) {
	if b == Terminator {
		if a.discarding {
			/* End of the over-long line, resume normal operation */
			a.discarding = false
			return "", Pending
		}

		line := string(a.buf)
		a.buf = a.buf[:0]
		return line, Complete
	}

	if a.discarding {
		return "", Pending
	}

	if a.maxLength > 0 && len(a.buf) >= a.maxLength {
		a.buf = a.buf[:0]
		a.discarding = true
		return "", Overflow
	}

	a.buf = append(a.buf, b)
	return "", Pending
}

// FeedBytes consumes p and calls emit for each completed line
func (a *LineAssembler) FeedBytes(p []byte, emit func(line string)) {
	for _, b := range p {
		if line, result := a.Feed(b); result == Complete {
			emit(line)
		}
	}
}

// Partial returns the bytes received since the last terminator
func (a *LineAssembler) Partial() string {
	return string(a.buf)
}

// Reset drops the partial line
func (a *LineAssembler) Reset() {
	a.buf = a.buf[:0]
	a.discarding = false
}
