// Package linequeue holds completed text lines between the goroutine that assembles them
// and the goroutine that consumes them.
package linequeue

import "sync"

// FIFO is a simple queue of lines, safe for one or more producers and consumers.
// If MaxDepth is set the FIFO never holds more lines than that: pushing into a full FIFO
// discards the oldest line.
type FIFO struct {
	sync.Mutex

	ring []string

	readPointer  int
	writePointer int
	elements     int

	allocSize int
	maxDepth  int

	dropped uint64
}

// New creates the FIFO. The ring is grown in multiples of allocSize. maxDepth <= 0 means unbounded.
func New(allocSize int, maxDepth int) *FIFO {
	if allocSize < 1 {
		allocSize = 1
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	return &FIFO{
		ring:      make([]string, allocSize),
		allocSize: allocSize,
		maxDepth:  maxDepth,
	}
}

func (b *FIFO) incrementPointer(ptr *int) {
	*ptr++
	if *ptr >= len(b.ring) {
		*ptr = 0
	}
}

func (b *FIFO) popInternal() (string, bool) {
	if b.elements == 0 {
		return "", false
	}

	e := b.ring[b.readPointer]
	b.ring[b.readPointer] = ""
	b.incrementPointer(&b.readPointer)
	b.elements--

	return e, true
}

// Pop removes and returns the oldest line. ok is false if the FIFO was empty.
func (b *FIFO) Pop() (line string, ok bool) {
	b.Lock()
	defer b.Unlock()

	return b.popInternal()
}

func (b *FIFO) reallocateInternal() {
	n := ((b.elements * 2 / b.allocSize) + 1) * b.allocSize
	if n == len(b.ring) {
		return
	}

	newRing := make([]string, n)

	wrIndex := 0
	for {
		e, ok := b.popInternal()
		if !ok {
			break
		}

		newRing[wrIndex] = e
		wrIndex++
	}

	b.readPointer = 0
	b.writePointer = wrIndex
	b.elements = wrIndex
	b.ring = newRing
}

// Reallocate reallocates the internal ring buffer. This can be used to free some memory after an episode of heavy load.
func (b *FIFO) Reallocate() {
	b.Lock()
	defer b.Unlock()

	b.reallocateInternal()
}

// Push appends line to the FIFO. It returns the number of lines queued afterwards and
// whether the oldest line had to be discarded to make room.
func (b *FIFO) Push(line string) (int, bool) {
	b.Lock()
	defer b.Unlock()

	dropped := false
	if b.maxDepth > 0 && b.elements >= b.maxDepth {
		b.popInternal()
		b.dropped++
		dropped = true
	}

	if b.elements == len(b.ring) {
		/* Full, double size */
		b.reallocateInternal()
	}

	b.ring[b.writePointer] = line
	b.incrementPointer(&b.writePointer)
	b.elements++

	return b.elements, dropped
}

// DrainAll removes every queued line and returns them oldest first. The lock is held
// only for the copy. It returns nil if the FIFO was empty.
func (b *FIFO) DrainAll() []string {
	b.Lock()
	defer b.Unlock()

	if b.elements == 0 {
		return nil
	}

	result := make([]string, 0, b.elements)
	for {
		e, ok := b.popInternal()
		if !ok {
			break
		}
		result = append(result, e)
	}

	b.readPointer = 0
	b.writePointer = 0

	return result
}

// Len returns the number of lines in the FIFO
func (b *FIFO) Len() int {
	b.Lock()
	defer b.Unlock()

	return b.elements
}

// Dropped returns how many lines were discarded because the FIFO was full
func (b *FIFO) Dropped() uint64 {
	b.Lock()
	defer b.Unlock()

	return b.dropped
}

// Clear removes all lines from the FIFO and returns how many there were
func (b *FIFO) Clear() int {
	b.Lock()
	defer b.Unlock()

	i := 0
	for ; ; i++ {
		if _, ok := b.popInternal(); !ok {
			break
		}
	}

	b.readPointer = 0
	b.writePointer = 0

	return i
}
