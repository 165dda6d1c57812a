package linequeue

import (
	"math/rand"
	"strconv"
	"testing"
	"time"
)

func writer(fifo *FIFO, total int) {
	for count := 0; count < total; count++ {
		time.Sleep(time.Duration(rand.Float32()*200) * time.Microsecond)
		fifo.Push(strconv.Itoa(count))
	}
}

func reader(t *testing.T, fifo *FIFO, total int) {
	count := 0
	for count < total {
		time.Sleep(time.Duration(rand.Float32()*200) * time.Microsecond)
		line, ok := fifo.Pop()
		if !ok {
			continue
		}

		if line != strconv.Itoa(count) {
			t.Fatal("Wrong element returned in pop", line, count)
		}
		count++

		if count%1000 == 0 {
			/* Ensure the fifo needs to grow */
			time.Sleep(20 * time.Millisecond)
		}

		if count == 1600 {
			/* Do a reallocation */
			fifo.Reallocate()
			fifo.Reallocate()
		}
	}
}

func TestBasic(t *testing.T) {
	fifo := New(0, 0)

	go writer(fifo, 5000)

	reader(t, fifo, 5000)
}

func TestDrainAllConcurrent(t *testing.T) {
	const total = 5000
	fifo := New(16, 0)

	go writer(fifo, total)

	count := 0
	deadline := time.After(30 * time.Second)
	for count < total {
		select {
		case <-deadline:
			t.Fatal("Timeout, received", count)
		default:
		}

		/* Sometimes skip a tick, sometimes drain twice */
		for n := rand.Intn(3); n > 0; n-- {
			for _, line := range fifo.DrainAll() {
				if line != strconv.Itoa(count) {
					t.Fatal("Wrong element returned in drain", line, count)
				}
				count++
			}
		}
		time.Sleep(time.Duration(rand.Float32()*500) * time.Microsecond)
	}

	if fifo.Len() != 0 {
		t.Error("Elements left after draining everything")
	}
}

func TestDrainAll(t *testing.T) {
	fifo := New(2, 0)

	if fifo.DrainAll() != nil {
		t.Error("Empty drain did not return nil")
	}

	for i := 0; i < 5; i++ {
		fifo.Push(strconv.Itoa(i))
	}
	fifo.Pop()

	lines := fifo.DrainAll()
	if len(lines) != 4 || lines[0] != "1" || lines[3] != "4" {
		t.Error("Wrong drain result", lines)
	}
	if fifo.Len() != 0 {
		t.Error("Drain left elements behind")
	}

	fifo.Push("again")
	if line, ok := fifo.Pop(); !ok || line != "again" {
		t.Error("Push after drain failed", line)
	}
}

func TestEmptyLine(t *testing.T) {
	fifo := New(4, 0)
	fifo.Push("")
	fifo.Push("")

	if fifo.Len() != 2 {
		t.Error("Empty lines not queued")
	}
	if lines := fifo.DrainAll(); len(lines) != 2 {
		t.Error("Empty lines not drained", lines)
	}
}

func TestMaxDepth(t *testing.T) {
	fifo := New(2, 3)

	for i := 0; i < 3; i++ {
		if _, dropped := fifo.Push(strconv.Itoa(i)); dropped {
			t.Error("Dropped before full")
		}
	}

	n, dropped := fifo.Push("3")
	if !dropped || n != 3 {
		t.Error("Full push did not drop", n, dropped)
	}
	fifo.Push("4")

	lines := fifo.DrainAll()
	if len(lines) != 3 || lines[0] != "2" || lines[2] != "4" {
		t.Error("Oldest lines were not the ones dropped", lines)
	}
	if fifo.Dropped() != 2 {
		t.Error("Wrong drop count", fifo.Dropped())
	}
}

func TestClear(t *testing.T) {
	fifo := New(16, 0)
	fifo.Push("a")
	fifo.Push("b")
	fifo.Push("c")

	if fifo.Len() != 3 {
		t.Error("Wrong length returned after 3 insert")
	}

	fifo.Pop()

	if fifo.Len() != 2 {
		t.Error("Wrong length returned after pop")
	}

	if fifo.Clear() != 2 {
		t.Error("Clear returned wrong length")
	}

	if fifo.Len() != 0 {
		t.Error("Wrong length returned after clear")
	}

	fifo.Push("d")

	if fifo.Len() != 1 {
		t.Error("Wrong length returned after clear and insert")
	}
}
