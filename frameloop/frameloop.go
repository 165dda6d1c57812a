// Package frameloop calls a set of tickers at a fixed rate from a single goroutine, like the
// update loop of a game engine.
package frameloop

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/BertoldVdb/go-lineserial/runstate"
	"go.uber.org/atomic"
)

// Error is the type of the errors returned by Loop
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrorClosed is returned by Run when the loop was closed before or already ran
	ErrorClosed = Error("The frame loop was closed")

	// DefaultInterval is used when Interval is not set (60 frames per second)
	DefaultInterval = time.Second / 60
)

// Ticker is something that wants to be called once per frame
type Ticker interface {
	Tick()
}

// TickerFunc adapts a function to Ticker
type TickerFunc func()

// Tick implements Ticker
func (f TickerFunc) Tick() { f() }

// Loop runs all registered tickers once per Interval, in registration order, on the
// goroutine that called Run. A tick that takes longer than Interval delays the next one;
// missed frames are not caught up.
type Loop struct {
	sync.Mutex

	Interval time.Duration

	tickers []Ticker
	flag    runstate.Flag
	frames  atomic.Uint64
}

// Register adds t to the loop. It may be called while the loop is running.
func (l *Loop) Register(t Ticker) {
	l.Lock()
	defer l.Unlock()

	l.tickers = append(l.tickers, t)
}

// RegisterFunc adds f to the loop
func (l *Loop) RegisterFunc(f func()) {
	l.Register(TickerFunc(f))
}

// Frames returns the number of frames executed so far
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

func (l *Loop) frame() {
	l.Lock()
	tickers := l.tickers
	l.Unlock()

	for _, t := range tickers {
		t.Tick()
	}
	l.frames.Inc()
}

// Run blocks and ticks until Close is called. A Loop can only run once.
func (l *Loop) Run() error {
	if l.flag.Start() != nil {
		return ErrorClosed
	}

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.flag.Chan():
			return nil

		case <-ticker.C:
			/* Close may have happened during the previous frame */
			if !l.flag.Running() {
				return nil
			}
			l.frame()
		}
	}
}

// Close makes Run return after the current frame. It can be called many times.
func (l *Loop) Close() error {
	err := l.flag.Stop()
	if err == runstate.ErrorStopped {
		return ErrorClosed
	}
	return err
}

// HandleSIGTERM closes the loop on SIGINT or SIGTERM. A second signal, or a
// shutdown that takes longer than five seconds, exits the process.
func (l *Loop) HandleSIGTERM() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		go func() {
			select {
			case <-c:
				fmt.Fprintln(os.Stderr, "Pressed ^C a second time, quitting right away.")
			case <-time.After(5 * time.Second):
				fmt.Fprintln(os.Stderr, "Timeout during shutdown, quitting with dirty state.")
			}
			os.Exit(1)
		}()
		l.Close()
	}()
}
