package runstate

import (
	"errors"
	"log"
	"sync"
	"testing"
	"time"
)

func testChannel(ch <-chan (struct{})) bool {
	select {
	case <-ch:
		return true
	case <-time.After(time.Millisecond * 50):
		return false
	}
}

func testInternal(t *testing.T, useChannel bool, useChannelFirst bool, useFunction bool) {
	f := Flag{}

	called := false
	errorFromFunc := errors.New("Error from func")

	if useFunction {
		f.StopFunc = func() error {
			if called {
				t.Error("Stop function called multiple times")
			}
			called = true
			return errorFromFunc
		}
	}

	if f.Running() {
		t.Error("New flag is running")
	}
	if f.Start() != nil {
		t.Error("Start failed")
	}
	if !f.Running() {
		t.Error("Started flag is not running")
	}

	if useChannelFirst {
		if testChannel(f.Chan()) {
			t.Error("Channel was already closed")
		}
	}

	if useFunction {
		if f.Stop() != errorFromFunc {
			t.Error("First stop did not return errorFromFunc")
		}
	} else {
		if f.Stop() != nil {
			t.Error("First stop did not return nil")
		}
	}

	if useFunction && !called {
		t.Error("Stop function was not called")
	}

	if f.Running() {
		t.Error("Stopped flag is running")
	}

	if useChannel {
		if !testChannel(f.Chan()) {
			t.Error("Channel was not closed")
		}
	}

	for i := 0; i < 10; i++ {
		if f.Stop() != ErrorStopped {
			t.Error("Next stop did not return ErrorStopped")
		}
	}

	if f.Start() != ErrorStopped {
		t.Error("Restart of stopped flag was allowed")
	}
}

func TestStop(t *testing.T) {
	for i := 0; i < 8; i++ {
		testInternal(t, i&1 > 0, i&2 > 0, i&4 > 0)
	}
}

func TestStartTwice(t *testing.T) {
	f := Flag{}
	f.Start()
	if f.Start() != ErrorRunning {
		t.Error("Second start did not return ErrorRunning")
	}
}

func TestStopNeverStarted(t *testing.T) {
	f := Flag{}
	if f.Stop() != nil {
		t.Error("Stop of fresh flag failed")
	}
	if f.Running() {
		t.Error("Flag running after stop")
	}
	if f.Stop() != ErrorStopped {
		t.Error("Second stop did not return ErrorStopped")
	}
}

func TestMultiStop(t *testing.T) {
	f := Flag{}
	f.Start()

	called := false
	f.StopFunc = func() error {
		/* Check for deadlock issues */
		f.Stop()

		if called {
			t.Error("Stop func called multiple times")
		}
		called = true
		return nil
	}

	var wg sync.WaitGroup

	/* Start 16 goroutines polling the flag like a worker does */
	wg.Add(16)
	for i := 0; i < 16; i++ {
		go func(i int) {
			defer wg.Done()
			defer f.Stop()

			time.Sleep(time.Duration(i) * 10 * time.Millisecond)
			log.Println("Started poller", i)
			defer log.Println("Closing poller", i)

			timeout := time.After(time.Second)
			for f.Running() {
				select {
				case <-timeout:
					t.Error("Did not observe stop!")
					return
				case <-time.After(time.Millisecond):
				}
			}

			if !testChannel(f.Chan()) {
				t.Error("Stopped but channel open")
			}
		}(i)
	}

	/* Start 16 goroutines that will call stop */
	wg.Add(16)
	for i := 0; i < 16; i++ {
		go func() {
			defer wg.Done()
			defer f.Stop()

			time.Sleep(75 * time.Millisecond)
		}()
	}

	wg.Wait()

	if !called {
		t.Error("Stop func not called")
	}
}
