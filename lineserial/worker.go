package lineserial

import (
	"errors"
	"time"

	"github.com/BertoldVdb/go-lineserial/linequeue"
	"github.com/BertoldVdb/go-lineserial/runstate"
	"github.com/BertoldVdb/go-lineserial/serial"
	"github.com/sirupsen/logrus"
)

// worker polls one open port. A new worker is created for every successful Open.
type worker struct {
	log   *logrus.Entry
	stats *stats

	path string
	port serial.Port

	run       runstate.Flag
	queue     *linequeue.FIFO
	assembler *LineAssembler

	pollInterval time.Duration
	done         chan (struct{})

	lastFault   string
	faultRepeat int
}

func newWorker(log *logrus.Entry, st *stats, path string, port serial.Port, config *Config) *worker {
	w := &worker{
		log:          log,
		stats:        st,
		path:         path,
		port:         port,
		queue:        linequeue.New(64, config.MaxQueueDepth),
		assembler:    NewLineAssembler(config.MaxLineLength),
		pollInterval: config.PollInterval,
		done:         make(chan (struct{})),
	}

	/* Stopping always releases the handle, whoever stops first */
	w.run.StopFunc = func() error {
		return w.port.Close()
	}

	return w
}

// loop runs until the flag is stopped or the port turns out to be closed.
// Blocking line reads are avoided on purpose: some platforms hang in them forever.
func (w *worker) loop() {
	defer close(w.done)

	w.log.Debug("Worker started")
	defer w.log.Debug("Worker stopped")

	for w.run.Running() {
		err := w.poll()
		if err != nil {
			if errors.Is(err, serial.ErrorClosed) {
				if w.run.Stop() != runstate.ErrorStopped {
					w.log.Warn("Port was closed underneath the worker, stopping")
				}
				return
			}

			if !w.run.Running() {
				return
			}

			w.fault(err)
		} else {
			w.lastFault = ""
		}

		time.Sleep(w.pollInterval)
	}
}

// poll consumes every byte that is available right now
func (w *worker) poll() error {
	for w.run.Running() {
		b, ok, err := serial.TryReadByte(w.port)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		line, result := w.assembler.Feed(b)
		switch result {
		case Complete:
			w.enqueue(line)

		case Overflow:
			w.stats.overflows.Inc()
			w.log.WithField("limit", w.assembler.maxLength).Warn("Line too long, discarding it")
		}
	}

	return nil
}

func (w *worker) enqueue(line string) {
	w.stats.lines.Inc()

	_, dropped := w.queue.Push(line)
	if dropped {
		count := w.stats.dropped.Inc()
		if count == 1 || count%1024 == 0 {
			w.log.WithField("dropped", count).Warn("Message queue full, dropped oldest line")
		}
	}
}

func (w *worker) fault(err error) {
	w.stats.faults.Inc()
	fault := &ReadFault{Path: w.path, Err: err}

	/* A dead device fails every poll; only the first of a series is worth a warning */
	msg := err.Error()
	if msg != w.lastFault {
		w.lastFault = msg
		w.faultRepeat = 0
		w.log.WithError(fault).Warn("Read fault, still polling")
		return
	}

	w.faultRepeat++
	w.log.WithError(fault).WithField("repeat", w.faultRepeat).Debug("Read fault, still polling")
}

// wait blocks until loop returned or timeout elapsed
func (w *worker) wait(timeout time.Duration) bool {
	select {
	case <-w.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
