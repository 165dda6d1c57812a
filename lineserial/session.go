package lineserial

import (
	"sync"

	"github.com/BertoldVdb/go-lineserial/logrusconfig"
	"github.com/BertoldVdb/go-lineserial/runstate"
	"github.com/BertoldVdb/go-lineserial/serial"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Session is a line oriented connection to one serial device at a time.
// Open, Close and Write may be called from any goroutine. Drain and Dispatch never block
// and are meant to be called from the application's tick loop.
type Session struct {
	config Config
	log    *logrus.Entry
	id     string

	observers observers
	stats     stats

	// mutex serializes Open and Close. Drain and Write only load current.
	mutex   sync.Mutex
	current atomic.Pointer[worker]
}

type stats struct {
	lines     atomic.Uint64
	dropped   atomic.Uint64
	overflows atomic.Uint64
	faults    atomic.Uint64
}

// Stats are counters accumulated over the lifetime of a Session
type Stats struct {
	Lines     uint64
	Dropped   uint64
	Overflows uint64
	Faults    uint64
}

// New creates a closed Session
func New(config Config) *Session {
	config = config.withDefaults()

	s := &Session{
		config: config,
		id:     uuid.New().String(),
	}
	s.log = logrusconfig.WithPrefix(config.Logger, "lineserial").WithField("session", s.id)

	return s
}

// ID returns the identifier used to correlate the log entries of this Session
func (s *Session) ID() string {
	return s.id
}

// Open connects to path at the given rate (8N1) and starts the worker. An empty path
// selects the first enumerated port, a zero rate selects serial.DefaultBaudRate.
// Failures are returned as *OpenError, except for ErrorAlreadyRunning.
func (s *Session) Open(path string, rate serial.BaudRate) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if w := s.current.Load(); w != nil {
		if w.run.Running() {
			return ErrorAlreadyRunning
		}

		/* The previous worker stopped by itself; collect it */
		s.shutdown(w)
	}

	if rate == 0 {
		rate = serial.DefaultBaudRate
	}

	if path == "" {
		var err error
		path, err = s.defaultPath()
		if err != nil {
			s.log.WithError(err).Error("Cannot select a serial port")
			return err
		}
	}

	log := s.log.WithField("port", path)

	if !rate.Valid() {
		err := &OpenError{Path: path, Err: serial.ErrorInvalidBaudRate}
		log.WithField("rate", rate).Error("Unsupported baud rate")
		return err
	}

	port, err := s.config.OpenPort(&serial.PortOptions{PortName: path, BaudRate: rate})
	if err != nil {
		log.WithError(err).Error("Failed to open serial port")
		return &OpenError{Path: path, Err: err}
	}

	/* Many USB adapters only start sending once DTR and RTS are asserted */
	if err := port.SetDTR(true); err != nil {
		log.WithError(err).Warn("Failed to assert DTR")
	}
	if err := port.SetRTS(true); err != nil {
		log.WithError(err).Warn("Failed to assert RTS")
	}

	w := newWorker(log, &s.stats, path, port, &s.config)
	w.run.Start()
	s.current.Store(w)

	go w.loop()

	log.WithField("rate", rate).Info("Serial port opened")
	return nil
}

func (s *Session) defaultPath() (string, error) {
	ports, err := s.config.PortNames()
	if err != nil {
		return "", &OpenError{Err: err}
	}

	for _, port := range ports {
		s.log.WithField("port", port).Debug("Found serial port")
	}

	if len(ports) == 0 {
		return "", &OpenError{Err: ErrorNoDeviceFound}
	}

	return ports[0], nil
}

// Close stops the worker and releases the port. It waits up to Config.JoinTimeout for the
// worker to finish. It is safe to call at any time, any number of times.
func (s *Session) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	w := s.current.Load()
	if w == nil {
		return
	}

	s.shutdown(w)
	w.log.Info("Serial port closed")
}

// shutdown must be called with mutex held
func (s *Session) shutdown(w *worker) {
	s.current.Store(nil)

	err := w.run.Stop()
	if err != nil && err != runstate.ErrorStopped {
		w.log.WithError(err).Warn("Error while closing serial port")
	}

	if !w.wait(s.config.JoinTimeout) {
		w.log.WithField("timeout", s.config.JoinTimeout).Warn("Worker did not stop in time")
	}
}

// Running reports whether a port is open and its worker is polling
func (s *Session) Running() bool {
	w := s.current.Load()
	return w != nil && w.run.Running()
}

// PortName returns the path of the open port, or an empty string
func (s *Session) PortName() string {
	w := s.current.Load()
	if w == nil {
		return ""
	}
	return w.path
}

// Write sends message as is. Failures are logged and returned as *WriteError;
// they do not stop the session.
func (s *Session) Write(message string) error {
	w := s.current.Load()
	if w == nil || !w.run.Running() {
		err := &WriteError{Err: ErrorNotOpen}
		s.log.WithError(err).Warn("Write without open port")
		return err
	}

	_, err := w.port.Write([]byte(message))
	if err != nil {
		w.log.WithError(err).Warn("Write failed")
		return &WriteError{Path: w.path, Err: err}
	}

	return nil
}

// WriteLine sends message followed by the terminator
func (s *Session) WriteLine(message string) error {
	return s.Write(message + string(Terminator))
}

// Drain returns the lines completed since the previous call, oldest first. It returns nil
// when the session is not running. Lines still queued when the session stops are discarded.
func (s *Session) Drain() []string {
	w := s.current.Load()
	if w == nil || !w.run.Running() {
		return nil
	}

	return w.queue.DrainAll()
}

// Dispatch drains the queue and passes every line to every observer, in subscription
// order, on the calling goroutine. It returns the number of lines dispatched.
func (s *Session) Dispatch() int {
	lines := s.Drain()
	if len(lines) == 0 {
		return 0
	}

	observers := s.observers.snapshot()
	for _, line := range lines {
		for _, m := range observers {
			m.observer(line)
		}
	}

	return len(lines)
}

// Tick is Dispatch without a result, so a Session can be driven by a frameloop.Loop
func (s *Session) Tick() {
	s.Dispatch()
}

// Subscribe registers observer. The returned token is needed to unsubscribe.
// A nil observer is ignored and yields the zero token.
func (s *Session) Subscribe(observer Observer) ObserverToken {
	return s.observers.subscribe(observer)
}

// Unsubscribe removes the observer registered under token. Unknown tokens are ignored.
func (s *Session) Unsubscribe(token ObserverToken) {
	s.observers.unsubscribe(token)
}

// Observers returns the number of subscribed observers
func (s *Session) Observers() int {
	return s.observers.len()
}

// Stats returns a snapshot of the session counters
func (s *Session) Stats() Stats {
	return Stats{
		Lines:     s.stats.lines.Load(),
		Dropped:   s.stats.dropped.Load(),
		Overflows: s.stats.overflows.Load(),
		Faults:    s.stats.faults.Load(),
	}
}
