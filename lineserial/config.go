package lineserial

import (
	"time"

	"github.com/BertoldVdb/go-lineserial/logrusconfig"
	"github.com/BertoldVdb/go-lineserial/serial"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultPollInterval is the pause between two polls of the port
	DefaultPollInterval = time.Millisecond

	// DefaultJoinTimeout bounds how long Close waits for the worker
	DefaultJoinTimeout = time.Second

	// DefaultMaxLineLength is the longest line kept by the assembler
	DefaultMaxLineLength = 64 * 1024

	// DefaultMaxQueueDepth is the number of undrained lines kept before the oldest is dropped
	DefaultMaxQueueDepth = 4096

	// Unbounded disables MaxLineLength or MaxQueueDepth
	Unbounded = -1
)

// Config holds the settings of a Session. Zero values select the defaults.
type Config struct {
	PollInterval time.Duration
	JoinTimeout  time.Duration

	// MaxLineLength limits the bytes buffered for one line. Longer lines are discarded
	// up to and including their terminator.
	MaxLineLength int

	// MaxQueueDepth limits the lines waiting for Drain. When full, the oldest line is dropped.
	MaxQueueDepth int

	Logger *logrus.Entry

	// OpenPort opens the device. Defaults to serial.Open.
	OpenPort func(options *serial.PortOptions) (serial.Port, error)

	// PortNames lists candidate devices when Open is called without a path. Defaults to serial.PortNames.
	PortNames func() ([]string, error)
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.JoinTimeout <= 0 {
		c.JoinTimeout = DefaultJoinTimeout
	}
	if c.MaxLineLength == 0 {
		c.MaxLineLength = DefaultMaxLineLength
	}
	if c.MaxQueueDepth == 0 {
		c.MaxQueueDepth = DefaultMaxQueueDepth
	}
	if c.Logger == nil {
		c.Logger = logrusconfig.GetLogger(logrus.InfoLevel)
	}
	if c.OpenPort == nil {
		c.OpenPort = serial.Open
	}
	if c.PortNames == nil {
		c.PortNames = serial.PortNames
	}
	return c
}
