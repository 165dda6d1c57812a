package logrusconfig

import (
	"flag"
	"io"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
)

var loglevel *int

// InitParam registers the -loglevel flag on fs, or on the default FlagSet when fs is nil.
// It must be called before flag parsing.
func InitParam(fs *flag.FlagSet) {
	if fs == nil {
		fs = flag.CommandLine
	}
	loglevel = fs.Int("loglevel", int(logrus.InfoLevel), "The loglevel to use. Valid values are from 0 to 6. Higher values output more information")
}

// Options tweak the logger returned by New
type Options struct {
	// Level is used unless the -loglevel flag was registered
	Level logrus.Level

	// Output defaults to stderr
	Output io.Writer

	// NoColor disables terminal colors, useful when the output is a file
	NoColor bool
}

// New creates a logger with the prefixed text formatter. Entries derived from it can set the
// "prefix" field to tag the subsystem that logs.
func New(options Options) *logrus.Entry {
	logrus.ErrorKey = "$error"
	logger := logrus.New()
	if loglevel == nil {
		logger.SetLevel(options.Level)
	} else {
		logger.SetLevel(logrus.Level(*loglevel))
	}
	if options.Output != nil {
		logger.SetOutput(options.Output)
	}

	customFormatter := new(prefixed.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05.000"
	customFormatter.FullTimestamp = true
	customFormatter.PrefixPadding = 20
	customFormatter.SpacePadding = 50
	customFormatter.DisableColors = options.NoColor
	logger.SetFormatter(customFormatter)
	return logrus.NewEntry(logger)
}

// GetLogger returns a logger writing to stderr with the given level
func GetLogger(level logrus.Level) *logrus.Entry {
	return New(Options{Level: level})
}

// WithPrefix returns a child of entry tagged with prefix
func WithPrefix(entry *logrus.Entry, prefix string) *logrus.Entry {
	return entry.WithField("prefix", prefix)
}
