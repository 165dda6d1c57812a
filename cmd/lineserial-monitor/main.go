// Command lineserial-monitor prints the lines a serial device sends and forwards the lines
// typed on stdin to it. Output is handled from a fixed rate frame loop.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BertoldVdb/go-lineserial/frameloop"
	"github.com/BertoldVdb/go-lineserial/lineserial"
	"github.com/BertoldVdb/go-lineserial/logrusconfig"
	"github.com/BertoldVdb/go-lineserial/serial"
	"github.com/sirupsen/logrus"
)

// echoPort sends everything written to it straight back, for trying things without hardware
type echoPort struct {
	*serial.MemPort
}

func (e *echoPort) Write(p []byte) (int, error) {
	n, err := e.MemPort.Write(p)
	if err != nil {
		return n, err
	}
	return e.Inject(p[:n])
}

func forwardStdin(session *lineserial.Session, loop *frameloop.Loop) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		/* Failures are logged by the session */
		session.WriteLine(scanner.Text())
	}

	loop.Close()
}

func main() {
	logrusconfig.InitParam(nil)
	portName := flag.String("port", "", "Serial device to open. Empty selects the first one found")
	baud := flag.String("baud", serial.DefaultBaudRate.String(), "Baud rate")
	fps := flag.Int("fps", 60, "Frames per second of the dispatch loop")
	poll := flag.Duration("poll", lineserial.DefaultPollInterval, "Interval between polls of the port")
	list := flag.Bool("list", false, "List serial ports and exit")
	loopback := flag.Bool("loopback", false, "Use an in-memory port that echoes what is written")
	flag.Parse()

	base := logrusconfig.GetLogger(logrus.InfoLevel)
	log := logrusconfig.WithPrefix(base, "monitor")

	if *list {
		names, err := serial.PortNames()
		if err != nil {
			log.WithError(err).Fatal("Failed to list serial ports")
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	rate, err := serial.ParseBaudRate(*baud)
	if err != nil {
		log.WithError(err).Fatal("Invalid baud rate")
	}
	if *fps <= 0 {
		log.WithField("fps", *fps).Fatal("Frame rate must be positive")
	}

	config := lineserial.Config{
		Logger:       base,
		PollInterval: *poll,
	}
	if *loopback {
		config.OpenPort = func(options *serial.PortOptions) (serial.Port, error) {
			return &echoPort{serial.NewMemPort(options.PortName, 0)}, nil
		}
		config.PortNames = func() ([]string, error) {
			return []string{"loopback"}, nil
		}
	}

	session := lineserial.New(config)
	token := session.Subscribe(func(line string) {
		fmt.Println(strings.TrimSuffix(line, "\r"))
	})
	defer session.Unsubscribe(token)

	if err := session.Open(*portName, rate); err != nil {
		log.WithError(err).Fatal("Failed to open serial port")
	}
	defer session.Close()

	loop := &frameloop.Loop{Interval: time.Second / time.Duration(*fps)}
	loop.Register(session)
	loop.HandleSIGTERM()

	go forwardStdin(session, loop)

	if err := loop.Run(); err != nil {
		log.WithError(err).Error("Frame loop failed")
	}

	/* Deliver what arrived during the last frame */
	session.Dispatch()

	stats := session.Stats()
	log.WithFields(logrus.Fields{
		"frames":    loop.Frames(),
		"lines":     stats.Lines,
		"dropped":   stats.Dropped,
		"overflows": stats.Overflows,
		"faults":    stats.Faults,
	}).Info("Monitor stopped")
}
