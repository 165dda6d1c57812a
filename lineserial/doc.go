/*
Package lineserial reads newline terminated messages from a serial device on behalf of an
application that runs a periodic tick loop and must never block on I/O.

A Session owns one open port at a time. Open starts a worker goroutine that polls the port
byte by byte, assembles lines and queues them. The application calls Dispatch (or Drain)
once per tick; queued lines are handed to the subscribed observers on the calling goroutine,
in the order they were received.

	s := lineserial.New(lineserial.Config{})
	token := s.Subscribe(func(line string) {
		fmt.Println("Received:", line)
	})
	defer s.Unsubscribe(token)

	if err := s.Open("", serial.B9600); err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	for range time.Tick(16 * time.Millisecond) {
		s.Dispatch()
	}

An empty path selects the first port reported by serial.PortNames.
*/
package lineserial
