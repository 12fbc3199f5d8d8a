package diag

import (
	"log"
	"strings"
)

// CaptureStandard reroutes the process-wide standard library logger through
// the sink at info level, so ad-hoc log.Printf chatter is recorded instead
// of written. The returned func restores the previous logger settings.
func (s *Sink) CaptureStandard() (restore func()) {
	prevWriter := log.Writer()
	prevFlags := log.Flags()
	prevPrefix := log.Prefix()

	log.SetFlags(0)
	log.SetPrefix("")
	log.SetOutput(captureWriter{sink: s})

	return func() {
		log.SetOutput(prevWriter)
		log.SetFlags(prevFlags)
		log.SetPrefix(prevPrefix)
	}
}

type captureWriter struct {
	sink *Sink
}

func (w captureWriter) Write(p []byte) (int, error) {
	w.sink.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
