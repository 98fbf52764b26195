// Package driverlog supplies cmd/slc's structured progress logging. The
// teacher's own cmd/*/main.go drivers use bare fmt.Printf("ERROR: ...")
// lines; this generalizes that to the pack's logging library so the
// driver's phase-by-phase progress (lexing, parsing, checking, lowering,
// emitting, assembling) is structured and leveled instead of ad-hoc
// printf calls, while keeping diagnostics themselves (see internal/diag)
// as plain returned data rather than something only visible in logs.
package driverlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.Logger configured the way cmd/slc wants its
// progress lines formatted: plain text, info level by default.
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	return log
}

// Verbose raises log's level to Debug, used when cmd/slc is run with
// --verbose.
func Verbose(log *logrus.Logger) {
	log.SetLevel(logrus.DebugLevel)
}
