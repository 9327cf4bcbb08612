// Package config holds the options record of a conversion run.
package config

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
)

const Version = "2.0.0"

// Options controls one conversion run. It is filled in by the command
// line layer and treated as read-only by the converter, apart from
// ImagePath which the sheet may supply.
type Options struct {
	Raw            bool // MODE2/2352: keep the whole 2352-byte sector
	PSXTruncate    bool // MODE2/2352: keep 2336 bytes from offset 0
	ToWav          bool // write audio tracks as WAV
	SwapAudioBytes bool // swap byte order of audio samples
	Verbose        bool
	InspectISO     bool // log the volume label of each extracted ISO track

	ImagePath     string
	SheetPath     string
	OutputName    string
	SheetEncoding string // IANA charset of the sheet, empty for UTF-8
}

// Resolve applies the positional argument fallbacks: when only one
// path was given it names the sheet and the image path is left to
// the sheet's FILE record. An empty OutputName defaults to the
// sheet's file name up to its first dot.
func (o Options) Resolve() Options {
	if o.SheetPath == "" {
		o.SheetPath, o.ImagePath = o.ImagePath, ""
	}
	if o.OutputName == "" {
		o.OutputName, _, _ = strings.Cut(filepath.Base(o.SheetPath), ".")
	}
	return o
}

// NewLogger returns the logger for a run. Warnings and errors go to
// errw, the per-track report and debug trace to outw. Nothing below
// error level is shown unless the run is verbose.
func NewLogger(opts Options, outw, errw io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetFormatter(&reportFormatter{text: logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	}})
	log.AddHook(&writer.Hook{
		Writer:    errw,
		LogLevels: []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel},
	})
	log.AddHook(&writer.Hook{
		Writer:    outw,
		LogLevels: []logrus.Level{logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel},
	})
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.ErrorLevel)
	}
	return log
}

// reportFormatter prints info entries as the bare message, the way
// the per-track summary is read, and everything else as text.
type reportFormatter struct {
	text logrus.TextFormatter
}

func (f *reportFormatter) Format(e *logrus.Entry) ([]byte, error) {
	if e.Level == logrus.InfoLevel {
		return []byte(e.Message + "\n"), nil
	}
	return f.text.Format(e)
}
