// Package cderr holds the error taxonomy shared by the sheet parser,
// the extractor and the converter.
package cderr

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure.
type Kind int

const (
	KindUnknown        Kind = 0
	KindSheetStructure Kind = 1 // malformed TRACK/INDEX records, no tracks
	KindImageAccess    Kind = 2 // image cannot be opened or statted
	KindSheetAccess    Kind = 3 // sheet cannot be read or decoded
	KindTrackIO        Kind = 4 // create/seek/read/write failure on a track
)

func (k Kind) String() string {
	switch k {
	case KindSheetStructure:
		return "invalid sheet"
	case KindImageAccess:
		return "image access"
	case KindSheetAccess:
		return "sheet access"
	case KindTrackIO:
		return "track i/o"
	default:
		return fmt.Sprintf("unknown error kind: %v", int(k))
	}
}

// ExitCode is the process status the command line tool reports for
// an error of this kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindSheetAccess, KindImageAccess:
		return 2
	case KindSheetStructure:
		return 3
	case KindTrackIO:
		return 4
	default:
		return 1
	}
}

var (
	ErrNoTracks           = errors.New("no valid CUE data found")
	ErrMissingTrackNumber = errors.New("missing track number")
	ErrMissingTrackMode   = errors.New("missing track mode")
	ErrMissingIndexTime   = errors.New("missing INDEX time")
	ErrIndexBeforeTrack   = errors.New("INDEX before any TRACK")
	ErrMissingIndex       = errors.New("track has no INDEX")
	ErrUnresolvedStop     = errors.New("track end could not be resolved")
	ErrImageTooShort      = errors.New("image ends before track start")
	ErrEmptyTrack         = errors.New("track ends before it starts")
	ErrInvalidTime        = errors.New("invalid INDEX time")
	ErrMissingFileName    = errors.New("missing FILE name")
	ErrNoImage            = errors.New("no BIN file supplied or named in CUE file")
	ErrShortSector        = errors.New("short sector read")
	ErrTrackTooLarge      = errors.New("track too large for a WAV file")
)

// Error is a failure of one operation, tagged with its Kind and the
// file it concerns.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "read" or "parse TRACK"
	Path string // file involved, may be empty
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error of the given kind.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Structure reports a malformed sheet record found on the given line.
func Structure(line int, op string, err error) *Error {
	return &Error{Kind: KindSheetStructure, Op: fmt.Sprintf("line %d: %s", line, op), Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
