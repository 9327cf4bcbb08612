// Package cue reads the CUE sheet that describes the track layout of
// a BIN image.
package cue

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rabidaudio/binchunk/cderr"
	"github.com/rabidaudio/binchunk/config"
	"github.com/rabidaudio/binchunk/disc"
)

// ParseFile reads, decodes and parses the sheet at opts.SheetPath.
func ParseFile(opts *config.Options, log logrus.FieldLogger) ([]Track, error) {
	data, err := os.ReadFile(opts.SheetPath)
	if err != nil {
		return nil, cderr.New(cderr.KindSheetAccess, "open CUE file", opts.SheetPath, err)
	}
	text, err := Decode(data, opts.SheetEncoding)
	if err != nil {
		return nil, cderr.New(cderr.KindSheetAccess, "decode CUE file", opts.SheetPath, err)
	}
	return Parse(text, opts, log)
}

// Parse reads the tracks declared by the sheet text, in order.
//
// If opts.ImagePath is empty it is taken from the sheet's FILE record.
// The image is statted once the whole sheet has been read, to resolve
// the end of the last track.
func Parse(text string, opts *config.Options, log logrus.FieldLogger) ([]Track, error) {
	p := parser{opts: opts, log: log, tracks: make([]Track, 0, 32)}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, cderr.Structure(p.line, "scan", err)
	}

	if err := p.finish(); err != nil {
		return nil, err
	}
	return p.tracks, nil
}

type parser struct {
	opts   *config.Options
	log    logrus.FieldLogger
	line   int
	tracks []Track
}

func (p *parser) parseLine(line string) error {
	fields := strings.Fields(line)
	pos := 0
	for i, f := range fields {
		// keywords inside quoted TITLE or PERFORMER text don't count
		if strings.HasPrefix(f, `"`) {
			return nil
		}
		pos += strings.Index(line[pos:], f)
		end := pos + len(f)
		switch f {
		case "FILE":
			return p.parseFile(line[end:])
		case "TRACK":
			return p.parseTrack(fields[i+1:])
		case "INDEX":
			return p.parseIndex(fields[i+1:])
		}
		pos = end
	}
	return nil
}

func (p *parser) parseFile(rest string) error {
	name := fileName(rest)
	if name == "" {
		return cderr.Structure(p.line, "parse FILE", cderr.ErrMissingFileName)
	}

	if p.opts.ImagePath == "" {
		if !filepath.IsAbs(name) {
			name = filepath.Join(filepath.Dir(p.opts.SheetPath), name)
		}
		p.opts.ImagePath = name
		p.log.WithField("image", name).Debug("BIN file not supplied, reading BIN file from CUE file")
		return nil
	}

	if lastSegment(name) != lastSegment(p.opts.ImagePath) {
		p.log.WithFields(logrus.Fields{
			"cue":   name,
			"image": p.opts.ImagePath,
		}).Warn("filename in CUE file doesn't match filename provided")
	}
	return nil
}

func (p *parser) parseTrack(args []string) error {
	if len(args) == 0 {
		return cderr.Structure(p.line, "parse TRACK", cderr.ErrMissingTrackNumber)
	}
	number, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return cderr.Structure(p.line, "parse TRACK number", err)
	}
	if len(args) < 2 {
		return cderr.Structure(p.line, "parse TRACK", cderr.ErrMissingTrackMode)
	}

	mode, ok := disc.ParseMode(args[1])
	if !ok {
		p.log.WithFields(logrus.Fields{
			"track": number,
			"mode":  args[1],
		}).Warn("unknown track mode")
	}

	p.tracks = append(p.tracks, NewTrack(uint32(number), mode, *p.opts))
	p.log.WithFields(logrus.Fields{
		"track": fmt.Sprintf("%2d", number),
		"mode":  mode,
	}).Debug("track")
	return nil
}

func (p *parser) parseIndex(args []string) error {
	if len(p.tracks) == 0 {
		return cderr.Structure(p.line, "parse INDEX", cderr.ErrIndexBeforeTrack)
	}
	if len(args) < 2 {
		return cderr.Structure(p.line, "parse INDEX", cderr.ErrMissingIndexTime)
	}
	frames, err := disc.TimeToFrames(args[1])
	if err != nil {
		return cderr.Structure(p.line, "parse INDEX time", fmt.Errorf("%w: %w", cderr.ErrInvalidTime, err))
	}

	cur := len(p.tracks) - 1
	if !p.tracks[cur].SetStart(frames) {
		// later indexes (pregap splits) do not move the track
		p.log.WithFields(logrus.Fields{"index": args[0], "time": args[1]}).Debug("extra index ignored")
		return nil
	}
	p.log.WithFields(logrus.Fields{
		"track": p.tracks[cur].Number,
		"index": args[0],
		"time":  args[1],
	}).Debug("index")

	if cur > 0 {
		if _, done := p.tracks[cur-1].StopSector(); !done {
			p.tracks[cur-1].SetStop(p.tracks[cur].StartSector-1, p.tracks[cur].Start-1)
		}
	}
	return nil
}

func (p *parser) finish() error {
	if len(p.tracks) == 0 {
		return cderr.New(cderr.KindSheetStructure, "parse CUE file", p.opts.SheetPath, cderr.ErrNoTracks)
	}
	for i := range p.tracks {
		if !p.tracks[i].Indexed() {
			return cderr.New(cderr.KindSheetStructure, fmt.Sprintf("track %d", p.tracks[i].Number), "", cderr.ErrMissingIndex)
		}
	}

	if p.opts.ImagePath == "" {
		return cderr.New(cderr.KindImageAccess, "open BIN file", "", cderr.ErrNoImage)
	}
	info, err := os.Stat(p.opts.ImagePath)
	if err != nil {
		return cderr.New(cderr.KindImageAccess, "open BIN file", p.opts.ImagePath, err)
	}

	last := &p.tracks[len(p.tracks)-1]
	stop := info.Size() - 1
	stopSector := int64(-1)
	if stop >= 0 {
		stopSector = stop / disc.SectorSize
	}
	last.SetStop(stopSector, stop)

	for i := range p.tracks {
		t := &p.tracks[i]
		if _, err := t.Sectors(); err != nil {
			if t == last && errors.Is(err, cderr.ErrEmptyTrack) {
				err = cderr.ErrImageTooShort
			}
			return cderr.New(cderr.KindSheetStructure, fmt.Sprintf("track %d", t.Number), "", err)
		}
	}
	return nil
}

// fileName returns the name of a FILE record: the quoted string that
// follows the keyword, or its first word when it is not quoted.
func fileName(rest string) string {
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, `"`) {
		if end := strings.IndexByte(rest[1:], '"'); end >= 0 {
			return rest[1 : end+1]
		}
		rest = rest[1:]
	}
	name, _, _ := strings.Cut(rest, " ")
	name, _, _ = strings.Cut(name, "\t")
	return name
}

// lastSegment is the file name part of a path written with either
// slash or backslash separators.
func lastSegment(path string) string {
	return path[strings.LastIndexAny(path, `/\`)+1:]
}
