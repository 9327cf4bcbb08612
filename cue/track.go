package cue

import (
	"github.com/rabidaudio/binchunk/cderr"
	"github.com/rabidaudio/binchunk/config"
	"github.com/rabidaudio/binchunk/disc"
)

// Track is one track of the image as declared by the sheet.
//
// Start and StartSector are set by the track's first INDEX record. The
// end of the track is not declared by the sheet: it is resolved once,
// either by the next track's first INDEX or from the image size for
// the last track, and never changes afterwards.
type Track struct {
	Number uint32
	Mode   disc.Mode
	Layout disc.Layout // payload window within each sector
	Audio  bool

	StartSector int64 // first sector in the image
	Start       int64 // byte offset of StartSector

	indexed    bool
	resolved   bool
	stopSector int64
	stop       int64
}

// NewTrack returns a track with its payload window resolved from the
// mode and options.
func NewTrack(number uint32, mode disc.Mode, opts config.Options) Track {
	layout, audio := disc.Resolve(mode, opts.Raw, opts.PSXTruncate, opts.ToWav)
	return Track{Number: number, Mode: mode, Layout: layout, Audio: audio}
}

// SetStart places the track at a sector of the image. Only the first
// call has an effect; it reports whether the start was set.
func (t *Track) SetStart(sector int64) bool {
	if t.indexed {
		return false
	}
	t.indexed = true
	t.StartSector = sector
	t.Start = disc.ByteOffset(sector)
	return true
}

// Indexed reports whether SetStart has been called.
func (t *Track) Indexed() bool {
	return t.indexed
}

// SetStop resolves the inclusive end of the track, in sectors and
// bytes. Only the first call has an effect; it reports whether the
// end was set.
func (t *Track) SetStop(sector, offset int64) bool {
	if t.resolved {
		return false
	}
	t.resolved = true
	t.stopSector = sector
	t.stop = offset
	return true
}

// StopSector returns the last sector of the track, if resolved.
func (t *Track) StopSector() (int64, bool) {
	return t.stopSector, t.resolved
}

// Stop returns the byte offset of the last byte of the track, if resolved.
func (t *Track) Stop() (int64, bool) {
	return t.stop, t.resolved
}

// Sectors returns the number of sectors the track covers.
func (t *Track) Sectors() (int64, error) {
	if !t.resolved {
		return 0, cderr.ErrUnresolvedStop
	}
	n := t.stopSector - t.StartSector + 1
	if n <= 0 {
		return 0, cderr.ErrEmptyTrack
	}
	return n, nil
}
