// Package extract writes the payload of one track of an image to its
// own file.
package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/rabidaudio/binchunk/binfile"
	"github.com/rabidaudio/binchunk/cderr"
	"github.com/rabidaudio/binchunk/config"
	"github.com/rabidaudio/binchunk/cue"
	"github.com/rabidaudio/binchunk/disc"
	"github.com/rabidaudio/binchunk/wav"
)

// WriteBufferSize is the size of the output buffer of a track.
const WriteBufferSize = 16 * disc.SectorSize

// Result describes a written track file.
type Result struct {
	Number    uint32
	Path      string
	Extension disc.Extension
	Bytes     int64 // file size, including any header
}

// MiB is the file size in whole mebibytes.
func (r Result) MiB() int64 {
	return r.Bytes / 1024 / 1024
}

// OutputName returns the file name of a track: the base name, the
// track number as two digits and the extension of its layout.
func OutputName(base string, t *cue.Track) string {
	return fmt.Sprintf("%s%02d.%s", base, t.Number, t.Layout.Extension)
}

// SwapBytes swaps each pair of bytes of buf in place, turning big
// endian samples into little endian ones and back. A trailing odd byte
// is left alone.
func SwapBytes(buf []byte) {
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = buf[i+1], buf[i]
	}
}

// Track writes the payload of t, read from img, to
// OutputName(opts.OutputName, t). A file that fails part way is left
// on disk.
func Track(img *binfile.Reader, t *cue.Track, opts config.Options, log logrus.FieldLogger) (res Result, err error) {
	res = Result{Number: t.Number, Path: OutputName(opts.OutputName, t), Extension: t.Layout.Extension}

	sectors, err := t.Sectors()
	if err != nil {
		return res, cderr.New(cderr.KindSheetStructure, fmt.Sprintf("track %d", t.Number), "", err)
	}

	f, err := os.Create(res.Path)
	if err != nil {
		return res, cderr.New(cderr.KindTrackIO, "create", res.Path, err)
	}
	w := bufio.NewWriterSize(f, WriteBufferSize)
	defer func() {
		if err != nil {
			// keep what was extracted before the failure
			_ = w.Flush()
			_ = f.Close()
		}
	}()

	if t.Audio && opts.ToWav {
		payload, err := wav.PayloadSize(t)
		if err != nil {
			return res, cderr.New(cderr.KindTrackIO, "write", res.Path, err)
		}
		h := wav.Header(payload)
		if _, err := w.Write(h[:]); err != nil {
			return res, cderr.New(cderr.KindTrackIO, "write", res.Path, err)
		}
		res.Bytes += wav.HeaderSize
	}

	if _, err := img.Seek(t.Start, io.SeekStart); err != nil {
		return res, cderr.New(cderr.KindTrackIO, "seek", img.Path(), err)
	}

	swap := t.Audio && opts.SwapAudioBytes
	lo, hi := t.Layout.Offset, t.Layout.Offset+t.Layout.Size
	buf := make([]byte, disc.SectorSize)
	for i := int64(0); i < sectors; i++ {
		if _, err := io.ReadFull(img, buf); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				err = fmt.Errorf("%w at sector %d: %w", cderr.ErrShortSector, t.StartSector+i, err)
			}
			return res, cderr.New(cderr.KindTrackIO, "read", img.Path(), err)
		}
		if swap {
			SwapBytes(buf)
		}
		n, err := w.Write(buf[lo:hi])
		res.Bytes += int64(n)
		if err != nil {
			return res, cderr.New(cderr.KindTrackIO, "write", res.Path, err)
		}
	}

	if err := w.Flush(); err != nil {
		return res, cderr.New(cderr.KindTrackIO, "write", res.Path, err)
	}
	if err := f.Close(); err != nil {
		return res, cderr.New(cderr.KindTrackIO, "write", res.Path, err)
	}

	log.Infof("%d: %s %dMiB", t.Number, res.Path, res.MiB())
	return res, nil
}
