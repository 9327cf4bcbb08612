// Package convert splits a BIN image into one file per track, as
// described by its CUE sheet.
package convert

import (
	"github.com/sirupsen/logrus"

	"github.com/rabidaudio/binchunk/binfile"
	"github.com/rabidaudio/binchunk/cderr"
	"github.com/rabidaudio/binchunk/config"
	"github.com/rabidaudio/binchunk/cue"
	"github.com/rabidaudio/binchunk/disc"
	"github.com/rabidaudio/binchunk/extract"
	"github.com/rabidaudio/binchunk/vfs"
)

// Convert parses the sheet, then writes every track in sheet order.
// It stops at the first track that fails; files written before that
// are kept and returned.
func Convert(opts config.Options, log logrus.FieldLogger) ([]extract.Result, error) {
	opts = opts.Resolve()

	tracks, err := cue.ParseFile(&opts, log)
	if err != nil {
		return nil, err
	}

	img, err := binfile.Open(opts.ImagePath)
	if err != nil {
		return nil, cderr.New(cderr.KindImageAccess, "open BIN file", opts.ImagePath, err)
	}
	defer img.Close()

	log.WithFields(logrus.Fields{
		"image":  opts.ImagePath,
		"sheet":  opts.SheetPath,
		"tracks": len(tracks),
	}).Debug("writing tracks")

	results := make([]extract.Result, 0, len(tracks))
	for i := range tracks {
		res, err := extract.Track(img, &tracks[i], opts, log)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		if opts.InspectISO && tracks[i].Layout.Extension == disc.ExtISO && tracks[i].Layout.Size == disc.Mode1DataSize {
			inspect(res.Path, log)
		}
	}
	return results, nil
}

// inspect logs the volume label and root directory of an extracted
// ISO payload. A track without a readable filesystem is only worth a
// warning.
func inspect(path string, log logrus.FieldLogger) {
	fsys, err := vfs.Open(path)
	if err != nil {
		log.WithError(err).Warn("no ISO-9660 filesystem")
		return
	}
	defer fsys.Close()

	entries, err := fsys.Entries()
	if err != nil {
		log.WithError(err).Warn("unreadable ISO-9660 root")
		return
	}
	label := fsys.Label()
	log.WithFields(logrus.Fields{
		"file":    path,
		"label":   label,
		"entries": entries,
	}).Infof("%s: ISO-9660 volume %s %v", path, label, entries)
}
