package convert

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabidaudio/binchunk/cderr"
	"github.com/rabidaudio/binchunk/config"
	"github.com/rabidaudio/binchunk/disc"
	"github.com/rabidaudio/binchunk/vfs"
)

func failIfErr(t *testing.T, err error) {
	if err != nil {
		t.Fatal(err)
	}
}

var syncPattern = []byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

// mode1Sectors wraps 2048 byte blocks into raw MODE1 sectors with a
// sync pattern and an empty header and error correction area.
func mode1Sectors(data []byte) []byte {
	var out bytes.Buffer
	for off := 0; off < len(data); off += disc.Mode1DataSize {
		out.Write(syncPattern)
		out.Write([]byte{0, 2, 0, 1})
		out.Write(data[off : off+disc.Mode1DataSize])
		out.Write(make([]byte, disc.SectorSize-16-disc.Mode1DataSize))
	}
	return out.Bytes()
}

// audioSectors returns n sectors of big endian samples.
func audioSectors(n int) []byte {
	out := make([]byte, n*disc.SectorSize)
	for i := 0; i < len(out); i += 2 {
		out[i] = byte(i >> 8)
		out[i+1] = byte(i)
	}
	return out
}

type fixture struct {
	dir   string
	iso   []byte
	audio []byte
	image string
	sheet string
}

// mixedDisc writes a data track holding an ISO-9660 filesystem followed
// by an audio track, plus the sheet describing them.
func mixedDisc(t *testing.T) fixture {
	dir := t.TempDir()
	fsys, err := vfs.Create(filepath.Join(dir, "src.iso"), "MIXEDCD", map[string][]byte{
		"/README.TXT": []byte("data track\n"),
	})
	failIfErr(t, err)
	failIfErr(t, fsys.Close())
	iso, err := os.ReadFile(filepath.Join(dir, "src.iso"))
	failIfErr(t, err)

	f := fixture{
		dir:   dir,
		iso:   iso,
		audio: audioSectors(75),
		image: filepath.Join(dir, "Mixed Disc.bin"),
		sheet: filepath.Join(dir, "mixed.cue"),
	}
	dataSectors := len(iso) / disc.Mode1DataSize
	failIfErr(t, os.WriteFile(f.image, append(mode1Sectors(iso), f.audio...), 0o644))

	mm, ss, ff := dataSectors/75/60, dataSectors/75%60, dataSectors%75
	sheet := fmt.Sprintf(`FILE "Mixed Disc.bin" BINARY
  TRACK 01 MODE1/2352
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    INDEX 01 %02d:%02d:%02d
`, mm, ss, ff)
	failIfErr(t, os.WriteFile(f.sheet, []byte(sheet), 0o644))
	return f
}

func TestConvertMixedDisc(t *testing.T) {
	f := mixedDisc(t)
	log, hook := test.NewNullLogger()

	results, err := Convert(config.Options{
		ImagePath:      f.sheet,
		OutputName:     filepath.Join(f.dir, "out"),
		ToWav:          true,
		SwapAudioBytes: true,
		InspectISO:     true,
	}, log)
	failIfErr(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(f.dir, "out01.iso"), results[0].Path)
	got, err := os.ReadFile(results[0].Path)
	failIfErr(t, err)
	assert.Equal(t, f.iso, got)

	assert.Equal(t, filepath.Join(f.dir, "out02.wav"), results[1].Path)
	assert.Equal(t, int64(44+len(f.audio)), results[1].Bytes)
	got, err = os.ReadFile(results[1].Path)
	failIfErr(t, err)
	assert.Equal(t, f.audio[1], got[44])
	assert.Equal(t, f.audio[0], got[45])

	d := gowav.NewDecoder(bytes.NewReader(got))
	require.True(t, d.IsValidFile())
	failIfErr(t, d.FwdToPCM())
	assert.Equal(t, len(f.audio), d.PCMSize)

	var volume *logrus.Entry
	for _, e := range hook.AllEntries() {
		if _, ok := e.Data["label"]; ok {
			volume = e
		}
	}
	require.NotNil(t, volume)
	assert.Equal(t, "MIXEDCD", volume.Data["label"])
	assert.Contains(t, volume.Message, "ISO-9660 volume MIXEDCD")
}

func TestConvertRawAudio(t *testing.T) {
	f := mixedDisc(t)

	results, err := Convert(config.Options{
		ImagePath:  f.image,
		SheetPath:  f.sheet,
		OutputName: filepath.Join(f.dir, "raw"),
	}, logrus.New())
	failIfErr(t, err)
	require.Len(t, results, 2)

	got, err := os.ReadFile(filepath.Join(f.dir, "raw02.cdr"))
	failIfErr(t, err)
	assert.Equal(t, f.audio, got)
}

func TestConvertMissingSheet(t *testing.T) {
	dir := t.TempDir()
	_, err := Convert(config.Options{ImagePath: filepath.Join(dir, "none.cue")}, logrus.New())
	assert.Equal(t, cderr.KindSheetAccess, cderr.KindOf(err))
	assert.Equal(t, 2, cderr.KindOf(err).ExitCode())
}

func TestConvertMissingImage(t *testing.T) {
	f := mixedDisc(t)
	_, err := Convert(config.Options{
		ImagePath:  filepath.Join(f.dir, "other.bin"),
		SheetPath:  f.sheet,
		OutputName: filepath.Join(f.dir, "x"),
	}, logrus.New())
	assert.Equal(t, cderr.KindImageAccess, cderr.KindOf(err))
}

func TestConvertStopsAtFirstFailure(t *testing.T) {
	f := mixedDisc(t)
	results, err := Convert(config.Options{
		SheetPath:  f.sheet,
		ImagePath:  f.image,
		OutputName: filepath.Join(f.dir, "missing", "x"),
	}, logrus.New())
	assert.Empty(t, results)
	assert.Equal(t, cderr.KindTrackIO, cderr.KindOf(err))
	assert.Equal(t, 4, cderr.KindOf(err).ExitCode())
}

func TestConvertInspectNonISO(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "blank.bin")
	failIfErr(t, os.WriteFile(image, mode1Sectors(make([]byte, 32*disc.Mode1DataSize)), 0o644))
	sheet := filepath.Join(dir, "blank.cue")
	failIfErr(t, os.WriteFile(sheet, []byte("FILE blank.bin BINARY\nTRACK 01 MODE1/2352\nINDEX 01 00:00:00\n"), 0o644))

	log, hook := test.NewNullLogger()
	results, err := Convert(config.Options{
		ImagePath:  sheet,
		OutputName: filepath.Join(dir, "blank"),
		InspectISO: true,
	}, log)
	failIfErr(t, err)
	require.Len(t, results, 1)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
