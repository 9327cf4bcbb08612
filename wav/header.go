// Package wav builds the RIFF/WAVE header written in front of audio
// tracks.
package wav

import (
	"encoding/binary"
	"math"

	"github.com/rabidaudio/binchunk/cderr"
	"github.com/rabidaudio/binchunk/cue"
	"github.com/rabidaudio/binchunk/disc"
)

const HeaderSize = 44

const (
	fmtChunkSize  = 16
	formatPCM     = 1
	blockAlign    = disc.Channels * disc.BytesPerSample
	byteRate      = disc.SampleRate * blockAlign
	bitsPerSample = disc.BytesPerSample * 8
)

// Header returns the 44 byte header of a 16 bit stereo 44.1kHz PCM
// file carrying payload bytes of sample data.
func Header(payload uint32) [HeaderSize]byte {
	var h [HeaderSize]byte
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], payload+HeaderSize-8)
	copy(h[8:12], "WAVE")

	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(h[20:22], formatPCM)
	binary.LittleEndian.PutUint16(h[22:24], disc.Channels)
	binary.LittleEndian.PutUint32(h[24:28], disc.SampleRate)
	binary.LittleEndian.PutUint32(h[28:32], byteRate)
	binary.LittleEndian.PutUint16(h[32:34], blockAlign)
	binary.LittleEndian.PutUint16(h[34:36], bitsPerSample)

	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], payload)
	return h
}

// PayloadSize is the number of sample bytes the track contributes:
// its sector count times the payload window size.
func PayloadSize(t *cue.Track) (uint32, error) {
	sectors, err := t.Sectors()
	if err != nil {
		return 0, err
	}
	n := sectors * int64(t.Layout.Size)
	if n > math.MaxUint32-(HeaderSize-8) {
		return 0, cderr.ErrTrackTooLarge
	}
	return uint32(n), nil
}
