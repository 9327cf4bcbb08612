// Package disc describes the layout of raw CD sectors as they appear
// in a BIN image: sector size, disc clock and the per-mode payload
// window that is kept when a track is extracted.
package disc

// SampleRate is the number of samples per second. All Redbook audio
// CDs use 44.1KHz.
const SampleRate = 44100

// BytesPerSample is 2 bytes, representing signed 16-bit samples.
const BytesPerSample = 2

// Channels is the number of audio channels in the data. All Redbook
// audio CDs are stereo.
const Channels = 2

// FramesPerSecond is the number of frames in one second of disc time.
// Sheet offsets are specified in MM:SS:FF where FF counts these frames.
//
// A frame is interchangable with a sector: every frame of audio fills
// exactly one raw sector of the image.
const FramesPerSecond = 75

// SectorSize is the number of bytes of one raw sector in the image
// (2352). Audio tracks use all of it, data tracks only a window.
const SectorSize = SampleRate * Channels * BytesPerSample / FramesPerSecond

// Data payload sizes of the sector modes.
const (
	Mode1DataSize = 2048
	Mode2DataSize = 2336
)
