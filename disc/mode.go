package disc

// Mode is the sector encoding a sheet declares for a track.
type Mode int

const (
	Unknown Mode = iota
	Audio
	Mode1_2352
	Mode2_2352
	Mode2_2336
)

// ParseMode maps a sheet mode label to a Mode. Labels that are not
// recognised map to Unknown with ok set to false; callers may warn
// about them but they are not an error.
func ParseMode(label string) (m Mode, ok bool) {
	switch label {
	case "AUDIO":
		return Audio, true
	case "MODE1/2352":
		return Mode1_2352, true
	case "MODE2/2352":
		return Mode2_2352, true
	case "MODE2/2336":
		return Mode2_2336, true
	default:
		return Unknown, false
	}
}

func (m Mode) String() string {
	switch m {
	case Audio:
		return "AUDIO"
	case Mode1_2352:
		return "MODE1/2352"
	case Mode2_2352:
		return "MODE2/2352"
	case Mode2_2336:
		return "MODE2/2336"
	default:
		return "UNKNOWN"
	}
}

// Extension is the suffix of a track's output file.
type Extension int

const (
	ExtUnknown Extension = iota // ugh
	ExtISO                      // iso
	ExtCDR                      // cdr, raw audio
	ExtWAV                      // wav
)

func (e Extension) String() string {
	switch e {
	case ExtISO:
		return "iso"
	case ExtCDR:
		return "cdr"
	case ExtWAV:
		return "wav"
	default:
		return "ugh"
	}
}

// Layout is the payload window of a sector: Size bytes starting at
// Offset within each SectorSize-byte sector, written to a file with
// the given Extension.
type Layout struct {
	Offset    int
	Size      int
	Extension Extension
}

// Resolve returns the payload window for a mode and whether the
// track carries audio. raw takes precedence over psxTruncate; both
// only affect MODE2/2352. toWav only affects audio.
func Resolve(m Mode, raw, psxTruncate, toWav bool) (l Layout, audio bool) {
	switch m {
	case Audio:
		l = Layout{Offset: 0, Size: SectorSize, Extension: ExtCDR}
		if toWav {
			l.Extension = ExtWAV
		}
		return l, true
	case Mode1_2352:
		return Layout{Offset: 16, Size: Mode1DataSize, Extension: ExtISO}, false
	case Mode2_2352:
		switch {
		case raw:
			return Layout{Offset: 0, Size: SectorSize, Extension: ExtISO}, false
		case psxTruncate:
			return Layout{Offset: 0, Size: Mode2DataSize, Extension: ExtISO}, false
		default:
			return Layout{Offset: 24, Size: Mode1DataSize, Extension: ExtISO}, false
		}
	case Mode2_2336:
		return Layout{Offset: 16, Size: Mode2DataSize, Extension: ExtISO}, false
	default:
		return Layout{Offset: 0, Size: SectorSize, Extension: ExtUnknown}, false
	}
}
