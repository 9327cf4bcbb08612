package disc

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeToFrames converts a MM:SS:FF sheet timestamp into an absolute
// frame (sector) count.
func TimeToFrames(msf string) (int64, error) {
	parts := strings.Split(msf, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("time %q is not MM:SS:FF", msf)
	}
	var v [3]int64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("time %q: %w", msf, err)
		}
		v[i] = int64(n)
	}
	return FramesPerSecond*(v[0]*60+v[1]) + v[2], nil
}

// ByteOffset returns the offset in the image of the first byte of a sector.
func ByteOffset(sector int64) int64 {
	return sector * SectorSize
}
