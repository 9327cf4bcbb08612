// Package binfile reads a BIN image a block of sectors at a time.
package binfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rabidaudio/binchunk/disc"
)

// ReadAhead is the number of sectors loaded from the image at once.
const ReadAhead = 16

// Reader is a seekable reader over an image which only ever reads
// and seeks the underlying file in whole sectors. Tracks are read
// back to back, so seeking to the offset the reader is already at
// keeps whatever has been buffered.
type Reader struct {
	BlockReader io.ReadSeeker
	path        string
	trueOffset  int64 // offset of the next byte returned by Read
	blockOffset int64 // offset of the BlockReader, sector aligned
	buf         bytes.Buffer
	scratch     []byte
}

// Open opens the image at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(f, path), nil
}

// NewReader wraps r, which must be positioned at the start of the
// image. path is only used to describe the image.
func NewReader(r io.ReadSeeker, path string) *Reader {
	return &Reader{BlockReader: r, path: path}
}

// Path returns the path of the image.
func (b *Reader) Path() string {
	return b.path
}

// Offset returns the current absolute offset in the image.
func (b *Reader) Offset() int64 {
	return b.trueOffset
}

func (b *Reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	// if there's data available in the buffer, return just that
	if b.buf.Len() > 0 {
		n = copy(p, b.buf.Next(len(p)))
		b.trueOffset += int64(n)
		nn, err := b.Read(p[n:])
		if n > 0 && err == io.EOF {
			err = nil
		}
		return n + nn, err
	}
	// otherwise load data into the buffer
	nblocks := max(len(p)/disc.SectorSize+1, ReadAhead)
	if err = b.loadNextBlocks(nblocks); err != nil {
		return 0, err
	}
	// recurse to load said data from buffer
	return b.Read(p)
}

func (b *Reader) loadNextBlocks(nblocks int) error {
	size := nblocks * disc.SectorSize
	if cap(b.scratch) < size {
		b.scratch = make([]byte, size)
	}
	pp := b.scratch[:size]
	n, err := b.BlockReader.Read(pp)
	b.blockOffset += int64(n)
	b.buf.Write(pp[:n])
	if n > 0 && err == io.EOF {
		return nil
	}
	if n == 0 && err == nil {
		return io.ErrNoProgress
	}
	return err
}

func (b *Reader) Seek(offset int64, whence int) (newoffset int64, err error) {
	switch whence {
	case io.SeekStart:
		newoffset = offset
	case io.SeekCurrent:
		newoffset = b.trueOffset + offset
	case io.SeekEnd:
		size, err := b.BlockReader.Seek(0, io.SeekEnd)
		if err != nil {
			return b.trueOffset, err
		}
		// the block reader moved, so the buffer can't be reused
		b.blockOffset = size
		b.buf.Reset()
		b.trueOffset = size
		newoffset = size + offset
	default:
		return b.trueOffset, fmt.Errorf("seek %s: invalid whence %d", b.path, whence)
	}
	if newoffset < 0 {
		return b.trueOffset, fmt.Errorf("seek %s: %w", b.path, errNegativeOffset)
	}

	// nothing to do
	if newoffset == b.trueOffset {
		return newoffset, nil
	}

	// can use data already in buffer
	if newoffset > b.trueOffset && newoffset < b.blockOffset {
		_ = b.buf.Next(int(newoffset - b.trueOffset))
		b.trueOffset = newoffset
		return newoffset, nil
	}

	// otherwise we're going to need to wipe and seek
	newblockoffset := newoffset - (newoffset % disc.SectorSize)
	b.blockOffset, err = b.BlockReader.Seek(newblockoffset, io.SeekStart)
	b.buf.Reset()
	if err != nil {
		b.trueOffset = b.blockOffset
		return b.trueOffset, err
	}
	b.trueOffset = b.blockOffset
	if newoffset == newblockoffset {
		return newoffset, nil
	}
	err = b.loadNextBlocks(1)
	if err != nil && err != io.EOF {
		return b.trueOffset, err
	}
	// empty the buffer
	_ = b.buf.Next(int(newoffset - newblockoffset))
	b.trueOffset = newoffset
	return newoffset, nil
}

var errNegativeOffset = errors.New("negative offset")

// Close closes the underlying image if it can be closed.
func (b *Reader) Close() error {
	b.buf.Reset()
	if c, ok := b.BlockReader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
