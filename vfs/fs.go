// Package vfs reads the ISO-9660 filesystem of an extracted data
// track.
package vfs

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/filesystem/iso9660"

	"github.com/rabidaudio/binchunk/disc"
)

// IsoOverhead is room for the system area, volume descriptors and
// directory records of a small image.
const IsoOverhead = 1 << 20

// Filesystem is the filesystem found on an extracted ISO payload file.
// Be sure to Close() the Filesystem after use.
type Filesystem struct {
	filesystem.FileSystem
	Path    string
	closefn func() error
}

// Open reads the filesystem of the ISO payload file at path. The file
// is opened read-only.
func Open(path string) (*Filesystem, error) {
	dsk, err := diskfs.Open(path, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// the whole file is one filesystem of 2048 byte blocks
	dsk.LogicalBlocksize = disc.Mode1DataSize

	fs, err := dsk.GetFilesystem(0)
	if err != nil {
		_ = dsk.Close()
		return nil, fmt.Errorf("read filesystem %s: %w", path, err)
	}
	if fs.Type() != filesystem.TypeISO9660 {
		_ = dsk.Close()
		return nil, fmt.Errorf("read filesystem %s: not ISO-9660", path)
	}

	return &Filesystem{FileSystem: fs, Path: path, closefn: dsk.Close}, nil
}

// Create writes an ISO-9660 image holding files to path and returns
// it opened for reading. File names are absolute paths in the image.
func Create(path, label string, files map[string][]byte) (*Filesystem, error) {
	size := int64(IsoOverhead)
	for _, data := range files {
		size += int64(len(data)) + disc.Mode1DataSize
	}
	size -= size % disc.Mode1DataSize

	dsk, err := diskfs.Create(path, size, diskfs.SectorSizeDefault)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	dsk.LogicalBlocksize = disc.Mode1DataSize

	fs, err := dsk.CreateFilesystem(disk.FilesystemSpec{
		Partition:   0,
		FSType:      filesystem.TypeISO9660,
		VolumeLabel: label,
	})
	if err != nil {
		defer os.Remove(path)
		return nil, fmt.Errorf("create filesystem %s: %w", path, err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		file, err := fs.OpenFile(name, os.O_CREATE|os.O_RDWR)
		if err != nil {
			return nil, fmt.Errorf("create file %v: %w", name, err)
		}
		_, err = file.Write(files[name])
		if c := file.Close(); err == nil {
			err = c
		}
		if err != nil {
			return nil, fmt.Errorf("write file %v: %w", name, err)
		}
	}

	iso, ok := fs.(*iso9660.FileSystem)
	if !ok {
		return nil, fmt.Errorf("create filesystem %s: not ISO-9660", path)
	}
	if err := iso.Finalize(iso9660.FinalizeOptions{VolumeIdentifier: label}); err != nil {
		return nil, fmt.Errorf("finalize %s: %w", path, err)
	}
	if err := dsk.Close(); err != nil {
		return nil, err
	}
	return Open(path)
}

// Label returns the volume identifier without its space or NUL
// padding.
func (f *Filesystem) Label() string {
	return strings.TrimRight(f.FileSystem.Label(), " \x00")
}

// Entries returns the names in the root directory, sorted.
func (f *Filesystem) Entries() ([]string, error) {
	infos, err := f.ReadDir("/")
	if err != nil {
		return nil, fmt.Errorf("read root %s: %w", f.Path, err)
	}
	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		name := fi.Name()
		switch name {
		case "", ".", "..":
			continue
		}
		if fi.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *Filesystem) Close() error {
	return f.closefn()
}
