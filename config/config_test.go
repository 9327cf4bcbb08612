package config

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   Options
		want Options
	}{
		{
			name: "all paths given",
			in:   Options{ImagePath: "a.bin", SheetPath: "a.cue", OutputName: "out"},
			want: Options{ImagePath: "a.bin", SheetPath: "a.cue", OutputName: "out"},
		},
		{
			name: "sheet only",
			in:   Options{ImagePath: "dir/game.cue"},
			want: Options{SheetPath: "dir/game.cue", OutputName: "game"},
		},
		{
			name: "default output name stops at first dot",
			in:   Options{ImagePath: "x.bin", SheetPath: "/tmp/my.game.v2.cue"},
			want: Options{ImagePath: "x.bin", SheetPath: "/tmp/my.game.v2.cue", OutputName: "my"},
		},
		{
			name: "flags are kept",
			in:   Options{ImagePath: "g.cue", ToWav: true, SwapAudioBytes: true},
			want: Options{SheetPath: "g.cue", OutputName: "g", ToWav: true, SwapAudioBytes: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Resolve())
		})
	}
}

func TestResolveDoesNotMutate(t *testing.T) {
	in := Options{ImagePath: "g.cue"}
	_ = in.Resolve()
	assert.Equal(t, "g.cue", in.ImagePath)
	assert.Empty(t, in.SheetPath)
}

func TestNewLogger(t *testing.T) {
	var out, errs bytes.Buffer

	log := NewLogger(Options{Verbose: true}, &out, &errs)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	log.Warn("filename mismatch")
	assert.Contains(t, errs.String(), "filename mismatch")
	assert.Contains(t, errs.String(), "level=warning")
	assert.Empty(t, out.String())

	log.Infof("%d: %s %dMiB", 1, "game01.iso", 3)
	assert.Equal(t, "1: game01.iso 3MiB\n", out.String())

	out.Reset()
	errs.Reset()
	log = NewLogger(Options{}, &out, &errs)
	log.Warn("should not appear")
	log.Info("should not appear")
	assert.Empty(t, out.String())
	assert.Empty(t, errs.String())
	log.Error("shown")
	assert.Contains(t, errs.String(), "shown")
	assert.Empty(t, out.String())
}
