// Command binchunk splits a BIN/CUE disc image into one file per
// track.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rabidaudio/binchunk/cderr"
	"github.com/rabidaudio/binchunk/config"
	"github.com/rabidaudio/binchunk/convert"
	"github.com/rabidaudio/binchunk/extract"
)

const (
	usage   = "binchunk [flags] <image.bin> [<image.cue>] [<basename>]"
	example = `  binchunk foo.bin foo.cue foo
  binchunk -ws foo.cue`
)

var errMissingSheet = errors.New("CUE file is missing")

type convertFunc func(config.Options, logrus.FieldLogger) ([]extract.Result, error)

type app struct {
	opts    config.Options
	convert convertFunc
	stdout  io.Writer
	stderr  io.Writer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           usage,
		Example:       example,
		Short:         "Split a BIN/CUE disc image into tracks",
		Long:          "Write every track of a BIN image described by a CUE sheet to its own file:\nISO payload for data tracks, raw or WAV audio for audio tracks.",
		Version:       config.Version,
		Args:          cobra.MaximumNArgs(3),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return errMissingSheet
			}
			a.opts.ImagePath = args[0]
			if len(args) > 1 {
				a.opts.SheetPath = args[1]
			}
			if len(args) > 2 {
				a.opts.OutputName = args[2]
			}
			return a.run()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.Flags()
	flags.BoolVarP(&a.opts.Raw, "raw", "r", false, "raw mode for MODE2/2352: write all 2352 bytes from offset 0 (VCD/MPEG)")
	flags.BoolVarP(&a.opts.PSXTruncate, "psx", "p", false, "PSX mode for MODE2/2352: write 2336 bytes from offset 0")
	flags.BoolVarP(&a.opts.ToWav, "wav", "w", false, "output audio tracks in WAV format")
	flags.BoolVarP(&a.opts.SwapAudioBytes, "swabaudio", "s", false, "swap byte order in audio tracks (try this if your audio comes up corrupted)")
	flags.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "print warnings and a line per written track")
	flags.BoolVarP(&a.opts.InspectISO, "inspect", "i", false, "print the volume label of every ISO track written")
	flags.StringVar(&a.opts.SheetEncoding, "encoding", "", "character set of the CUE file, e.g. Shift_JIS (default UTF-8)")
	return root
}

func (a *app) run() error {
	fmt.Fprintf(a.stdout, "binchunk v%s\n\n", config.Version)

	log := config.NewLogger(a.opts, a.stdout, a.stderr)
	if _, err := a.convert(a.opts, log); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Conversion complete!")
	return nil
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{convert: convert.Convert, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root.SetArgs(args)

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errMissingSheet):
		fmt.Fprintf(stderr, "%v!\n", err)
		return 1
	default:
		fmt.Fprintf(stderr, "Error on conversion: %v\n", err)
		return cderr.KindOf(err).ExitCode()
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
