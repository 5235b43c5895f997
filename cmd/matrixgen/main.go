package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/karlmutch/envflag" // Forked copy of https://github.com/GoBike/envflag

	"github.com/TeamNorCal/ledanim"
	"github.com/TeamNorCal/ledanim/assets"
	"github.com/TeamNorCal/ledanim/model"
	"github.com/TeamNorCal/ledanim/pack"
	"github.com/TeamNorCal/ledanim/version"
)

var (
	logger = logxi.New("matrixgen")

	verbose  = flag.Bool("v", false, "When enabled will print internal logging for this tool")
	outDir   = flag.String("out", ".", "The directory into which the animation and its manifest are written")
	name     = flag.String("name", "demo", "The name given to the animation within the manifest")
	pattern  = flag.String("pattern", "rainbow", "The pattern to generate, one of rainbow, enl, res")
	encoding = flag.String("encoding", "rgb565-rle", "The encoding used to store frames, one of rgb24, rgb565, rgb565-rle, indexed, indexed-rle")
	leds     = flag.Int("leds", 64, "The number of LEDs in the matrix")
	frames   = flag.Int("frames", 64, "The number of frames to generate")
	delay    = flag.Uint("delay", 40, "The number of milliseconds between frames")
	compress = flag.Bool("compress", false, "When enabled the animation is stored zstd compressed")
)

// manifestName is the manifest maintained within the output directory
const manifestName = "animations.yaml"

func usage() {
	fmt.Fprintln(os.Stderr, path.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "usage: ", os.Args[0], "[options]       pattern → animation (matrixgen)      ", version.GitHash, "    ", version.BuildTime)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "matrixgen writes demonstration LED matrix animations and adds them to the manifest in the output directory")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment Variables:")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options can also be extracted from environment variables by changing dashes '-' to underscores and using upper case.")
}

func init() {
	flag.Usage = usage
}

func main() {

	if !flag.Parsed() {
		envflag.Parse()
	}

	if *verbose {
		logger.SetLevel(logxi.LevelDebug)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}
}

func run() (err errors.Error) {
	enc, err := ledanim.ParseEncoding(*encoding)
	if err != nil {
		return err
	}
	if *delay > 0xFFFF {
		return errors.New("delay out of range").With("delay", *delay).With("stack", stack.Trace().TrimRuntime())
	}

	generated, err := generate(*pattern, *leds, *frames)
	if err != nil {
		return err
	}
	data, err := pack.Encode(enc, generated)
	if err != nil {
		return err
	}

	entry, err := assets.Save(*outDir, model.Entry{
		Name:     *name,
		File:     *name + ".anim",
		Encoding: enc.String(),
		LEDs:     uint16(*leds),
		Frames:   uint16(*frames),
		Delay:    uint16(*delay),
	}, data, *compress)
	if err != nil {
		return err
	}

	manifestFn := filepath.Join(*outDir, manifestName)
	manifest, err := loadManifest(manifestFn)
	if err != nil {
		return err
	}
	manifest.Animations = upsert(manifest.Animations, entry)

	raw, err := manifest.Marshal()
	if err != nil {
		return err
	}
	if errGo := os.WriteFile(manifestFn, raw, 0644); errGo != nil {
		return errors.Wrap(errGo).With("manifest", manifestFn).With("stack", stack.Trace().TrimRuntime())
	}

	logger.Info("animation written", "name", entry.Name, "file", entry.File, "bytes", len(data), "encoding", entry.Encoding)
	return nil
}

// loadManifest reads an existing manifest, a missing manifest is treated as
// being empty
func loadManifest(fn string) (manifest *model.Manifest, err errors.Error) {
	raw, errGo := os.ReadFile(fn)
	if os.IsNotExist(errGo) {
		return &model.Manifest{}, nil
	}
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("manifest", fn).With("stack", stack.Trace().TrimRuntime())
	}
	if manifest, err = model.ParseManifest(raw); err != nil {
		return nil, err.With("manifest", fn)
	}
	return manifest, nil
}

// upsert replaces the entry with the same name, or appends the entry when it is
// new
func upsert(entries []model.Entry, entry model.Entry) []model.Entry {
	for i := range entries {
		if entries[i].Name == entry.Name {
			entries[i] = entry
			return entries
		}
	}
	return append(entries, entry)
}
