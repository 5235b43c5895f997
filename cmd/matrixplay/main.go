package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/karlmutch/envflag" // Forked copy of https://github.com/GoBike/envflag

	"github.com/TeamNorCal/ledanim"
	"github.com/TeamNorCal/ledanim/assets"
	"github.com/TeamNorCal/ledanim/fadecandy"
	"github.com/TeamNorCal/ledanim/model"
	"github.com/TeamNorCal/ledanim/player"
	"github.com/TeamNorCal/ledanim/version"
)

var (
	logger = logxi.New("matrixplay")

	verbose      = flag.Bool("v", false, "When enabled will print internal logging for this tool")
	manifestPath = flag.String("manifest", "animations.yaml", "The YAML manifest describing the available animations")
	name         = flag.String("name", "", "The name of the animation to play, by default the first in the manifest")
	opcServer    = flag.String("opc", "", "The host:port of an OPC server, such as fcserver, to send frames to")
	opcChannel   = flag.Uint("channel", 0, "The OPC channel to address, 0 broadcasts to all channels")
	term         = flag.Bool("term", false, "When enabled a preview of the animation is drawn on the terminal")
	width        = flag.Int("width", 16, "The number of LEDs in each row of the terminal preview")
	loops        = flag.Uint64("loops", 0, "The number of times to play the animation, 0 plays it until interrupted")
)

func usage() {
	fmt.Fprintln(os.Stderr, path.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "usage: ", os.Args[0], "[options]       animation → OPC (matrixplay)      ", version.GitHash, "    ", version.BuildTime)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "matrixplay plays encoded LED matrix animations to OPC based USB fadecandy boards and the terminal")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment Variables:")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options can also be extracted from environment variables by changing dashes '-' to underscores and using upper case.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "log levels are handled by the LOGXI env variables, these are documented at https://github.com/mgutz/logxi")
}

func init() {
	flag.Usage = usage
}

func main() {

	// Parse the CLI flags
	if !flag.Parsed() {
		envflag.Parse()
	}

	if *verbose {
		logger.SetLevel(logxi.LevelDebug)
	}

	logger.Debug(fmt.Sprintf("%s built at %s, against commit id %s\n", os.Args[0], version.BuildTime, version.GitHash))

	quitC := make(chan struct{})
	stopC := make(chan os.Signal, 1)
	signal.Notify(stopC, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopC
		logger.Debug("interrupted, stopping")
		close(quitC)
	}()

	if err := play(quitC); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}
}

func selectEntry(manifest *model.Manifest) (entry *model.Entry, err errors.Error) {
	if len(*name) != 0 {
		return manifest.Find(*name)
	}
	if len(manifest.Animations) == 0 {
		return nil, errors.New("manifest contains no animations").With("manifest", *manifestPath).With("stack", stack.Trace().TrimRuntime())
	}
	return &manifest.Animations[0], nil
}

func play(quitC <-chan struct{}) (err errors.Error) {

	raw, errGo := os.ReadFile(*manifestPath)
	if errGo != nil {
		return errors.Wrap(errGo).With("manifest", *manifestPath).With("stack", stack.Trace().TrimRuntime())
	}
	manifest, err := model.ParseManifest(raw)
	if err != nil {
		return err.With("manifest", *manifestPath)
	}
	entry, err := selectEntry(manifest)
	if err != nil {
		return err
	}

	data, err := assets.Load(filepath.Dir(*manifestPath), entry)
	if err != nil {
		return err
	}

	sinks := ledanim.Fanout{}
	if len(*opcServer) != 0 {
		fc, err := fadecandy.Connect(*opcServer, uint8(*opcChannel), int(entry.LEDs))
		if err != nil {
			return err
		}
		sinks = append(sinks, fc)
	}
	if *term {
		sinks = append(sinks, newTermSink(os.Stdout, int(entry.LEDs), *width))
	}
	if len(sinks) == 0 {
		return errors.New("no display selected, use -opc and/or -term").With("stack", stack.Trace().TrimRuntime())
	}

	p := player.New()
	if err = p.Load(entry, data); err != nil {
		return err
	}

	errorC := make(chan errors.Error, 1)
	doneC := make(chan struct{})
	go func() {
		defer close(doneC)
		msgWatch(errorC)
	}()

	logger.Debug("playing", "name", entry.Name, "loops", *loops)
	p.Run(sinks, *loops, errorC, quitC)

	// Run no longer sends, let the watcher print anything still buffered
	close(errorC)
	<-doneC

	return nil
}
