package model

// This module defines the manifest used to describe a collection of encoded
// animations stored alongside it, the manifest is a YAML document

import (
	"github.com/cnf/structhash"
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"gopkg.in/yaml.v2"

	"github.com/TeamNorCal/ledanim"
)

// Entry describes a single encoded animation
type Entry struct {
	Name     string `yaml:"name"`
	File     string `yaml:"file"`               // Path of the encoded stream, relative to the manifest. A .zst suffix indicates zstd compression
	Encoding string `yaml:"encoding"`           // One of rgb24, rgb565, rgb565-rle, indexed, indexed-rle
	LEDs     uint16 `yaml:"leds"`               // Number of LEDs in the matrix
	Frames   uint16 `yaml:"frames"`             // Number of frames in the animation
	Delay    uint16 `yaml:"delay"`              // Milliseconds between frames
	Checksum string `yaml:"checksum,omitempty"` // Optional xxhash64, in hex, of the uncompressed stream
}

type Manifest struct {
	Animations []Entry `yaml:"animations"`
}

// ParseManifest decodes and validates a manifest
func ParseManifest(data []byte) (manifest *Manifest, err errors.Error) {
	manifest = &Manifest{}
	if errGo := yaml.Unmarshal(data, manifest); errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}

	names := make(map[string]struct{}, len(manifest.Animations))
	for i := range manifest.Animations {
		entry := &manifest.Animations[i]
		if _, isPresent := names[entry.Name]; isPresent {
			return nil, errors.New("duplicate animation name").With("name", entry.Name).With("stack", stack.Trace().TrimRuntime())
		}
		names[entry.Name] = struct{}{}

		if err = entry.Validate(); err != nil {
			return nil, err.With("entry", i)
		}
	}
	return manifest, nil
}

// Marshal produces the YAML form of the manifest
func (manifest *Manifest) Marshal() (data []byte, err errors.Error) {
	data, errGo := yaml.Marshal(manifest)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	return data, nil
}

// Find locates an animation by name
func (manifest *Manifest) Find(name string) (entry *Entry, err errors.Error) {
	for i := range manifest.Animations {
		if manifest.Animations[i].Name == name {
			return &manifest.Animations[i], nil
		}
	}
	return nil, errors.New("animation not found in manifest").With("name", name).With("stack", stack.Trace().TrimRuntime())
}

// Validate checks the entry holds everything needed to initialize an animation
func (entry *Entry) Validate() (err errors.Error) {
	if len(entry.Name) == 0 {
		return errors.New("animation name missing").With("stack", stack.Trace().TrimRuntime())
	}
	if len(entry.File) == 0 {
		return errors.New("animation file missing").With("name", entry.Name).With("stack", stack.Trace().TrimRuntime())
	}
	_, err = entry.Config()
	return err
}

// Config converts the entry into the configuration for ledanim.Animation.Init
func (entry *Entry) Config() (cfg ledanim.Config, err errors.Error) {
	enc, err := ledanim.ParseEncoding(entry.Encoding)
	if err != nil {
		return cfg, err.With("name", entry.Name)
	}
	if entry.LEDs == 0 || entry.Frames == 0 {
		return cfg, errors.New("animation LED and frame counts must be greater than zero").
			With("name", entry.Name).
			With("leds", entry.LEDs).
			With("frames", entry.Frames).
			With("stack", stack.Trace().TrimRuntime())
	}
	return ledanim.Config{
		LEDCount:   entry.LEDs,
		FrameCount: entry.Frames,
		FrameDelay: entry.Delay,
		Encoding:   enc,
	}, nil
}

// Hash fingerprints the entry, two entries with the same hash describe the
// same animation
func (entry *Entry) Hash() []byte {
	return structhash.Md5(entry, 1)
}
