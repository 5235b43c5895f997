package main

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/TeamNorCal/ledanim"
	"github.com/TeamNorCal/ledanim/assets"
	"github.com/TeamNorCal/ledanim/model"
)

func TestGenerate(t *testing.T) {
	for pattern := range generators {
		frames, err := generate(pattern, 20, 8)
		if err != nil {
			t.Fatal(err)
		}
		if len(frames) != 8 {
			t.Fatalf("%s: %d frames generated", pattern, len(frames))
		}
		distinct := map[color.RGBA]struct{}{}
		for _, frame := range frames {
			if len(frame) != 20 {
				t.Fatalf("%s: frame of %d LEDs generated", pattern, len(frame))
			}
			for _, c := range frame {
				distinct[c] = struct{}{}
			}
		}
		if len(distinct) > levels {
			t.Errorf("%s: %d distinct colors exceed the %d levels", pattern, len(distinct), levels)
		}
	}

	if _, err := generate("plaid", 20, 8); err == nil {
		t.Error("unknown pattern generated")
	}
	if _, err := generate("rainbow", 0, 8); err == nil {
		t.Error("empty strand generated")
	}
}

func TestUpsert(t *testing.T) {
	entries := upsert(nil, model.Entry{Name: "a", Delay: 1})
	entries = upsert(entries, model.Entry{Name: "b"})
	entries = upsert(entries, model.Entry{Name: "a", Delay: 2})

	if len(entries) != 2 || entries[0].Name != "a" || entries[0].Delay != 2 || entries[1].Name != "b" {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	*outDir = dir
	*leds = 12
	*frames = 5
	*delay = 25

	*name, *pattern, *encoding, *compress = "colors", "rainbow", "rgb24", true
	if err := run(); err != nil {
		t.Fatal(err)
	}
	*name, *pattern, *encoding, *compress = "pulse", "enl", "indexed-rle", false
	if err := run(); err != nil {
		t.Fatal(err)
	}

	manifest, err := loadManifest(filepath.Join(dir, manifestName))
	if err != nil {
		t.Fatal(err)
	}
	if len(manifest.Animations) != 2 {
		t.Fatalf("expected 2 animations in the manifest, found %d", len(manifest.Animations))
	}

	entry, err := manifest.Find("colors")
	if err != nil {
		t.Fatal(err)
	}
	data, err := assets.Load(dir, entry)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := entry.Config()
	if err != nil {
		t.Fatal(err)
	}
	anim := ledanim.New()
	if err = anim.InitConfig(cfg, data); err != nil {
		t.Fatal(err)
	}

	expected, err := generate("rainbow", 12, 5)
	if err != nil {
		t.Fatal(err)
	}
	frame := model.NewFrame(12)
	for f := range expected {
		if err = anim.Draw(frame); err != nil {
			t.Fatal(err)
		}
		for led, c := range frame.Shown {
			if c != expected[f][led] {
				t.Fatalf("frame %d LED %d played as %v, expected %v", f, led, c, expected[f][led])
			}
		}
	}

	if entry, err = manifest.Find("pulse"); err != nil {
		t.Fatal(err)
	}
	if entry.Encoding != "indexed-rle" || entry.Delay != 25 || filepath.Ext(entry.File) == assets.CompressedSuffix {
		t.Errorf("unexpected entry %+v", entry)
	}
}
