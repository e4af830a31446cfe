package anim

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethgrid/boris/internal/behaviour"
	"gopkg.in/yaml.v3"
)

// ManifestName is the file describing a pack directory.
const ManifestName = "pack.yaml"

// Pack maps each behaviour to its decoded frames.
type Pack map[behaviour.Behaviour]*Frames

type Manifest struct {
	Name       string                   `yaml:"name"`
	Behaviours map[string]AnimationSpec `yaml:"behaviours"`
}

type AnimationSpec struct {
	File string `yaml:"file"`
	// DelayMS overrides every frame delay when set.
	DelayMS int `yaml:"delay_ms"`
}

func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("anim: load %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("anim: unmarshal %s: %w", path, err)
	}
	return &m, nil
}

// LoadPack decodes the animations for want from the pack in dir. Every
// behaviour in want must be present; anything else is a fatal load error.
func LoadPack(dir string, want []behaviour.Behaviour, size int) (Pack, error) {
	m, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}

	specs := make(map[behaviour.Behaviour]AnimationSpec, len(m.Behaviours))
	for name, spec := range m.Behaviours {
		b, err := behaviour.Parse(name)
		if err != nil || b == behaviour.Random {
			return nil, fmt.Errorf("anim: %s: unknown behaviour %q", ManifestName, name)
		}
		specs[b] = spec
	}

	pack := make(Pack, len(want))
	for _, b := range want {
		spec, ok := specs[b]
		if !ok || spec.File == "" {
			return nil, fmt.Errorf("anim: pack %s has no animation for %s: %w", dir, b, ErrMissing)
		}
		frames, err := loadFile(filepath.Join(dir, spec.File), b.String(), size)
		if err != nil {
			return nil, err
		}
		if spec.DelayMS > 0 {
			for i := range frames.frames {
				frames.frames[i].Delay = time.Duration(spec.DelayMS) * time.Millisecond
			}
		}
		pack[b] = frames
	}
	return pack, nil
}

func loadFile(path, name string, size int) (*Frames, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("anim: %s: %w", path, ErrMissing)
		}
		return nil, fmt.Errorf("anim: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadGIF(name, f, size)
}
