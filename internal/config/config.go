package config

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/autobrr/go-mkvnav/internal/chapter"
	"github.com/autobrr/go-mkvnav/internal/dvdvm"
	"github.com/autobrr/go-mkvnav/internal/events"
)

type Registers struct {
	GPRM map[uint16]uint16 `yaml:"gprm"`
	SPRM map[uint16]uint16 `yaml:"sprm"`
}

// Config is the per-session configuration of a playback run.
type Config struct {
	// Edition is the index of the edition to play in every segment, -1 for the
	// default one.
	Edition      int       `yaml:"edition"`
	StartChapter uint64    `yaml:"start_chapter"`
	Trace        bool      `yaml:"trace"`
	Color        bool      `yaml:"color"`
	Registers    Registers `yaml:"registers"`
	// Menu is a hex-encoded button table for the event loop.
	Menu string `yaml:"menu"`
}

func Default() Config {
	return Config{Edition: -1, Color: true}
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode yaml")
	}
	return cfg, cfg.Validate()
}

// Validate checks register indexes and the menu encoding.
func (c Config) Validate() error {
	scratch := dvdvm.NewRegisters()
	for index := range c.Registers.GPRM {
		if !scratch.Set(index, 0) {
			return errors.Errorf("gprm %d out of range", index)
		}
	}
	for index := range c.Registers.SPRM {
		if !scratch.SetSPRM(index, 0) {
			return errors.Errorf("sprm 0x%X is not writable", index)
		}
	}
	if _, err := c.ParseMenu(); err != nil {
		return err
	}
	return nil
}

// Apply writes the configured register values into regs.
func (c Config) Apply(regs *dvdvm.Registers) {
	for index, value := range c.Registers.GPRM {
		regs.Set(index, value)
	}
	for index, value := range c.Registers.SPRM {
		regs.SetSPRM(index, value)
	}
}

// SelectEdition switches every segment to the configured edition. Segments
// without that many editions keep their default.
func (c Config) SelectEdition(segments []*chapter.Segment) {
	if c.Edition < 0 {
		return
	}
	for _, seg := range segments {
		seg.SelectEdition(c.Edition)
	}
}

// ParseMenu decodes Menu. It returns nil when no menu is configured.
func (c Config) ParseMenu() (*events.Menu, error) {
	text := strings.Join(strings.Fields(c.Menu), "")
	if text == "" {
		return nil, nil
	}
	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, errors.Wrap(err, "menu")
	}
	menu, err := events.ParseMenu(data)
	if err != nil {
		return nil, errors.Wrap(err, "menu")
	}
	return menu, nil
}
