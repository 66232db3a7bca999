// Package config handles lumen.toml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/chazu/lumen/gc"

	_ "github.com/tliron/commonlog/simple"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "lumen.toml"

// DefaultCollectThreshold is the number of tracked objects after which
// Heap.MaybeCollect collects.
const DefaultCollectThreshold = 4096

var log = commonlog.GetLogger("lumen.config")

// Config represents a lumen.toml file.
type Config struct {
	Heap Heap `toml:"heap"`
	Log  Log  `toml:"log"`

	// Path is the file the config was loaded from (set at load time).
	Path string `toml:"-"`
}

// Heap configures the reference collector.
type Heap struct {
	// CollectThreshold is a pointer so an explicit 0 (never collect
	// at safepoints) is told apart from an absent key.
	CollectThreshold *int `toml:"collect-threshold"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Parse decodes TOML data and applies defaults.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

// Load parses the lumen.toml file in dir.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Path = path
	log.Debugf("loaded %s", path)
	return c, nil
}

// FindAndLoad walks up from startDir to find a lumen.toml file and loads
// it. Returns nil if none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.Heap.CollectThreshold == nil {
		n := DefaultCollectThreshold
		c.Heap.CollectThreshold = &n
	}
	if c.Heap.Threshold() < 0 {
		n := 0
		c.Heap.CollectThreshold = &n
	}
}

// Threshold returns the configured collect threshold.
func (h Heap) Threshold() int {
	if h.CollectThreshold == nil {
		return DefaultCollectThreshold
	}
	return *h.CollectThreshold
}

// ApplyLogging configures commonlog from the [log] section. An empty path
// logs to stderr.
func (c *Config) ApplyLogging() {
	var path *string
	if c.Log.Path != "" {
		path = &c.Log.Path
	}
	commonlog.Configure(c.Log.Verbosity, path)
}

// NewHeap creates a collector heap from the [heap] section.
func (c *Config) NewHeap() *gc.Heap {
	return gc.NewHeap(gc.HeapConfig{CollectThreshold: c.Heap.Threshold()})
}

// InstallHeap creates a heap, makes it the process-wide collector and
// returns it with the collector it replaced.
func (c *Config) InstallHeap() (*gc.Heap, gc.Collector) {
	h := c.NewHeap()
	old := gc.SetDefault(h)
	log.Infof("installed heap (collect threshold %d)", c.Heap.Threshold())
	return h, old
}
