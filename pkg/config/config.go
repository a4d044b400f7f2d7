// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package config loads the viewer configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/arcgis"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/export"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/scene"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/view"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

const (
	DefaultBasemapURL   = "https://services.arcgisonline.com/arcgis/rest/services/Ocean/World_Ocean_Base/MapServer"
	DefaultFeaturesURL  = "https://services.arcgis.com/V6ZHFr6zdgNZuVG0/arcgis/rest/services/europe_country_capitals/FeatureServer/0"
	DefaultLegendTitle  = "European Capital Cities"
	DefaultContainer    = "viewDiv"
	DefaultZoom         = 6
	DefaultScale        = 123456789
	DefaultTimeout      = 30
	DefaultListenAddr   = "127.0.0.1:8765"
	DefaultExportFormat = "geojson"
)

// DefaultCenter is the start center of both renderers.
var DefaultCenter = viewpoint.LonLat{Lon: 26.1025, Lat: 44.4268}

// Layer names a remote layer.
type Layer struct {
	URL        string `yaml:"url"`
	Title      string `yaml:"title,omitempty"`
	LabelField string `yaml:"label_field,omitempty"`
}

// PlanarView is the start framing of the planar renderer.
type PlanarView struct {
	Center  viewpoint.LonLat `yaml:"center"`
	Zoom    float64          `yaml:"zoom"`
	Heading float64          `yaml:"heading,omitempty"`
}

// PerspectiveView is the start framing of the perspective renderer.
type PerspectiveView struct {
	Center  viewpoint.LonLat `yaml:"center"`
	Scale   float64          `yaml:"scale"`
	Tilt    float64          `yaml:"tilt,omitempty"`
	Heading float64          `yaml:"heading,omitempty"`
}

// Remote configures the WebSocket control endpoint.
type Remote struct {
	Listen         string   `yaml:"listen"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// Output configures where exports and snapshots go.
type Output struct {
	Dir          string `yaml:"dir"`
	ExportFormat string `yaml:"export_format"`
}

// Log configures the log sink.
type Log struct {
	Level string `yaml:"level"`
	// File is the rotating log file. Empty logs to stderr.
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Config is the complete viewer configuration.
type Config struct {
	Basemap     Layer           `yaml:"basemap"`
	Features    Layer           `yaml:"features"`
	Container   string          `yaml:"container"`
	Planar      PlanarView      `yaml:"planar"`
	Perspective PerspectiveView `yaml:"perspective"`
	// SyncInitialViewpoints derives the perspective start framing from the
	// planar one instead of using Perspective.
	SyncInitialViewpoints bool   `yaml:"sync_initial_viewpoints"`
	SnapZoom              bool   `yaml:"snap_zoom"`
	TimeoutSeconds        int    `yaml:"timeout_seconds"`
	Remote                Remote `yaml:"remote"`
	Output                Output `yaml:"output"`
	Log                   Log    `yaml:"log"`
}

// Default returns the configuration of the European capitals viewer.
func Default() Config {
	return Config{
		Basemap:   Layer{URL: DefaultBasemapURL},
		Features:  Layer{URL: DefaultFeaturesURL, Title: DefaultLegendTitle},
		Container: DefaultContainer,
		Planar: PlanarView{
			Center: DefaultCenter,
			Zoom:   DefaultZoom,
		},
		Perspective: PerspectiveView{
			Center: DefaultCenter,
			Scale:  DefaultScale,
		},
		TimeoutSeconds: DefaultTimeout,
		Remote:         Remote{Listen: DefaultListenAddr},
		Output:         Output{Dir: ".", ExportFormat: DefaultExportFormat},
		Log:            Log{Level: "info", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults.
func Decode(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports every problem with the configuration.
func (c Config) Validate() error {
	var err error
	if !arcgis.IsValidHTTPURL(c.Basemap.URL) {
		err = multierr.Append(err, fmt.Errorf("basemap.url %q is not an http(s) URL", c.Basemap.URL))
	}
	if !arcgis.IsValidHTTPURL(c.Features.URL) {
		err = multierr.Append(err, fmt.Errorf("features.url %q is not an http(s) URL", c.Features.URL))
	} else if arcgis.IsArcGISOnlineItemURL(c.Features.URL) {
		err = multierr.Append(err, fmt.Errorf("features.url %q is an item page, want a FeatureServer layer URL", c.Features.URL))
	} else if _, _, serr := arcgis.SplitLayerURL(c.Features.URL); serr != nil {
		err = multierr.Append(err, fmt.Errorf("features.url: %w", serr))
	}
	if c.Container == "" {
		err = multierr.Append(err, errors.New("container must not be empty"))
	}
	initial := c.InitialViews()
	if verr := initial.Planar.Validate(viewpoint.Planar); verr != nil {
		err = multierr.Append(err, fmt.Errorf("planar: %w", verr))
	}
	if !c.SyncInitialViewpoints {
		if verr := initial.Perspective.Validate(viewpoint.Perspective); verr != nil {
			err = multierr.Append(err, fmt.Errorf("perspective: %w", verr))
		}
	}
	if c.TimeoutSeconds <= 0 {
		err = multierr.Append(err, fmt.Errorf("timeout_seconds %d must be positive", c.TimeoutSeconds))
	}
	if _, ferr := export.ParseFormat(c.Output.ExportFormat); ferr != nil {
		err = multierr.Append(err, fmt.Errorf("output.export_format: %w", ferr))
	}
	return err
}

// Timeout returns the HTTP request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// InitialViews returns the start framings of both renderers.
func (c Config) InitialViews() view.InitialViews {
	return view.InitialViews{
		Planar: viewpoint.Viewpoint{
			Center:  c.Planar.Center,
			Zoom:    c.Planar.Zoom,
			Heading: c.Planar.Heading,
		},
		Perspective: viewpoint.Viewpoint{
			Center:  c.Perspective.Center,
			Scale:   c.Perspective.Scale,
			Tilt:    c.Perspective.Tilt,
			Heading: c.Perspective.Heading,
		},
	}
}

// Source returns the remote layers the scene is loaded from.
func (c Config) Source() scene.Source {
	return scene.Source{
		BasemapURL:    arcgis.NormalizeArcGISURL(c.Basemap.URL),
		BasemapTitle:  c.Basemap.Title,
		FeaturesURL:   arcgis.NormalizeArcGISURL(c.Features.URL),
		FeaturesTitle: c.Features.Title,
		LabelField:    c.Features.LabelField,
	}
}
