// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package scene holds the immutable layer set shared by both renderers.
package scene

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/arcgis"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/convert"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

// LayerKind distinguishes the two layers of a scene.
type LayerKind int

const (
	TileLayer    LayerKind = iota // cached base imagery
	FeatureLayer                  // point features
)

func (k LayerKind) String() string {
	if k == TileLayer {
		return "tile"
	}
	return "feature"
}

// Layer references a remote layer.
type Layer struct {
	Kind  LayerKind
	Title string
	URL   string
}

// Point is one point feature with the label shown next to it.
type Point struct {
	Label    string
	Position viewpoint.LonLat
}

// Scene is the layer set both renderers depict. It is never mutated after
// construction; accessors return copies.
type Scene struct {
	basemap  Layer
	features Layer
	points   []Point
	levels   []viewpoint.LevelScale
}

// New builds a scene from already resolved parts.
func New(basemap, features Layer, points []Point, levels []viewpoint.LevelScale) *Scene {
	s := &Scene{
		basemap:  basemap,
		features: features,
		points:   make([]Point, len(points)),
		levels:   make([]viewpoint.LevelScale, len(levels)),
	}
	copy(s.points, points)
	copy(s.levels, levels)
	return s
}

// Basemap returns the base imagery layer.
func (s *Scene) Basemap() Layer { return s.basemap }

// Features returns the point feature layer.
func (s *Scene) Features() Layer { return s.features }

// Layers returns both layers, base imagery first.
func (s *Scene) Layers() []Layer { return []Layer{s.basemap, s.features} }

// Points returns a copy of the point features.
func (s *Scene) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Levels returns the base layer's levels of detail (empty when unknown).
func (s *Scene) Levels() []viewpoint.LevelScale {
	out := make([]viewpoint.LevelScale, len(s.levels))
	copy(out, s.levels)
	return out
}

// Mapping returns the zoom/scale mapping agreed on for this scene.
func (s *Scene) Mapping() (viewpoint.Mapping, error) {
	return viewpoint.NewMapping(s.levels)
}

// Fetcher is the part of the ArcGIS client the loader needs.
type Fetcher interface {
	FetchMapServiceInfo(ctx context.Context, serviceURL string) (*arcgis.MapServiceMetadata, error)
	FetchLayerInfo(ctx context.Context, layerURL string) (*arcgis.Layer, error)
	FetchFeatures(ctx context.Context, layerURL string) ([]arcgis.Feature, error)
}

// Source names the remote layers of a scene.
type Source struct {
	BasemapURL    string
	BasemapTitle  string
	FeaturesURL   string
	FeaturesTitle string
	LabelField    string
}

// Load resolves the remote layers of src into a scene. Any failure makes the
// scene unconstructible; the caller treats it as fatal.
func Load(ctx context.Context, f Fetcher, src Source, logger *zap.Logger) (*Scene, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := f.FetchMapServiceInfo(ctx, src.BasemapURL)
	if err != nil {
		return nil, fmt.Errorf("base layer %s: %w", src.BasemapURL, err)
	}
	basemap := Layer{Kind: TileLayer, Title: src.BasemapTitle, URL: src.BasemapURL}
	if basemap.Title == "" {
		basemap.Title = info.Name
	}

	var levels []viewpoint.LevelScale
	if info.TileInfo != nil {
		for _, lod := range info.TileInfo.LODs {
			levels = append(levels, viewpoint.LevelScale{Level: lod.Level, Scale: lod.Scale})
		}
	}
	if _, err := viewpoint.NewMapping(levels); err != nil {
		return nil, fmt.Errorf("base layer %s tiling scheme: %w", src.BasemapURL, err)
	}

	layerInfo, err := f.FetchLayerInfo(ctx, src.FeaturesURL)
	if err != nil {
		return nil, fmt.Errorf("feature layer %s: %w", src.FeaturesURL, err)
	}
	if layerInfo.GeometryType != "" && layerInfo.GeometryType != "esriGeometryPoint" {
		return nil, fmt.Errorf("feature layer %s has geometry type %s, want esriGeometryPoint", src.FeaturesURL, layerInfo.GeometryType)
	}
	features := Layer{Kind: FeatureLayer, Title: src.FeaturesTitle, URL: src.FeaturesURL}
	if features.Title == "" {
		features.Title = layerInfo.Name
	}

	raw, err := f.FetchFeatures(ctx, src.FeaturesURL)
	if err != nil && !errors.Is(err, arcgis.ErrNoFeatures) {
		return nil, fmt.Errorf("feature layer %s: %w", src.FeaturesURL, err)
	}
	geoJSON, err := convert.ToGeoJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("feature layer %s: %w", src.FeaturesURL, err)
	}

	var points []Point
	for _, fp := range convert.Points(geoJSON, src.LabelField) {
		points = append(points, Point{Label: fp.Label, Position: viewpoint.LonLat{Lon: fp.Lon, Lat: fp.Lat}})
	}

	logger.Info("scene loaded",
		zap.String("basemap", basemap.Title),
		zap.String("features", features.Title),
		zap.Int("points", len(points)),
		zap.Int("levels", len(levels)))

	return New(basemap, features, points, levels), nil
}
