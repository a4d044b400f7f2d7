// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package arcgis provides a small client for the ArcGIS REST services the viewer draws from.
package arcgis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoFeatures is returned when a feature query succeeds but yields nothing.
var ErrNoFeatures = errors.New("no features found")

// Client represents an ArcGIS client with configuration.
type Client struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewClient creates a new ArcGIS client with the specified timeout.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Timeout: timeout,
		Logger:  logger.Named("arcgis"),
	}
}

// IsArcGISOnlineItemURL checks if a URL points to an ArcGIS Online item page.
func IsArcGISOnlineItemURL(rawURL string) bool {
	return strings.Contains(strings.ToLower(rawURL), "arcgis.com/home/item.html")
}

var canonicalPathParts = map[string]string{
	"arcgis":        "ArcGIS",
	"rest":          "rest",
	"services":      "services",
	"featureserver": "FeatureServer",
	"mapserver":     "MapServer",
}

// NormalizeArcGISURL normalizes an ArcGIS service or layer URL: it adds a
// missing scheme, fixes the casing of the well-known path segments, keeps a
// trailing slash only on bare service URLs and strips the f= parameter.
func NormalizeArcGISURL(rawURL string) string {
	lowerURL := strings.ToLower(rawURL)
	isArcGISService := strings.Contains(lowerURL, "/rest/services") || strings.Contains(lowerURL, "/arcgis/rest")

	if !isArcGISService {
		u, err := url.Parse(rawURL)
		if err == nil && u.Scheme == "" && strings.Contains(rawURL, ".") &&
			!strings.Contains(rawURL, " ") && !strings.HasPrefix(rawURL, "/") {
			return "https://" + rawURL
		}
		return rawURL
	}

	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	pathParts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range pathParts {
		if canonical, ok := canonicalPathParts[strings.ToLower(part)]; ok {
			pathParts[i] = canonical
		}
	}
	u.Path = "/" + strings.Join(pathParts, "/")

	last := strings.ToLower(pathParts[len(pathParts)-1])
	if last == "mapserver" || last == "featureserver" {
		u.Path += "/"
	}

	q := u.Query()
	q.Del("f")
	u.RawQuery = q.Encode()

	return u.String()
}

// IsValidHTTPURL checks if a URL is a valid HTTP or HTTPS URL.
func IsValidHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// SplitLayerURL splits a layer URL such as .../FeatureServer/0 into the
// service URL and the layer ID.
func SplitLayerURL(layerURL string) (serviceURL, layerID string, err error) {
	trimmed := strings.TrimRight(layerURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return "", "", fmt.Errorf("invalid layer URL format: %s", layerURL)
	}
	layerID = trimmed[idx+1:]
	if _, convErr := strconv.Atoi(layerID); convErr != nil {
		return "", "", fmt.Errorf("layer URL %s does not end in a numeric layer ID", layerURL)
	}
	return trimmed[:idx], layerID, nil
}

// FetchAndDecode fetches data from a URL and decodes it into the target interface.
func (c *Client) FetchAndDecode(ctx context.Context, urlStr string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", urlStr, err)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return fmt.Errorf("request timed out fetching data from %s: %w", urlStr, err)
		}
		return fmt.Errorf("failed to fetch data from %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	c.Logger.Debug("fetched",
		zap.String("url", urlStr),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-OK HTTP status %d from %s", resp.StatusCode, urlStr)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to parse JSON from %s: %w", urlStr, err)
	}

	return nil
}

// FetchMapServiceInfo fetches the metadata of a Map Server, including its tiling scheme.
func (c *Client) FetchMapServiceInfo(ctx context.Context, serviceURL string) (*MapServiceMetadata, error) {
	fetchURL := withJSONFormat(serviceURL)
	c.Logger.Info("fetching map service metadata", zap.String("url", fetchURL))

	var metadata MapServiceMetadata
	if err := c.FetchAndDecode(ctx, fetchURL, &metadata); err != nil {
		return nil, fmt.Errorf("failed to fetch Map Server metadata: %w", err)
	}
	if metadata.Error != nil {
		return nil, fmt.Errorf("map Server API error: %s", metadata.Error.Message)
	}
	if metadata.TileInfo == nil {
		c.Logger.Warn("map service is not cached, no tiling scheme", zap.String("url", serviceURL))
	}
	return &metadata, nil
}

// FetchLayerInfo fetches the metadata of a single layer.
func (c *Client) FetchLayerInfo(ctx context.Context, layerURL string) (*Layer, error) {
	fetchURL := withJSONFormat(layerURL)
	c.Logger.Info("fetching layer metadata", zap.String("url", fetchURL))

	var layer Layer
	if err := c.FetchAndDecode(ctx, fetchURL, &layer); err != nil {
		return nil, fmt.Errorf("failed to fetch layer metadata: %w", err)
	}
	if layer.Error != nil {
		return nil, fmt.Errorf("layer API error: %s", layer.Error.Message)
	}
	return &layer, nil
}

// FetchFeatures queries every feature of a FeatureServer layer in WGS84.
func (c *Client) FetchFeatures(ctx context.Context, layerURL string) ([]Feature, error) {
	serviceURL, layerID, err := SplitLayerURL(layerURL)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(fmt.Sprintf("%s/%s/query", serviceURL, layerID))
	if err != nil {
		return nil, fmt.Errorf("failed to build feature query URL: %w", err)
	}
	q := u.Query()
	q.Set("f", "json")
	q.Set("where", "1=1")
	q.Set("outFields", "*")
	q.Set("returnGeometry", "true")
	q.Set("outSR", "4326")
	u.RawQuery = q.Encode()

	c.Logger.Info("fetching features", zap.String("url", u.String()))

	var featureResp FeatureResponse
	if err := c.FetchAndDecode(ctx, u.String(), &featureResp); err != nil {
		return nil, fmt.Errorf("feature fetch failed: %w", err)
	}
	if featureResp.Error != nil {
		return nil, fmt.Errorf("feature query API error: %s", featureResp.Error.Message)
	}
	if len(featureResp.Features) == 0 && !featureResp.ExceededTransferLimit {
		return nil, fmt.Errorf("layer %s at %s: %w", layerID, serviceURL, ErrNoFeatures)
	}
	if featureResp.ExceededTransferLimit {
		c.Logger.Warn("feature transfer limit exceeded, results may be incomplete",
			zap.String("layer", layerID),
			zap.Int("features", len(featureResp.Features)))
	}

	return featureResp.Features, nil
}

func withJSONFormat(rawURL string) string {
	u, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return rawURL + "?f=json"
	}
	q := u.Query()
	q.Set("f", "json")
	u.RawQuery = q.Encode()
	return u.String()
}
