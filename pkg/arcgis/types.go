package arcgis

// APIError is the error object ArcGIS REST endpoints embed in an otherwise successful response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Layer represents a layer in an ArcGIS Feature Server or Map Server.
type Layer struct {
	ID           interface{}  `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	GeometryType string       `json:"geometryType"`
	Description  string       `json:"description"`
	DrawingInfo  *DrawingInfo `json:"drawingInfo"`
	Error        *APIError    `json:"error"`
}

// DrawingInfo represents drawing information for a layer.
type DrawingInfo struct {
	Renderer *Renderer `json:"renderer"`
}

// Renderer represents the renderer for a layer.
type Renderer struct {
	Type          string  `json:"type"`
	Field1        string  `json:"field1"`
	DefaultSymbol *Symbol `json:"defaultSymbol"`
	DefaultLabel  string  `json:"defaultLabel"`
	Label         string  `json:"label"`
	Symbol        *Symbol `json:"symbol"`
}

// Symbol represents a symbol used for rendering features.
type Symbol struct {
	Type        string  `json:"type"`
	Style       string  `json:"style"`
	Color       []int   `json:"color"`
	Size        float64 `json:"size"`
	URL         string  `json:"url"`
	ContentType string  `json:"contentType"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

// FeatureResponse represents the response from a feature query.
type FeatureResponse struct {
	Features              []Feature `json:"features"`
	ExceededTransferLimit bool      `json:"exceededTransferLimit"`
	Error                 *APIError `json:"error"`
}

// Feature represents a geographic feature with attributes and geometry.
type Feature struct {
	Attributes map[string]interface{} `json:"attributes"`
	Geometry   interface{}            `json:"geometry"`
}

// SpatialReference identifies the coordinate system of a service.
type SpatialReference struct {
	WKID       int `json:"wkid"`
	LatestWKID int `json:"latestWkid"`
}

// Extent is an envelope in the service's spatial reference.
type Extent struct {
	XMin             float64           `json:"xmin"`
	YMin             float64           `json:"ymin"`
	XMax             float64           `json:"xmax"`
	YMax             float64           `json:"ymax"`
	SpatialReference *SpatialReference `json:"spatialReference"`
}

// LOD is one level of detail of a tiling scheme.
type LOD struct {
	Level      int     `json:"level"`
	Resolution float64 `json:"resolution"`
	Scale      float64 `json:"scale"`
}

// TileInfo describes the tiling scheme of a cached map service.
type TileInfo struct {
	Rows             int               `json:"rows"`
	Cols             int               `json:"cols"`
	DPI              int               `json:"dpi"`
	Format           string            `json:"format"`
	LODs             []LOD             `json:"lods"`
	SpatialReference *SpatialReference `json:"spatialReference"`
}

// MapServiceMetadata represents the metadata for an ArcGIS Map Service.
type MapServiceMetadata struct {
	Name             string            `json:"mapName"`
	Description      string            `json:"serviceDescription"`
	Copyright        string            `json:"copyrightText"`
	SingleFusedCache bool              `json:"singleFusedMapCache"`
	TileInfo         *TileInfo         `json:"tileInfo"`
	FullExtent       *Extent           `json:"fullExtent"`
	SpatialReference *SpatialReference `json:"spatialReference"`
	Error            *APIError         `json:"error"`
}
