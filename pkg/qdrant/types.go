package qdrant

// CreateCollectionRequest creates a collection with the given vector config.
type CreateCollectionRequest struct {
	Name    string        `json:"-"`
	Vectors VectorsConfig `json:"vectors"`
}

// VectorsConfig holds vector parameters for a collection.
type VectorsConfig struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"` // "Cosine", "Dot", "Euclid"
}

// Point is a single vector with payload.
type Point struct {
	ID      string                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// UpsertPointsRequest inserts or updates points.
type UpsertPointsRequest struct {
	Points []Point `json:"points"`
}

// SearchRequest performs a similarity search.
type SearchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
	Filter      *Filter   `json:"filter,omitempty"`
}

// Filter restricts search to points matching all conditions.
type Filter struct {
	Must []FieldMatch `json:"must,omitempty"`
}

// FieldMatch matches a payload field against a value.
type FieldMatch struct {
	Key   string     `json:"key"`
	Match MatchValue `json:"match"`
}

// MatchValue is the value side of a field match.
type MatchValue struct {
	Value interface{} `json:"value"`
}

// SearchResponse is the search result envelope.
type SearchResponse struct {
	Result []ScoredPoint `json:"result"`
}

// ScoredPoint is a search hit.
type ScoredPoint struct {
	ID      string                 `json:"id"`
	Score   float64                `json:"score"`
	Payload map[string]interface{} `json:"payload"`
}

// DeletePointsRequest deletes points by ID.
type DeletePointsRequest struct {
	Points []string `json:"points"`
}
