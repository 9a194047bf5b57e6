package types

// Default chunk sizing, measured in characters (runes).
const (
	DefaultChunkSize             = 2000
	DefaultChunkOverlap          = 1000
	ClassifierDrivenChunkOverlap = 100
	DefaultMinBoundaryGap        = 100
)

// SegmentationConfig holds settings for the segmentation stage.
type SegmentationConfig struct {
	// ChunkSize is the target maximum chunk length in characters (default 2000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkOverlap is the overlap between adjacent pieces produced by the
	// recursive splitter (default 1000, or 100 when classifier driven).
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`

	// MinBoundaryGap is the minimum distance in bytes between two kept
	// boundaries (default 100).
	MinBoundaryGap int `json:"min_gap" yaml:"min_gap"`

	// Separators overrides the recursive splitter cascade. Empty uses
	// "\n\n", "\n", ". ", " ", "".
	Separators []string `json:"separators,omitempty" yaml:"separators,omitempty"`

	// TaxonomyPath points at a taxonomy YAML file. Empty uses the built-in
	// tender taxonomy.
	TaxonomyPath string `json:"taxonomy" yaml:"taxonomy"`

	// DocsDir is the base directory for documents (contains text/, segments/).
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// Workers bounds concurrent documents in a batch run (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultSegmentationConfig returns the general-purpose chunk sizing.
func DefaultSegmentationConfig() SegmentationConfig {
	return SegmentationConfig{
		ChunkSize:      DefaultChunkSize,
		ChunkOverlap:   DefaultChunkOverlap,
		MinBoundaryGap: DefaultMinBoundaryGap,
		DocsDir:        "docs",
		Workers:        4,
	}
}

// ClassifierDrivenConfig returns the sizing used when a document
// classification collaborator drives chunking.
func ClassifierDrivenConfig() SegmentationConfig {
	cfg := DefaultSegmentationConfig()
	cfg.ChunkOverlap = ClassifierDrivenChunkOverlap
	return cfg
}

// StoreConfig holds settings for the segment store.
type StoreConfig struct {
	// DataDir is the base directory for the store (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DocsDir is the base directory for documents (contains segments/).
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ServeConfig holds settings for the HTTP surface.
type ServeConfig struct {
	// Addr is the listen address (default ":8090").
	Addr string `json:"addr" yaml:"addr"`

	// APIKey enables bearer authentication when non-empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxBodyBytes bounds request bodies (default 4 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`

	Segmentation SegmentationConfig `json:"segmentation" yaml:"segmentation"`
}
