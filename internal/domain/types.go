// Package domain holds the data model shared by every stage of the
// retrieval pipeline: documents and chunks on the way in, scored chunks
// and super chunks on the way out.
package domain

import "time"

// Document is an immutable, already-ingested unit of text. The core never
// mutates a Document after it is created; it only reads its Chunks.
type Document struct {
	ID   int
	Name string
}

// Chunk is a contiguous slice of a Document's text, produced by an
// external chunker (§1 Non-goals: the core never re-chunks).
type Chunk struct {
	ID          int
	DocumentID  int
	ChunkNumber int
	Content     string
	CharCount   int
}

// TokenOccurrence is a single surviving term and the offset at which it
// starts in the original (pre-lowercase) text.
type TokenOccurrence struct {
	Term   string
	Offset int
}

// CoOccurrenceIndex is the per-document sparse co-occurrence matrix built
// by the indexer (§4.B). Matrix and TermFrequencies are never nil for a
// built index, even when empty.
type CoOccurrenceIndex struct {
	Matrix          map[string]map[string]int `json:"matrix" yaml:"matrix"`
	TermFrequencies map[string]int            `json:"termFrequencies" yaml:"termFrequencies"`
	TotalTerms      int                        `json:"totalTerms" yaml:"totalTerms"`
}

// NewCoOccurrenceIndex returns an empty, ready-to-populate index.
func NewCoOccurrenceIndex() *CoOccurrenceIndex {
	return &CoOccurrenceIndex{
		Matrix:          make(map[string]map[string]int),
		TermFrequencies: make(map[string]int),
	}
}

// TermMetadata records why a term belongs to an ExpandedConcept.
type TermMetadata struct {
	Similarity float64
	IsOriginal bool
}

// ExpandedConcept is the per-topic outcome of query expansion (§4.D): the
// literal query terms plus their similarity-ranked neighbors, merged
// across every document in the query's active set.
type ExpandedConcept struct {
	OriginalQuestion string
	OriginalTerms    map[string]struct{}
	Terms            map[string]struct{}
	TermMetadata     map[string]TermMetadata
}

// NewExpandedConcept returns an empty concept ready for terms to be added.
func NewExpandedConcept(question string) *ExpandedConcept {
	return &ExpandedConcept{
		OriginalQuestion: question,
		OriginalTerms:    make(map[string]struct{}),
		Terms:            make(map[string]struct{}),
		TermMetadata:     make(map[string]TermMetadata),
	}
}

// ScoreBreakdown is the hybrid score a Chunk earned against one
// ExpandedConcept (§4.E).
type ScoreBreakdown struct {
	OriginalTermScore     float64
	SemanticScore         float64
	ProximityScore        float64
	MatchedTerms          []string
	MatchedOriginalTerms  []string
	MatchCount            int
}

// Total is the sum of the three score components.
func (b ScoreBreakdown) Total() float64 {
	return b.OriginalTermScore + b.SemanticScore + b.ProximityScore
}

// ScoredChunk is a Chunk augmented with the score it earned against a
// particular topic's ExpandedConcept.
type ScoredChunk struct {
	Chunk          Chunk
	DocumentName   string
	RelevanceScore float64
	Breakdown      ScoreBreakdown
}

// SpatialPattern classifies how a topic's matched chunks are distributed
// across a document's chunk indices (§4.F).
type SpatialPattern string

const (
	SpatialNone         SpatialPattern = "none"
	SpatialSingle       SpatialPattern = "single"
	SpatialConcentrated SpatialPattern = "concentrated"
	SpatialSpread       SpatialPattern = "spread"
	SpatialModerate     SpatialPattern = "moderate"
)

// SpatialMode is the user-selected packing preference for a topic.
type SpatialMode string

const (
	SpatialModeAuto         SpatialMode = "auto"
	SpatialModeConcentrated SpatialMode = "concentrated"
	SpatialModeSpread       SpatialMode = "spread"
)

// TopicResult is everything the Orchestrator produced for one topic before
// packing: its ranked, filtered chunks and the spatial pattern they form.
type TopicResult struct {
	TopicID       string
	TopicQuestion string
	Concept       *ExpandedConcept
	Chunks        []ScoredChunk
	Pattern       SpatialPattern
}

// TopicSection is one topic's contribution to a single SuperChunk.
type TopicSection struct {
	TopicID         string
	TopicQuestion   string
	Chunks          []ScoredChunk
	IsContinuation  bool
}

// SuperChunk is a size-bounded bundle of TopicSections ready to paste into
// an external chat model.
type SuperChunk struct {
	Topics      []TopicSection
	Content     string
	TotalChars  int
	IsFirst     bool
	Index       int
	Count       int
}

// Tier is a user-facing paste-size class (§6).
type Tier string

const (
	TierStandard Tier = "standard"
	TierLarge    Tier = "large"
)

// TierPreset is the (superChunkSize, packageSize) pair a Tier maps to.
type TierPreset struct {
	SuperChunkSize int
	PackageSize    int
}

// TierPresets enumerates the fixed tier table from §6.
var TierPresets = map[Tier]TierPreset{
	TierStandard: {SuperChunkSize: 30000, PackageSize: 75000},
	TierLarge:    {SuperChunkSize: 100000, PackageSize: 150000},
}

// SourceType selects how a QueryStructure names its documents.
type SourceType string

const (
	SourceTypeDocuments  SourceType = "documents"
	SourceTypeCollection SourceType = "collection"
)

// TopicQuery is one user-authored topic within a multi-topic request.
type TopicQuery struct {
	TopicID         string      `json:"topicId" yaml:"topicId" validate:"required"`
	Question        string      `json:"question" yaml:"question" validate:"required"`
	SpatialCategory SpatialMode `json:"spatialCategory" yaml:"spatialCategory" validate:"omitempty,oneof=auto concentrated spread"`
}

// LegacyQueryVersion identifies the one prior QueryStructure schema this
// rewrite still accepts: topics authored without a topicId. An empty
// Version is treated the same way, since callers that predate versioning
// never set the field at all.
const LegacyQueryVersion = "1"

// CurrentQueryVersion is stamped onto a query by orchestrator
// normalization once it has been brought up to the current schema.
const CurrentQueryVersion = "2"

// QueryStructure is the input contract described in §6. Version is
// read only by the orchestrator's legacy-normalization pass (§4.I step
// 1) before validation runs; nothing downstream inspects it.
type QueryStructure struct {
	Version                string       `json:"version" yaml:"version"`
	AccountTier             Tier         `json:"accountTier" yaml:"accountTier" validate:"required,oneof=standard large"`
	MaxCharsPerSuperChunk   int          `json:"maxCharsPerSuperChunk" yaml:"maxCharsPerSuperChunk" validate:"omitempty,gt=0"`
	SourceType              SourceType   `json:"sourceType" yaml:"sourceType" validate:"required,oneof=documents collection"`
	DocumentIDs             []int        `json:"documentIds,omitempty" yaml:"documentIds,omitempty"`
	CollectionID            int          `json:"collectionId,omitempty" yaml:"collectionId,omitempty"`
	Topics                  []TopicQuery `json:"topics" yaml:"topics" validate:"required,min=1,dive"`
	LimitSuperChunks        bool         `json:"limitSuperChunks" yaml:"limitSuperChunks"`
	MaxSuperChunksPerTopic  int          `json:"maxSuperChunksPerTopic" yaml:"maxSuperChunksPerTopic" validate:"required_if=LimitSuperChunks true,omitempty,min=1,max=10"`
}

// QueryResult is the output contract described in §4.I step 6.
type QueryResult struct {
	CorrelationID string
	TopicResults  []TopicResult
	SuperChunks   []SuperChunk
	Timestamp     time.Time
}

// Clock abstracts away time.Now so the core never calls it directly,
// keeping executeQuery's output reproducible in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Phase names the fixed points at which the Orchestrator reports progress.
type Phase string

const (
	PhaseRetrieve Phase = "retrieve"
	PhaseExpand   Phase = "expand"
	PhaseScore    Phase = "score"
	PhasePack     Phase = "pack"
	PhaseFormat   Phase = "format"
)

// ProgressFunc is the optional callback the Orchestrator invokes at each
// fixed phase boundary (§9).
type ProgressFunc func(phase Phase, topicID string)
