// Package orchestrator wires the retrieval pipeline end to end (§4.I):
// validate the query, resolve its active document set, then for each
// topic expand -> score -> filter/rank -> classify, before packing every
// topic's results into size-bounded SuperChunks and rendering them.
//
// The stage-per-topic shape and its use of a correlation ID threaded
// through every log line follows the teacher's RAGServiceImpl.Query,
// generalized from a single embed-then-search call into the multi-topic,
// multi-phase pipeline described in §4.I.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/kxddry/ragcut/internal/config"
	"github.com/kxddry/ragcut/internal/domain"
	"github.com/kxddry/ragcut/internal/expander"
	"github.com/kxddry/ragcut/internal/formatter"
	"github.com/kxddry/ragcut/internal/packer"
	"github.com/kxddry/ragcut/internal/scorer"
	"github.com/kxddry/ragcut/internal/spatial"
)

// Orchestrator runs ExecuteQuery against a domain.Storage using a fixed
// AppConfig and Clock.
type Orchestrator struct {
	Store  domain.Storage
	Config *config.AppConfig
	Clock  domain.Clock
}

// New returns an Orchestrator. A nil clock defaults to domain.SystemClock.
func New(store domain.Storage, cfg *config.AppConfig, clock domain.Clock) *Orchestrator {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Orchestrator{Store: store, Config: cfg, Clock: clock}
}

var validate = validator.New()

// ExecuteQuery runs the full pipeline described in §4.I and returns the
// packaged, rendered QueryResult.
func (o *Orchestrator) ExecuteQuery(ctx context.Context, query domain.QueryStructure, progress domain.ProgressFunc) (*domain.QueryResult, error) {
	correlationID := uuid.NewString()
	logger := log.DefaultLogger
	logger.Context = log.NewContext(nil).Str("correlationId", correlationID).Value()

	normalizeLegacyQuery(&query)

	if err := validate.Struct(query); err != nil {
		logger.Error().Err(err).Msg("query validation failed")
		return nil, fmt.Errorf("orchestrator: %w: %v", domain.ErrInputInvalid, err)
	}

	tierPreset, ok := config.TierPreset(query.AccountTier)
	if !ok {
		return nil, fmt.Errorf("orchestrator: %w: unknown account tier %q", domain.ErrInputInvalid, query.AccountTier)
	}
	maxChars := tierPreset.SuperChunkSize
	if query.MaxCharsPerSuperChunk > 0 {
		maxChars = query.MaxCharsPerSuperChunk
	}

	reportPhase(progress, domain.PhaseRetrieve, "")
	docIDs, chunksByTopic, docNames, err := o.resolveCorpus(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("orchestrator: %w", domain.ErrCancelled)
		}
		logger.Error().Err(err).Msg("failed to resolve active document set")
		return nil, err
	}

	var results []domain.TopicResult
	for _, topic := range query.Topics {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", domain.ErrCancelled)
		}

		result, err := o.runTopic(ctx, topic, docIDs, chunksByTopic, docNames, progress, logger)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", domain.ErrCancelled)
	}
	reportPhase(progress, domain.PhasePack, "")
	packCfg := packer.Config{
		MaxCharsPerSuperChunk:  maxChars,
		LimitSuperChunks:       query.LimitSuperChunks,
		MaxSuperChunksPerTopic: query.MaxSuperChunksPerTopic,
		FailOnOversizedChunk:   o.Config.Packing.FailOnOversizedChunk,
	}
	packageHeaderSize := len(formatter.FormatPackageHeader(query.Topics))
	supers, err := packer.Pack(results, packCfg, packageHeaderSize, func(c domain.Chunk) {
		logger.Warn().Int("chunkId", c.ID).Int("documentId", c.DocumentID).Msg("chunk exceeds super chunk size limit")
	})
	if err != nil {
		logger.Error().Err(err).Msg("packing failed")
		return nil, err
	}

	reportPhase(progress, domain.PhaseFormat, "")
	rendered := formatter.RenderAll(supers, query.Topics)

	return &domain.QueryResult{
		CorrelationID: correlationID,
		TopicResults:  results,
		SuperChunks:   rendered,
		Timestamp:     o.Clock.Now(),
	}, nil
}

// normalizeLegacyQuery implements §4.I step 1. It backfills the one
// field a pre-versioning or v1 caller could omit that validation
// otherwise rejects outright: a topic's TopicID, synthesized from its
// position in the list. It then stamps the query onto the current
// schema version so validation and every later stage only ever see
// current-shape input.
//
// TopicID is the only field this pass can populate with a real default.
// The question text the step 1 wording also names has no legacy source
// to backfill from — a blank question is missing content, not a
// normalization gap — so it is left for validation to reject. Likewise
// "empty concept lists" has no counterpart in QueryStructure: concept
// lists are computed by the expander (§4.D) at query time and were
// never part of the caller-supplied schema in this rewrite, so there is
// nothing for normalization to populate there.
//
// An unrecognized (non-empty, non-legacy) Version is left untouched and
// falls through to validation and tier lookup as-is.
func normalizeLegacyQuery(query *domain.QueryStructure) {
	if query.Version != "" && query.Version != domain.LegacyQueryVersion {
		return
	}
	for i := range query.Topics {
		if query.Topics[i].TopicID == "" {
			query.Topics[i].TopicID = fmt.Sprintf("topic-%d", i+1)
		}
	}
	query.Version = domain.CurrentQueryVersion
}

// runTopic executes the expand -> score -> filter/rank -> classify
// sequence for a single topic (§4.D through §4.F).
func (o *Orchestrator) runTopic(ctx context.Context, topic domain.TopicQuery, docIDs []int, chunksByTopic map[string][]domain.Chunk, docNames map[int]string, progress domain.ProgressFunc, logger log.Logger) (domain.TopicResult, error) {
	reportPhase(progress, domain.PhaseExpand, topic.TopicID)
	expanderCfg := expander.Config{MaxExpansions: o.Config.Index.MaxExpansions, MinSimilarity: o.Config.Index.MinSimilarity}
	concept, err := expander.Expand(ctx, topic.Question, docIDs, o.Store, expanderCfg, func(docID int) {
		logger.Warn().Int("documentId", docID).Str("topicId", topic.TopicID).Msg("co-occurrence index missing for document")
	})
	if err != nil {
		logger.Error().Err(err).Str("topicId", topic.TopicID).Msg("query expansion failed")
		return domain.TopicResult{}, fmt.Errorf("orchestrator: topic %s: %w", topic.TopicID, domain.ErrStorageUnavailable)
	}

	reportPhase(progress, domain.PhaseScore, topic.TopicID)
	chunks := chunksByTopic[topic.TopicID]
	scoreCfg := scorer.Config{
		OriginalTermWeight:      o.Config.Scoring.OriginalTermWeight,
		SemanticWeight:          o.Config.Scoring.SemanticWeight,
		ProximityWeight:         o.Config.Scoring.ProximityWeight,
		HighSimilarityThreshold: o.Config.Scoring.HighSimilarityThreshold,
		ProximityDistance:       o.Config.Scoring.ProximityDistance,
	}
	scored, err := scorer.ScoreAll(ctx, chunks, docNames, concept, scoreCfg)
	if err != nil {
		if ctx.Err() != nil {
			return domain.TopicResult{}, fmt.Errorf("orchestrator: %w", domain.ErrCancelled)
		}
		return domain.TopicResult{}, fmt.Errorf("orchestrator: topic %s scoring: %w", topic.TopicID, err)
	}

	ranked := scorer.FilterAndRank(scored, o.Config.Scoring.MinimumScoreThreshold)
	pattern := spatial.Classify(ranked, spatial.Config{ConcentratedBelow: o.Config.Spatial.ConcentratedBelow, SpreadAbove: o.Config.Spatial.SpreadAbove})
	filtered := spatial.Filter(ranked, topic.SpatialCategory, pattern)

	return domain.TopicResult{
		TopicID:       topic.TopicID,
		TopicQuestion: topic.Question,
		Concept:       concept,
		Chunks:        filtered,
		Pattern:       pattern,
	}, nil
}

// resolveCorpus resolves the query's source into the active document IDs,
// each topic's candidate chunks (every topic shares the same candidate
// set per §4.I step 2), and a docID -> name lookup for the formatter.
func (o *Orchestrator) resolveCorpus(ctx context.Context, query domain.QueryStructure) ([]int, map[string][]domain.Chunk, map[int]string, error) {
	var docIDs []int
	switch query.SourceType {
	case domain.SourceTypeDocuments:
		docIDs = query.DocumentIDs
	case domain.SourceTypeCollection:
		chunks, err := o.Store.GetChunksByCollection(ctx, query.CollectionID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("orchestrator: %w", domain.ErrStorageUnavailable)
		}
		seen := make(map[int]struct{})
		for _, c := range chunks {
			if _, ok := seen[c.DocumentID]; !ok {
				seen[c.DocumentID] = struct{}{}
				docIDs = append(docIDs, c.DocumentID)
			}
		}
	}

	if len(docIDs) == 0 {
		return nil, nil, nil, fmt.Errorf("orchestrator: %w: zero documents selected", domain.ErrInputInvalid)
	}

	docNames := make(map[int]string)
	var allChunks []domain.Chunk
	for _, id := range docIDs {
		doc, err := o.Store.GetDocument(ctx, id)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("orchestrator: document %d: %w", id, domain.ErrStorageUnavailable)
		}
		docNames[id] = doc.Name
		chunks, err := o.Store.GetChunksByDocument(ctx, id)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("orchestrator: document %d: %w", id, domain.ErrStorageUnavailable)
		}
		allChunks = append(allChunks, chunks...)
	}

	chunksByTopic := make(map[string][]domain.Chunk, len(query.Topics))
	for _, t := range query.Topics {
		chunksByTopic[t.TopicID] = allChunks
	}

	return docIDs, chunksByTopic, docNames, nil
}

func reportPhase(progress domain.ProgressFunc, phase domain.Phase, topicID string) {
	if progress != nil {
		progress(phase, topicID)
	}
}
