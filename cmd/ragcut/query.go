package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kxddry/ragcut/internal/coindex"
	"github.com/kxddry/ragcut/internal/domain"
	"github.com/kxddry/ragcut/internal/ingest"
	"github.com/kxddry/ragcut/internal/orchestrator"
)

var queryFile string

var queryCmd = &cobra.Command{
	Use:   "query [files...]",
	Short: "Ingest documents and run a multi-topic query against them",
	Long: `Query sentence-chunks each given file into an in-memory store, builds a
co-occurrence index per document, then runs the retrieval pipeline for
the topics described by --query and prints the resulting super chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryFile, "query", "", "path to a YAML file describing the query structure (required)")
	queryCmd.Flags().IntVar(&sentencesPerChunk, "sentences-per-chunk", 5, "sentences per chunk")
	queryCmd.Flags().IntVar(&overlapSentences, "overlap-sentences", 1, "sentences of overlap between consecutive chunks")
	queryCmd.Flags().IntVar(&maxCharsPerChunk, "max-chars-per-chunk", 0, "character cap per chunk, in addition to the sentence count (0 disables the cap)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryFile == "" {
		return fmt.Errorf("--query is required")
	}
	queryData, err := os.ReadFile(queryFile)
	if err != nil {
		return fmt.Errorf("read query file: %w", err)
	}
	var query domain.QueryStructure
	if err := yaml.Unmarshal(queryData, &query); err != nil {
		return fmt.Errorf("parse query file: %w", err)
	}

	chunker := ingest.NewSentenceChunker(sentencesPerChunk, overlapSentences, maxCharsPerChunk)
	var docIDs []int
	for i, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		docID := i + 1
		doc := domain.Document{ID: docID, Name: path}
		store.PutDocument(doc, 0)
		chunks := chunker.Chunk(doc, string(data))
		store.PutChunks(docID, chunks)

		idx := coindex.Build(string(data), coindex.Config{
			WindowSize:   appConfig.Index.WindowSize,
			MinFrequency: appConfig.Index.MinFrequency,
			MaxTerms:     appConfig.Index.MaxTerms,
		})
		if err := store.AddVectors(context.Background(), docID, idx); err != nil {
			return fmt.Errorf("index %s: %w", path, err)
		}
		docIDs = append(docIDs, docID)
	}

	if query.SourceType == "" {
		query.SourceType = domain.SourceTypeDocuments
	}
	if query.SourceType == domain.SourceTypeDocuments && len(query.DocumentIDs) == 0 {
		query.DocumentIDs = docIDs
	}
	if query.AccountTier == "" {
		query.AccountTier = domain.TierStandard
	}

	orch := orchestrator.New(store, appConfig, nil)
	result, err := orch.ExecuteQuery(context.Background(), query, nil)
	if err != nil {
		return fmt.Errorf("execute query: %w", err)
	}

	for _, sc := range result.SuperChunks {
		fmt.Fprint(cmd.OutOrStdout(), sc.Content)
	}
	return nil
}
