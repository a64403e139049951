package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kxddry/ragcut/internal/domain"
	"github.com/kxddry/ragcut/internal/ingest"
)

var (
	sentencesPerChunk int
	overlapSentences  int
	maxCharsPerChunk  int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Sentence-chunk one or more text files and print the resulting chunk layout",
	Long: `Ingest is a diagnostic utility for the sentence chunker (an external
collaborator to the retrieval core, not part of it): it splits each file
into chunks the same way the query command does internally, and reports
how many chunks each file produced, without running any retrieval.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&sentencesPerChunk, "sentences-per-chunk", 5, "sentences per chunk")
	ingestCmd.Flags().IntVar(&overlapSentences, "overlap-sentences", 1, "sentences of overlap between consecutive chunks")
	ingestCmd.Flags().IntVar(&maxCharsPerChunk, "max-chars-per-chunk", 0, "character cap per chunk, in addition to the sentence count (0 disables the cap)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	chunker := ingest.NewSentenceChunker(sentencesPerChunk, overlapSentences, maxCharsPerChunk)
	for i, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		doc := domain.Document{ID: i + 1, Name: path}
		chunks := chunker.Chunk(doc, string(data))
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d chunks\n", path, len(chunks))
		for _, c := range chunks {
			fmt.Fprintf(cmd.OutOrStdout(), "  [%d] %d chars\n", c.ChunkNumber, c.CharCount)
		}
	}
	return nil
}
