// Package formatter renders the fixed textual envelope described in
// §4.H. Byte-exact formatting matters: the Packer (§4.G) accounts for
// super chunk sizes using these same component functions, so a change
// here must stay in lockstep with the packer's size bookkeeping.
package formatter

import (
	"fmt"
	"strings"

	"github.com/kxddry/ragcut/internal/domain"
)

// PackageFooter is appended after the super-chunk footer, only in the
// last emitted SuperChunk.
const PackageFooter = "\n[[/chat package]]"

// FormatPackageHeader renders the one-time package header emitted only
// in the first SuperChunk.
func FormatPackageHeader(topics []domain.TopicQuery) string {
	var b strings.Builder
	b.WriteString("[[chat package]]\n")
	b.WriteString("[[Only respond with OK until all Super Chunks have been provided to you.]]\n\n")
	b.WriteString("[[paste all super chunks sequentially]]\n\n")
	b.WriteString("[[Answer questions ONLY from the provided content and tell user if other content is needed.]]\n\n")
	b.WriteString("Questions:\n")
	for i, t := range topics {
		fmt.Fprintf(&b, "  Q%d: %s\n", i+1, t.Question)
	}
	b.WriteString("\n")
	return b.String()
}

// FormatSuperChunkOpen renders the "[[super chunk N of M]]" line, plus the
// continuation marker when n > 1.
func FormatSuperChunkOpen(n, m int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[[super chunk %d of %d]]\n", n, m)
	if n > 1 {
		b.WriteString("[[continued from previous super chunk]]\n")
	}
	b.WriteString("\n")
	return b.String()
}

// FormatSuperChunkClose renders the "[[/super chunk N]]" closing tag.
func FormatSuperChunkClose(n int) string {
	return fmt.Sprintf("\n[[/super chunk %d]]\n", n)
}

// FormatTopicSectionHeader renders a TopicSection's "[[topic: ...]]" and
// "[[document: ...]]" lines.
func FormatTopicSectionHeader(topicQuestion string, isContinuation bool, documentName string) string {
	q := topicQuestion
	if isContinuation {
		q += " (continued)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[[topic: %s]]\n\n", q)
	fmt.Fprintf(&b, "[[document: %s]]\n\n", documentName)
	return b.String()
}

// FormatChunkEnvelope renders one chunk's "[[chunk N]] (score: X.X)" line
// and its content.
func FormatChunkEnvelope(sc domain.ScoredChunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[[chunk %d]] (score: %.1f)\n", sc.Chunk.ChunkNumber, sc.RelevanceScore)
	b.WriteString(sc.Chunk.Content)
	b.WriteString("\n\n")
	return b.String()
}

// RenderAll renders the final, numbered text for every SuperChunk in
// order, filling Content and TotalChars in place. The package header is
// emitted only for the SuperChunk with IsFirst set; the package footer
// only for the last element of supers.
func RenderAll(supers []domain.SuperChunk, topics []domain.TopicQuery) []domain.SuperChunk {
	out := make([]domain.SuperChunk, len(supers))
	packageHeader := FormatPackageHeader(topics)
	m := len(supers)
	for i := range supers {
		sc := supers[i]
		n := i + 1
		var b strings.Builder
		if sc.IsFirst {
			b.WriteString(packageHeader)
		}
		b.WriteString(FormatSuperChunkOpen(n, m))
		for _, ts := range sc.Topics {
			docName := ""
			if len(ts.Chunks) > 0 {
				docName = ts.Chunks[0].DocumentName
			}
			b.WriteString(FormatTopicSectionHeader(ts.TopicQuestion, ts.IsContinuation, docName))
			for _, c := range ts.Chunks {
				b.WriteString(FormatChunkEnvelope(c))
			}
		}
		b.WriteString(FormatSuperChunkClose(n))
		if i == len(supers)-1 {
			b.WriteString(PackageFooter)
		}
		sc.Content = b.String()
		sc.TotalChars = len(sc.Content)
		sc.Index = n
		sc.Count = m
		out[i] = sc
	}
	return out
}
