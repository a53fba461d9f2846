package graph

import (
	"context"
	"fmt"

	"tag-engine/internal/pairing"
	"tag-engine/internal/token"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// MarkerUsage summarizes how often a marker occurs across segments.
type MarkerUsage struct {
	Content  string `json:"content" yaml:"content"`
	TagType  string `json:"tag_type" yaml:"tag_type"`
	Segments int64  `json:"segments" yaml:"segments"`
	Partners int64  `json:"partners" yaml:"partners"`
}

// MarkerGraph records which markers each segment uses, and which markers
// pair with each other, in Neo4j.
type MarkerGraph struct {
	driver neo4j.DriverWithContext
}

// NewMarkerGraph creates a new marker graph.
func NewMarkerGraph(driver neo4j.DriverWithContext) *MarkerGraph {
	return &MarkerGraph{driver: driver}
}

// EnsureSchema creates constraints on the Neo4j database.
func (mg *MarkerGraph) EnsureSchema(ctx context.Context) error {
	session := mg.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (s:Segment) REQUIRE s.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (m:Marker) REQUIRE m.content IS UNIQUE",
	}
	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Graph schema ensured")
	return nil
}

// RecordSegment stores the markers of a segment's source and their pairs.
func (mg *MarkerGraph) RecordSegment(ctx context.Context, id, sourceHash string, source token.Sequence) error {
	session := mg.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MERGE (s:Segment {id: $id})
		SET s.source_hash = $hash
		WITH s
		OPTIONAL MATCH (s)-[old:USES]->(:Marker)
		DELETE old
		WITH DISTINCT s
		UNWIND $markers AS m
		MERGE (k:Marker {content: m.content})
		SET k.tag_type = m.tag_type
		MERGE (s)-[:USES {position: m.position}]->(k)
	`, map[string]any{
		"id":      id,
		"hash":    sourceHash,
		"markers": markerParams(source),
	})
	if err != nil {
		return fmt.Errorf("record segment %s: %w", id, err)
	}

	pairs := pairParams(source)
	if len(pairs) == 0 {
		return nil
	}
	_, err = session.Run(ctx, `
		UNWIND $pairs AS p
		MATCH (a:Marker {content: p.open}), (b:Marker {content: p.close})
		MERGE (a)-[:PAIRS_WITH]->(b)
	`, map[string]any{"pairs": pairs})
	if err != nil {
		return fmt.Errorf("record pairs for segment %s: %w", id, err)
	}
	return nil
}

// MarkerInventory lists every marker with the number of segments using it.
func (mg *MarkerGraph) MarkerInventory(ctx context.Context) ([]MarkerUsage, error) {
	session := mg.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (m:Marker)
		OPTIONAL MATCH (s:Segment)-[:USES]->(m)
		WITH m, count(DISTINCT s) AS segments
		OPTIONAL MATCH (m)-[:PAIRS_WITH]-(p:Marker)
		RETURN m.content AS content, m.tag_type AS tag_type, segments, count(DISTINCT p) AS partners
		ORDER BY segments DESC, content
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("query marker inventory: %w", err)
	}

	var out []MarkerUsage
	for result.Next(ctx) {
		record := result.Record()
		content, _ := record.Get("content")
		tagType, _ := record.Get("tag_type")
		segments, _ := record.Get("segments")
		partners, _ := record.Get("partners")

		usage := MarkerUsage{
			Content: fmt.Sprintf("%v", content),
			TagType: fmt.Sprintf("%v", tagType),
		}
		usage.Segments, _ = segments.(int64)
		usage.Partners, _ = partners.(int64)
		out = append(out, usage)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read marker inventory: %w", err)
	}

	log.Debug().Int("markers", len(out)).Msg("Marker inventory loaded")
	return out, nil
}

func markerParams(seq token.Sequence) []map[string]any {
	var out []map[string]any
	for i, t := range seq {
		if !t.IsMarker() {
			continue
		}
		out = append(out, map[string]any{
			"content":  t.Content,
			"tag_type": t.TagType().String(),
			"position": int64(i),
		})
	}
	return out
}

func pairParams(seq token.Sequence) []map[string]any {
	var out []map[string]any
	seen := make(map[[2]string]bool)
	for start, end := range pairing.Pairs(seq) {
		key := [2]string{seq[start].Content, seq[end].Content}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, map[string]any{"open": key[0], "close": key[1]})
	}
	return out
}
