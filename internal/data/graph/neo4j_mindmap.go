package graph

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
	"github.com/summerstudio/meetscribe-backend/internal/platform/neo4jdb"
)

// UpsertMeetingMindmap mirrors a meeting's mindmap into Neo4j. The meeting
// node is the root; every graph node hangs off it via parent pointers so a
// re-sync fully replaces the prior mindmap for that meeting. A nil client
// makes this a no-op, matching the optional wiring in cmd.
func UpsertMeetingMindmap(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, meetingID uuid.UUID, graph domain.MindmapGraph) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if meetingID == uuid.Nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	mid := meetingID.String()

	nodes := make([]map[string]any, 0, len(graph.Nodes)+1)
	nodes = append(nodes, map[string]any{
		"id":         graph.CenterNode.ID,
		"label":      graph.CenterNode.Label,
		"type":       graph.CenterNode.Type,
		"parent_id":  "",
		"confidence": 1.0,
	})
	for _, n := range graph.Nodes {
		nodes = append(nodes, map[string]any{
			"id":          n.ID,
			"label":       n.Label,
			"type":        n.Type,
			"parent_id":   n.ParentID,
			"description": n.Description,
			"timestamp":   n.Timestamp,
			"confidence":  n.Confidence,
		})
	}

	if err := client.ExecuteWrite(ctx, `
		MERGE (m:Meeting {id: $meeting_id})
		SET m.synced_at = $now
		WITH m
		OPTIONAL MATCH (m)-[:HAS_NODE]->(old:MindmapNode)
		DETACH DELETE old
	`, map[string]any{"meeting_id": mid, "now": now}); err != nil {
		return err
	}

	if err := client.ExecuteWrite(ctx, `
		MATCH (m:Meeting {id: $meeting_id})
		UNWIND $nodes AS n
		MERGE (node:MindmapNode {meeting_id: $meeting_id, node_id: n.id})
		SET node.label = n.label,
		    node.type = n.type,
		    node.parent_id = n.parent_id,
		    node.description = coalesce(n.description, ""),
		    node.timestamp = coalesce(n.timestamp, ""),
		    node.confidence = coalesce(n.confidence, 0.0),
		    node.synced_at = $now
		MERGE (m)-[:HAS_NODE]->(node)
	`, map[string]any{"meeting_id": mid, "nodes": nodes, "now": now}); err != nil {
		return err
	}

	if err := client.ExecuteWrite(ctx, `
		MATCH (m:Meeting {id: $meeting_id})-[:HAS_NODE]->(child:MindmapNode)
		WHERE child.parent_id <> ""
		MATCH (m)-[:HAS_NODE]->(parent:MindmapNode {node_id: child.parent_id})
		MERGE (parent)-[:HAS_CHILD]->(child)
	`, map[string]any{"meeting_id": mid}); err != nil {
		return err
	}

	if log != nil {
		log.Debug("mindmap synced to neo4j", "meeting_id", mid, "nodes", len(nodes))
	}
	return nil
}
