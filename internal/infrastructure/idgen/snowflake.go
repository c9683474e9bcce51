package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"

	"github.com/stocklot/backend/internal/application/trade"
)

// SnowflakeRefGenerator issues document reference numbers backed by a
// snowflake node. Numbers are unique across instances as long as each
// instance is configured with a distinct node ID.
type SnowflakeRefGenerator struct {
	node *snowflake.Node
}

// NewSnowflakeRefGenerator creates a generator for the given node ID (0-1023)
func NewSnowflakeRefGenerator(nodeID int64) (*SnowflakeRefGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}
	return &SnowflakeRefGenerator{node: node}, nil
}

// Next returns the next reference number, e.g. "PO-1849261093237112832"
func (g *SnowflakeRefGenerator) Next(prefix string) string {
	return prefix + "-" + g.node.Generate().String()
}

var _ trade.RefNumberGenerator = (*SnowflakeRefGenerator)(nil)
