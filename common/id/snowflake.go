// Package id issues time-ordered document identifiers.
package id

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

const defaultNodeID = 1

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Init sets the snowflake node for this process. Instances sharing a stream
// must use distinct node IDs.
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

// New returns a new unique ID. Without Init, node 1 is used.
func New() int64 {
	mu.Lock()
	defer mu.Unlock()
	if node == nil {
		node, _ = snowflake.NewNode(defaultNodeID)
	}
	return node.Generate().Int64()
}

// Time returns the creation time encoded in an ID.
func Time(id int64) time.Time {
	return time.UnixMilli(snowflake.ParseInt64(id).Time()).UTC()
}
