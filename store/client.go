// File: client.go
// Role: GraphStore implementation over go-redis against FalkorDB.
// Concurrency: Client is safe for concurrent use; go-redis pools
// connections internally and every method is a single round trip.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/ohana-garden/soulkiln/soulkilnerr"
)

// Options configures the FalkorDB connection and the named graph all
// Soul Kiln state lives in.
type Options struct {
	Addr      string // host:port, default "localhost:6379"
	Password  string
	DB        int
	GraphName string // default "soulkiln"
}

const (
	defaultAddr      = "localhost:6379"
	defaultGraphName = "soulkiln"

	maxAttempts  = 3
	initialDelay = 100 * time.Millisecond
)

// Client implements GraphStore against a FalkorDB instance.
type Client struct {
	rdb   *redis.Client
	graph string
	log   zerolog.Logger
}

var _ GraphStore = (*Client)(nil)

// New connects to the store and verifies the connection with a ping.
// A ping failure here is fatal to the caller (a store failure
// during init fails the process).
func New(ctx context.Context, opts Options, log zerolog.Logger) (*Client, error) {
	if opts.Addr == "" {
		opts.Addr = defaultAddr
	}
	if opts.GraphName == "" {
		opts.GraphName = defaultGraphName
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, &soulkilnerr.ExternalStoreError{Op: "connect", Err: err}
	}
	return &Client{rdb: rdb, graph: opts.GraphName, log: log}, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies the store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return &soulkilnerr.ExternalStoreError{Op: "ping", Err: err}
	}
	return nil
}

// DropGraph deletes the entire named graph. Used by the `reset` verb only.
func (c *Client) DropGraph(ctx context.Context) error {
	err := c.withRetry(ctx, "drop_graph", func() error {
		err := c.rdb.Do(ctx, "GRAPH.DELETE", c.graph).Err()
		// Deleting an absent graph is not a failure for reset's purposes.
		if err != nil && isEmptyKeyError(err) {
			return nil
		}
		return err
	})
	return err
}

func isEmptyKeyError(err error) bool {
	return errors.Is(err, redis.Nil) || strings.Contains(err.Error(), "empty key")
}

// CreateIndex issues CREATE INDEX for (label, property). FalkorDB returns
// an error when the index already exists; that is treated as success so
// EnsureIndexes stays idempotent across restarts.
func (c *Client) CreateIndex(ctx context.Context, label, property string) error {
	if _, ok := knownLabels[label]; !ok {
		return fmt.Errorf("store: CreateIndex: unknown label %q", label)
	}
	cypher := fmt.Sprintf("CREATE INDEX FOR (n:%s) ON (n.%s)", label, property)
	err := c.withRetry(ctx, "create_index", func() error {
		err := c.rdb.Do(ctx, "GRAPH.QUERY", c.graph, cypher, "--compact").Err()
		if err != nil && (strings.Contains(err.Error(), "already indexed") ||
			strings.Contains(err.Error(), "already exists")) {
			return nil
		}
		return err
	})
	return err
}

// MergeNode MERGEs a node by its key property and SETs the remaining
// properties, so repeated saves of the same entity stay idempotent.
func (c *Client) MergeNode(ctx context.Context, spec NodeSpec) error {
	if _, ok := knownLabels[spec.Label]; !ok {
		return fmt.Errorf("store: MergeNode: unknown label %q", spec.Label)
	}
	keyLit, err := encodeLiteral(spec.KeyVal)
	if err != nil {
		return fmt.Errorf("store: MergeNode: %w", err)
	}
	props, err := propsFragment(spec.Props)
	if err != nil {
		return fmt.Errorf("store: MergeNode: %w", err)
	}
	cypher := fmt.Sprintf("MERGE (n:%s {%s: %s}) SET n += %s",
		spec.Label, spec.Key, keyLit, props)
	return c.withRetry(ctx, "merge_node", func() error {
		return c.rdb.Do(ctx, "GRAPH.QUERY", c.graph, cypher, "--compact").Err()
	})
}

// UpsertEdge MERGEs the (src, tgt, agent_id)-keyed :CONNECTS relationship
// and refreshes its weight/use bookkeeping.
func (c *Client) UpsertEdge(ctx context.Context, spec EdgeSpec) error {
	cypher := fmt.Sprintf(
		"MATCH (s {id: %s}), (t {id: %s}) "+
			"MERGE (s)-[e:CONNECTS {agent_id: %s}]->(t) "+
			"SET e.weight = %s, e.use_count = %d, e.last_used = %d",
		quoteString(spec.SrcID), quoteString(spec.TgtID), quoteString(spec.AgentID),
		formatFloat(spec.Weight), spec.UseCount, spec.LastUsed)
	return c.withRetry(ctx, "upsert_edge", func() error {
		return c.rdb.Do(ctx, "GRAPH.QUERY", c.graph, cypher, "--compact").Err()
	})
}

// Query substitutes params into cypher and returns the flattened rows.
func (c *Client) Query(ctx context.Context, cypher string, params map[string]interface{}) ([]Row, error) {
	resolved, err := substituteParams(cypher, params)
	if err != nil {
		return nil, err
	}
	var rows []Row
	err = c.withRetry(ctx, "query", func() error {
		reply, err := c.rdb.Do(ctx, "GRAPH.QUERY", c.graph, resolved).Result()
		if err != nil {
			return err
		}
		rows, err = parseReply(reply)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// withRetry runs op up to maxAttempts times with exponential backoff,
// wrapping the final failure as an ExternalStoreError.
func (c *Client) withRetry(ctx context.Context, opName string, op func() error) error {
	delay := initialDelay
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		c.log.Warn().Err(err).Str("op", opName).Int("attempt", attempt).
			Msg("store: operation failed, retrying")
		select {
		case <-ctx.Done():
			return soulkilnerr.ErrCancelRequested
		case <-time.After(delay):
		}
		delay *= 2
	}
	return &soulkilnerr.ExternalStoreError{Op: opName, Err: err}
}

func formatFloat(f float64) string {
	lit, _ := encodeLiteral(f)
	return lit
}
