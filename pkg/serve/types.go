package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/what/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "identify" | "identify_batch" | "tags" | "close"
	Payload json.RawMessage `json:"payload"`
}

// FilterOptions overrides one partition's filter. All fields empty keeps
// the server default.
type FilterOptions struct {
	Rarity  string `json:"rarity,omitempty"`  // "min:max"
	Include string `json:"include,omitempty"` // comma separated tags
	Exclude string `json:"exclude,omitempty"` // comma separated tags
}

func (f FilterOptions) empty() bool {
	return f.Rarity == "" && f.Include == "" && f.Exclude == ""
}

// Options are the per-request identification settings.
type Options struct {
	Filter       FilterOptions `json:"filter"`
	Boundaryless FilterOptions `json:"boundaryless"`
	Key          string        `json:"key,omitempty"` // name | rarity | matched | none
	Reverse      bool          `json:"reverse,omitempty"`
}

// IdentifyPayload is the payload for "identify" requests
type IdentifyPayload struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Options
}

// Item is one input of an "identify_batch" request
type Item struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// IdentifyBatchPayload is the payload for "identify_batch" requests
type IdentifyBatchPayload struct {
	Items []Item `json:"items"`
	Options
}

// IdentifyResult is the data of an "identify" response
type IdentifyResult struct {
	Source    string              `json:"source"`
	Matches   []types.MatchRecord `json:"matches"`
	Truncated bool                `json:"truncated"`
}

// BatchResult is the data of an "identify_batch" response. Matches of all
// items are filtered and sorted together; each keeps its item's source as
// origin.
type BatchResult struct {
	Matches   []types.MatchRecord `json:"matches"`
	Truncated []string            `json:"truncated,omitempty"` // sources only partially scanned
	Total     int                 `json:"total"`
}

// TagsResult is the data of a "tags" response
type TagsResult struct {
	Tags []string `json:"tags"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "identify" | "identify_batch" | "tags" | "error"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version    string `json:"version"`
	Signatures int    `json:"signatures"`
}
