package export

import (
	"encoding/base64"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/agentx-labs/launchdx/internal/hostinfo"
	"github.com/agentx-labs/launchdx/internal/launchd"
)

// PathKey is the key holding a record's source path in flattened output.
const PathKey = "plist_path"

// Snapshot is one export artifact holding both kinds of records.
type Snapshot struct {
	ID          uuid.UUID
	CollectedAt time.Time
	Root        string
	Host        *hostinfo.Info
	Daemons     []launchd.Record
	Agents      []launchd.Record
}

// NewSnapshot stamps a fresh id and collection time. host may be nil.
func NewSnapshot(root string, host *hostinfo.Info, daemons, agents []launchd.Record) *Snapshot {
	if root == "" {
		root = "/"
	}
	return &Snapshot{
		ID:          uuid.New(),
		CollectedAt: time.Now().UTC(),
		Root:        root,
		Host:        host,
		Daemons:     daemons,
		Agents:      agents,
	}
}

// document is the serialized form shared by the JSON and YAML writers.
type document struct {
	ID          string           `json:"id" yaml:"id"`
	CollectedAt string           `json:"collected_at" yaml:"collected_at"`
	Root        string           `json:"root" yaml:"root"`
	Host        *hostinfo.Info   `json:"host,omitempty" yaml:"host,omitempty"`
	Daemons     []map[string]any `json:"daemons" yaml:"daemons"`
	Agents      []map[string]any `json:"agents" yaml:"agents"`
}

func (s *Snapshot) document() document {
	return document{
		ID:          s.ID.String(),
		CollectedAt: s.CollectedAt.UTC().Format(time.RFC3339),
		Root:        s.Root,
		Host:        s.Host,
		Daemons:     flattenAll(s.Daemons),
		Agents:      flattenAll(s.Agents),
	}
}

func flattenAll(records []launchd.Record) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		out = append(out, Flatten(r))
	}
	return out
}

// Flatten returns the record's content with plist_path added at the top
// level. Binary data becomes base64 text and dates become RFC 3339 strings
// so JSON and YAML render them identically. Reals that are NaN or infinite
// become null. A plist_path key inside the content is overwritten by the
// source path.
func Flatten(r launchd.Record) map[string]any {
	out := make(map[string]any, len(r.Content)+1)
	for k, v := range r.Content {
		out[k] = normalize(v)
	}
	out[PathKey] = r.SourcePath
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	case float32:
		if f := float64(t); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return t
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = normalize(val)
		}
		return s
	default:
		return v
	}
}
