package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/agentx-labs/launchdx/internal/hostinfo"
	"github.com/agentx-labs/launchdx/internal/launchd"
)

func sampleSnapshot() *Snapshot {
	daemons := []launchd.Record{{
		SourcePath: "/System/Library/LaunchDaemons/com.apple.wifianalyticsd.plist",
		Content: map[string]any{
			"Label":            "com.apple.wifianalyticsd",
			"ProgramArguments": []any{"/usr/libexec/wifianalyticsd"},
			"Blob":             []byte{0xde, 0xad},
			"Created":          time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			"MachServices":     map[string]any{"com.apple.wifi": true},
		},
	}}
	agents := []launchd.Record{{
		SourcePath: "/Library/LaunchAgents/com.vendor.agent.plist",
		Content:    map[string]any{"Label": "com.vendor.agent", "RunAtLoad": true},
	}}
	host := &hostinfo.Info{ProductName: "macOS", ProductVersion: "14.2", BuildVersion: "23C64"}
	return NewSnapshot("/", host, daemons, agents)
}

func TestFlatten(t *testing.T) {
	s := sampleSnapshot()
	flat := Flatten(s.Daemons[0])

	assert.Equal(t, s.Daemons[0].SourcePath, flat[PathKey])
	assert.Equal(t, "com.apple.wifianalyticsd", flat["Label"])
	assert.Equal(t, "3q0=", flat["Blob"])
	assert.Equal(t, "2024-01-02T03:04:05Z", flat["Created"])
	assert.Equal(t, map[string]any{"com.apple.wifi": true}, flat["MachServices"])

	// Flattening must not mutate the record.
	_, leaked := s.Daemons[0].Content[PathKey]
	assert.False(t, leaked)
}

func TestEncodeJSON(t *testing.T) {
	s := sampleSnapshot()
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, s))

	var doc struct {
		ID      string           `json:"id"`
		Root    string           `json:"root"`
		Host    map[string]any   `json:"host"`
		Daemons []map[string]any `json:"daemons"`
		Agents  []map[string]any `json:"agents"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, s.ID.String(), doc.ID)
	assert.Equal(t, "/", doc.Root)
	assert.Equal(t, "14.2", doc.Host["product_version"])
	require.Len(t, doc.Daemons, 1)
	require.Len(t, doc.Agents, 1)
	assert.Equal(t, "/Library/LaunchAgents/com.vendor.agent.plist", doc.Agents[0][PathKey])
	assert.Equal(t, true, doc.Agents[0]["RunAtLoad"])
}

func TestEncodeJSONEmptyKindsAreArrays(t *testing.T) {
	s := NewSnapshot("", nil, nil, nil)
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, s))
	assert.Contains(t, buf.String(), `"daemons": []`)
	assert.NotContains(t, buf.String(), `"host"`)
}

func TestEncodeRejectsSchemaViolations(t *testing.T) {
	s := sampleSnapshot()
	s.Agents = append(s.Agents, launchd.Record{SourcePath: "/tmp/notes.txt", Content: map[string]any{}})

	var buf bytes.Buffer
	err := EncodeJSON(&buf, s)
	var serr *SchemaError
	require.True(t, errors.As(err, &serr), "got %v", err)
	assert.NotEmpty(t, serr.Issues)
	assert.Contains(t, serr.Issues[0], "/agents/1/plist_path")
	assert.Zero(t, buf.Len(), "nothing should be written on schema failure")
}

func TestValidateRejectsBadID(t *testing.T) {
	err := Validate([]byte(`{"id":"nope","collected_at":"x","root":"/","daemons":[],"agents":[]}`))
	var serr *SchemaError
	assert.True(t, errors.As(err, &serr), "got %v", err)
}

func TestEncodeYAML(t *testing.T) {
	s := sampleSnapshot()
	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, s))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, s.ID.String(), doc["id"])
	daemons, ok := doc["daemons"].([]any)
	require.True(t, ok)
	require.Len(t, daemons, 1)
	first := daemons[0].(map[string]any)
	assert.Equal(t, "3q0=", first["Blob"])
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name, path string
		want       Format
	}{
		{"json", "", FormatJSON},
		{"YAML", "", FormatYAML},
		{"sqlite", "", FormatSQLite},
		{"", "out.yml", FormatYAML},
		{"", "inventory.db", FormatSQLite},
		{"", "output.json", FormatJSON},
		{"", "output", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.name, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ParseFormat(%q, %q)", tt.name, tt.path)
	}

	_, err := ParseFormat("xml", "")
	assert.Error(t, err)
}

func TestWriteFileJSONReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "output.json")
	ctx := context.Background()

	require.NoError(t, WriteFile(ctx, path, FormatJSON, sampleSnapshot()))
	second := sampleSnapshot()
	require.NoError(t, WriteFile(ctx, path, FormatJSON, second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc), "file must hold a single JSON document")
	assert.Equal(t, second.ID.String(), doc["id"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "temp files must be cleaned up")
	}
}

func TestWriteFileSQLiteAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.db")
	ctx := context.Background()

	first := sampleSnapshot()
	require.NoError(t, WriteFile(ctx, path, FormatSQLite, first))
	require.NoError(t, WriteFile(ctx, path, FormatSQLite, sampleSnapshot()))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var snapshots, records int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&snapshots))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&records))
	assert.Equal(t, 2, snapshots)
	assert.Equal(t, 4, records)

	var kind, label, content string
	require.NoError(t, db.QueryRow(
		`SELECT kind, label, content_json FROM records WHERE snapshot_id = ? AND plist_path LIKE '%wifianalyticsd.plist'`,
		first.ID.String(),
	).Scan(&kind, &label, &content))
	assert.Equal(t, "daemons", kind)
	assert.Equal(t, "com.apple.wifianalyticsd", label)
	assert.Contains(t, content, `"plist_path"`)
}

func nonFiniteSnapshot() *Snapshot {
	daemons := []launchd.Record{{
		SourcePath: "/Library/LaunchDaemons/com.vendor.odd.plist",
		Content: map[string]any{
			"Label":    "com.vendor.odd",
			"Nice":     math.NaN(),
			"Interval": math.Inf(1),
			"Limits":   map[string]any{"Low": float32(math.Inf(-1)), "High": 2.5},
		},
	}}
	return NewSnapshot("/", nil, daemons, nil)
}

func TestNonFiniteRealsEncodeAsNull(t *testing.T) {
	flat := Flatten(nonFiniteSnapshot().Daemons[0])
	assert.Nil(t, flat["Nice"])
	assert.Nil(t, flat["Interval"])
	limits := flat["Limits"].(map[string]any)
	assert.Nil(t, limits["Low"])
	assert.Equal(t, 2.5, limits["High"])

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, EncodeJSON(&buf, nonFiniteSnapshot()))
		assert.Contains(t, buf.String(), `"Nice": null`)
		assert.Contains(t, buf.String(), `"Interval": null`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, EncodeYAML(&buf, nonFiniteSnapshot()))
		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
		first := doc["daemons"].([]any)[0].(map[string]any)
		assert.Contains(t, first, "Nice")
		assert.Nil(t, first["Nice"])
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "inventory.db")
		require.NoError(t, WriteFile(context.Background(), path, FormatSQLite, nonFiniteSnapshot()))

		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		defer db.Close()

		var content string
		require.NoError(t, db.QueryRow(`SELECT content_json FROM records`).Scan(&content))
		assert.Contains(t, content, `"Nice":null`)
	})
}

func TestWriteFileLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	holder := flock.New(path + ".lock")
	locked, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err = WriteFile(ctx, path, FormatJSON, sampleSnapshot())
	assert.ErrorIs(t, err, ErrLocked)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewSnapshotDefaults(t *testing.T) {
	s := NewSnapshot("", nil, nil, nil)
	assert.Equal(t, "/", s.Root)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.WithinDuration(t, time.Now(), s.CollectedAt, time.Minute)
}
