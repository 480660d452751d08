package hostinfo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const systemVersion = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>ProductBuildVersion</key>
	<string>23C64</string>
	<key>ProductName</key>
	<string>macOS</string>
	<key>ProductVersion</key>
	<string>14.2</string>
</dict>
</plist>
`

func writeSystemVersion(t *testing.T, root, content string) {
	t.Helper()
	path := filepath.Join(root, SystemVersionPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestReadMountedRoot(t *testing.T) {
	root := t.TempDir()
	writeSystemVersion(t, root, systemVersion)

	info, err := Read(root)
	require.NoError(t, err)
	assert.Equal(t, "macOS", info.ProductName)
	assert.Equal(t, "14.2", info.ProductVersion)
	assert.Equal(t, "23C64", info.BuildVersion)
	assert.Empty(t, info.Hostname, "hostname belongs to the live system only")
	assert.Equal(t, "macOS 14.2 (23C64)", info.String())

	v, err := info.Version()
	require.NoError(t, err)
	assert.Equal(t, uint64(14), v.Major())
	assert.Equal(t, uint64(2), v.Minor())
}

func TestReadMissing(t *testing.T) {
	_, err := Read(t.TempDir())
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestReadCorrupt(t *testing.T) {
	root := t.TempDir()
	writeSystemVersion(t, root, "bplist00broken")

	_, err := Read(root)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestHasAppleSystemLibrary(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"10.15.7", false},
		{"11.0", true},
		{"11.0.1", true},
		{"14.2", true},
		{"", false},
		{"not-a-version", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			info := &Info{ProductVersion: tt.version}
			assert.Equal(t, tt.want, info.HasAppleSystemLibrary())
		})
	}
}
