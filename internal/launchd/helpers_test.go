package launchd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const plistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`

// invalidPlist carries the binary magic but no valid trailer.
var invalidPlist = []byte("bplist00\x01\x02\x03 not a real plist")

// mkdirUnder creates rel (an absolute launchd path) under root.
func mkdirUnder(t *testing.T, root, rel string) string {
	t.Helper()
	dir := filepath.Join(root, rel)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
	return dir
}

func writePlist(t *testing.T, dir, name, label string) string {
	t.Helper()
	return writeRaw(t, dir, name, []byte(fmt.Sprintf(plistTemplate, label)))
}

func writeRaw(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// fullLayout creates every fixed directory plus the accounts root under a temp root.
func fullLayout(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, loc := range Locations(root) {
		if err := os.MkdirAll(loc.Path, 0755); err != nil {
			t.Fatal(err)
		}
	}
	mkdirUnder(t, root, UsersDir)
	return root
}

func labels(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Label())
	}
	return out
}
