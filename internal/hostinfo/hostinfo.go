// Package hostinfo identifies the macOS installation a collection ran against
// by reading its SystemVersion.plist.
package hostinfo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/agentx-labs/launchdx/internal/plistfile"
)

// SystemVersionPath is relative to the collection root.
const SystemVersionPath = "/System/Library/CoreServices/SystemVersion.plist"

// ErrNotFound is returned when the root carries no SystemVersion.plist.
var ErrNotFound = errors.New("SystemVersion.plist not found")

// appleLibraryConstraint matches releases that ship /Library/Apple/System/Library.
var appleLibraryConstraint = mustConstraint(">= 11.0")

// Info describes the installation under a collection root.
type Info struct {
	ProductName    string `json:"product_name" yaml:"product_name"`
	ProductVersion string `json:"product_version" yaml:"product_version"`
	BuildVersion   string `json:"build_version" yaml:"build_version"`
	Hostname       string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
}

// Read loads SystemVersion.plist beneath root. Hostname is only filled for
// the live system (root "" or "/").
func Read(root string) (*Info, error) {
	path := filepath.Join(rootOrSlash(root), SystemVersionPath)
	dict, err := plistfile.DecodeFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading system version: %w", err)
	}

	info := &Info{
		ProductName:    stringValue(dict, "ProductName"),
		ProductVersion: stringValue(dict, "ProductVersion"),
		BuildVersion:   stringValue(dict, "ProductBuildVersion"),
	}
	if root == "" || root == "/" {
		if h, err := os.Hostname(); err == nil {
			info.Hostname = h
		}
	}
	return info, nil
}

// Version parses ProductVersion. macOS versions such as "14.2" or "10.15.7"
// are coerced into semantic versions.
func (i *Info) Version() (*semver.Version, error) {
	v := strings.TrimSpace(i.ProductVersion)
	if v == "" {
		return nil, errors.New("product version is empty")
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("parsing product version %q: %w", v, err)
	}
	return parsed, nil
}

// HasAppleSystemLibrary reports whether the release ships the
// /Library/Apple/System/Library tree (macOS 11 and later). Unknown
// versions report false.
func (i *Info) HasAppleSystemLibrary() bool {
	v, err := i.Version()
	if err != nil {
		return false
	}
	return appleLibraryConstraint.Check(v)
}

// String renders "macOS 14.2 (23C64)".
func (i *Info) String() string {
	name := i.ProductName
	if name == "" {
		name = "macOS"
	}
	s := strings.TrimSpace(name + " " + i.ProductVersion)
	if i.BuildVersion != "" {
		s += " (" + i.BuildVersion + ")"
	}
	return s
}

func stringValue(dict map[string]any, key string) string {
	s, _ := dict[key].(string)
	return s
}

func rootOrSlash(root string) string {
	if root == "" {
		return "/"
	}
	return root
}

func mustConstraint(c string) *semver.Constraints {
	cons, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return cons
}
