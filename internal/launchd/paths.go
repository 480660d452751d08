package launchd

import "path/filepath"

// Fixed launchd locations. They are macOS conventions and are not
// configurable; a Resolver only rebases them onto its Root.
const (
	SystemDaemonsDir      = "/System/Library/LaunchDaemons"
	AppleSystemDaemonsDir = "/Library/Apple/System/Library/LaunchDaemons"
	UserDaemonsDir        = "/Library/LaunchDaemons"

	SystemAgentsDir      = "/System/Library/LaunchAgents"
	AppleSystemAgentsDir = "/Library/Apple/System/Library/LaunchAgents"
	UserAgentsDir        = "/Library/LaunchAgents"

	// UsersDir holds one home directory per local account.
	UsersDir = "/Users"
	// UserAgentsSubpath is joined onto each home directory.
	UserAgentsSubpath = "Library/LaunchAgents"

	// PlistExt is the extension a candidate file must carry to be decoded.
	PlistExt = ".plist"
)

var (
	systemDaemonDirs = []string{SystemDaemonsDir, AppleSystemDaemonsDir}
	systemAgentDirs  = []string{SystemAgentsDir, AppleSystemAgentsDir}
)

// Kind selects daemons or agents.
type Kind int

const (
	KindDaemon Kind = iota
	KindAgent
)

// String returns the plural label used in logs and exports.
func (k Kind) String() string {
	switch k {
	case KindDaemon:
		return "daemons"
	case KindAgent:
		return "agents"
	default:
		return "unknown"
	}
}

// Scope selects the system or user side of a kind.
type Scope int

const (
	ScopeUser Scope = iota
	ScopeSystem
)

func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Location describes one fixed directory and the kind and scope it serves.
type Location struct {
	Kind  Kind
	Scope Scope
	// Fixed is the conventional absolute path; Path is Fixed rebased on a root.
	Fixed string
	Path  string
}

// Locations returns every fixed directory, rebased on root. Per-user agent
// directories are not included because they depend on the accounts present;
// use Resolver.UserAgentDirs for those.
func Locations(root string) []Location {
	add := func(locs []Location, kind Kind, scope Scope, dirs ...string) []Location {
		for _, d := range dirs {
			locs = append(locs, Location{Kind: kind, Scope: scope, Fixed: d, Path: rebasePath(root, d)})
		}
		return locs
	}

	var locs []Location
	locs = add(locs, KindDaemon, ScopeUser, UserDaemonsDir)
	locs = add(locs, KindDaemon, ScopeSystem, systemDaemonDirs...)
	locs = add(locs, KindAgent, ScopeUser, UserAgentsDir)
	locs = add(locs, KindAgent, ScopeSystem, systemAgentDirs...)
	return locs
}

// IsAppleVendor reports whether the location lives under
// /Library/Apple/System/Library, which only exists on macOS 11 and later.
func (l Location) IsAppleVendor() bool {
	return l.Fixed == AppleSystemDaemonsDir || l.Fixed == AppleSystemAgentsDir
}

// rebasePath joins an absolute fixed path onto root. An empty root means "/".
func rebasePath(root, p string) string {
	if root == "" || root == "/" {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// joinUnder joins a relative subpath onto base with explicit separators so
// trailing slashes on either side never produce doubled or missing ones.
func joinUnder(base, sub string) string {
	return filepath.Join(base, filepath.FromSlash(sub))
}
