package launchd

import (
	"fmt"
	"os"
)

// Resolver produces the candidate file paths for each kind and scope.
// Every fixed directory is rebased on Root; the zero value scans the live
// filesystem from "/".
type Resolver struct {
	Root string
}

// Resolve dispatches to the scope-specific method for kind.
func (r Resolver) Resolve(kind Kind, scope Scope) ([]string, error) {
	switch {
	case kind == KindDaemon && scope == ScopeUser:
		return r.UserDaemons()
	case kind == KindDaemon && scope == ScopeSystem:
		return r.SystemDaemons()
	case kind == KindAgent && scope == ScopeUser:
		return r.UserAgents()
	case kind == KindAgent && scope == ScopeSystem:
		return r.SystemAgents()
	default:
		return nil, fmt.Errorf("unknown kind %d / scope %d", kind, scope)
	}
}

// UserDaemons lists /Library/LaunchDaemons.
func (r Resolver) UserDaemons() ([]string, error) {
	return ListDir(r.path(UserDaemonsDir))
}

// SystemDaemons lists both system daemon directories. A failure on either
// directory fails the whole call.
func (r Resolver) SystemDaemons() ([]string, error) {
	return r.listAll(systemDaemonDirs)
}

// SystemAgents lists both system agent directories, failing fast like
// SystemDaemons.
func (r Resolver) SystemAgents() ([]string, error) {
	return r.listAll(systemAgentDirs)
}

// UserAgents lists every per-user agent directory followed by the global
// /Library/LaunchAgents. Accounts without an agent directory are skipped.
// It fails when the accounts root or the global directory cannot be read,
// or when an existing per-user directory cannot be listed.
func (r Resolver) UserAgents() ([]string, error) {
	dirs, err := r.UserAgentDirs()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, dir := range dirs {
		paths, err := ListDir(dir)
		if err != nil {
			return nil, err
		}
		files = append(files, paths...)
	}

	global, err := ListDir(r.path(UserAgentsDir))
	if err != nil {
		return nil, err
	}
	return append(files, global...), nil
}

// UserAgentDirs returns <home>/Library/LaunchAgents for every entry under
// the accounts root that is a directory and has an agent directory.
func (r Resolver) UserAgentDirs() ([]string, error) {
	homes, err := ListDir(r.path(UsersDir))
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, home := range homes {
		if !isDir(home) {
			continue
		}
		agents := joinUnder(home, UserAgentsSubpath)
		if !isDir(agents) {
			continue
		}
		dirs = append(dirs, agents)
	}
	return dirs, nil
}

func (r Resolver) listAll(dirs []string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		paths, err := ListDir(r.path(dir))
		if err != nil {
			return nil, err
		}
		files = append(files, paths...)
	}
	return files, nil
}

func (r Resolver) path(p string) string {
	return rebasePath(r.Root, p)
}

// isDir follows symlinks, so a home directory that links elsewhere still counts.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
