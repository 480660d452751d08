// Package export turns collected launchd records into a snapshot artifact.
// Records are flattened the way forensic consumers expect (plist keys at the
// top level plus plist_path) and written as JSON, YAML or into a SQLite
// database. JSON and YAML documents are checked against an embedded JSON
// schema before they reach disk.
package export
