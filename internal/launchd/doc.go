// Package launchd discovers and decodes macOS launchd daemon and agent
// property lists from their fixed locations on disk. It enumerates the
// system and user directories for each kind, builds per-user agent
// directories from the accounts root, decodes every .plist it finds and
// returns the records that decoded successfully. Individual directory and
// file failures are logged as warnings; only an empty candidate set or an
// empty result escalates to an error.
package launchd
