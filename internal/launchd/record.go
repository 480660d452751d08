package launchd

// Record is one decoded launchd property list tagged with the file it came from.
type Record struct {
	// Content is the decoded dictionary. Values are strings, booleans,
	// integers, floats, time.Time, []byte, []any or nested map[string]any.
	Content map[string]any
	// SourcePath is the file Content was decoded from. Never empty.
	SourcePath string
}

// Label returns the launchd Label key, or "" when absent or not a string.
func (r Record) Label() string {
	s, _ := r.Content["Label"].(string)
	return s
}

// Failure is a candidate file that could not be decoded.
type Failure struct {
	Path string
	Err  error
}

// Result is the outcome of one collection, with the counters the CLI reports.
type Result struct {
	Kind    Kind
	Records []Record
	// Scanned counts the candidate paths discovered across both scopes.
	Scanned int
	// Filtered counts candidates skipped for not ending in PlistExt.
	Filtered int
	Failed   []Failure
}
