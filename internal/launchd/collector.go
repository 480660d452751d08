package launchd

import (
	"log/slog"
	"strings"

	"github.com/agentx-labs/launchdx/internal/logging"
	"github.com/agentx-labs/launchdx/internal/plistfile"
)

// Decoder turns a property list file into its root dictionary.
type Decoder interface {
	DecodeFile(path string) (map[string]any, error)
}

// Collector gathers launchd records for one kind at a time.
type Collector struct {
	resolver Resolver
	decoder  Decoder
	logger   *slog.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithRoot rebases every fixed directory onto root, e.g. a mounted image.
func WithRoot(root string) Option {
	return func(c *Collector) { c.resolver.Root = root }
}

// WithDecoder replaces the default plist decoder.
func WithDecoder(d Decoder) Option {
	return func(c *Collector) {
		if d != nil {
			c.decoder = d
		}
	}
}

// WithLogger sets the sink for warnings. A nil logger drops them.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCollector returns a Collector scanning the live filesystem with the
// default decoder and a discarding logger, adjusted by opts.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		decoder: plistfile.Decoder{},
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Daemons collects user and system launchd daemons.
func (c *Collector) Daemons() ([]Record, error) {
	res, err := c.Collect(KindDaemon)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Agents collects per-user, global user and system launchd agents.
func (c *Collector) Agents() ([]Record, error) {
	res, err := c.Collect(KindAgent)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Collect runs the full pipeline for kind. Scope and per-file failures are
// logged and skipped. It returns ErrPath when neither scope produced a
// candidate path and ErrPlistParse when no candidate decoded.
func (c *Collector) Collect(kind Kind) (*Result, error) {
	logger := c.logger.With(slog.String("kind", kind.String()))

	var paths []string
	for _, scope := range []Scope{ScopeUser, ScopeSystem} {
		found, err := c.resolver.Resolve(kind, scope)
		if err != nil {
			logger.Warn("failed to get launchd plist files",
				slog.String("scope", scope.String()),
				slog.Any("error", err))
			continue
		}
		paths = append(paths, found...)
	}

	detail := "launchd " + kind.String()
	if len(paths) == 0 {
		return nil, &Error{Kind: ErrKindPath, Detail: detail}
	}

	res := &Result{Kind: kind, Scanned: len(paths)}
	for _, path := range paths {
		if !strings.HasSuffix(path, PlistExt) {
			res.Filtered++
			continue
		}
		content, err := c.decoder.DecodeFile(path)
		if err != nil {
			logger.Warn("failed to parse plist file",
				slog.String("path", path),
				slog.Any("error", err))
			res.Failed = append(res.Failed, Failure{Path: path, Err: err})
			continue
		}
		res.Records = append(res.Records, Record{Content: content, SourcePath: path})
	}

	if len(res.Records) == 0 {
		return nil, &Error{Kind: ErrKindPlistParse, Detail: detail}
	}
	return res, nil
}
