package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agentx-labs/launchdx/internal/launchd"
)

// kindOutcome is the result of collecting one kind.
type kindOutcome struct {
	Kind   launchd.Kind
	Result *launchd.Result
	Err    error
}

func (o kindOutcome) records() []launchd.Record {
	if o.Result == nil {
		return nil
	}
	return o.Result.Records
}

// parseKinds maps the --kind flag to the kinds to collect.
func parseKinds(s string) ([]launchd.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return []launchd.Kind{launchd.KindDaemon, launchd.KindAgent}, nil
	case "daemons", "daemon":
		return []launchd.Kind{launchd.KindDaemon}, nil
	case "agents", "agent":
		return []launchd.Kind{launchd.KindAgent}, nil
	default:
		return nil, fmt.Errorf("unknown kind %q (want daemons, agents or all)", s)
	}
}

// collectKinds runs the collector for each kind. When several kinds are
// requested a single failing kind is logged and the rest still count; the
// call only fails when every kind failed.
func collectKinds(c *launchd.Collector, kinds []launchd.Kind) ([]kindOutcome, error) {
	outcomes := make([]kindOutcome, 0, len(kinds))
	var errs []error
	for _, kind := range kinds {
		res, err := c.Collect(kind)
		if err != nil {
			if len(kinds) > 1 {
				logger.Warn("collection failed", slog.String("kind", kind.String()), slog.Any("error", err))
			}
			errs = append(errs, err)
		}
		outcomes = append(outcomes, kindOutcome{Kind: kind, Result: res, Err: err})
	}
	if len(errs) == len(kinds) {
		return nil, errors.Join(errs...)
	}
	return outcomes, nil
}

func recordsOf(outcomes []kindOutcome, kind launchd.Kind) []launchd.Record {
	for _, o := range outcomes {
		if o.Kind == kind {
			return o.records()
		}
	}
	return nil
}
