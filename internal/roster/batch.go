package roster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xkilldash9x/heronet/api/schemas"
)

// TargetStatus is the outcome of one target in a batch.
type TargetStatus struct {
	// Token is the raw target as supplied by the caller, trimmed.
	Token string
	// Target is the parsed id; zero when Token was not numeric.
	Target int64
	// Err is nil when the link was added, otherwise the reason it was skipped.
	Err error
}

// Added reports whether the target produced a new link.
func (s TargetStatus) Added() bool { return s.Err == nil }

// BatchResult collects the per-target outcomes of AddBatch.
type BatchResult struct {
	Source   int64
	Added    []schemas.Link
	Statuses []TargetStatus
}

// Skipped returns the number of targets that did not produce a link.
func (r BatchResult) Skipped() int {
	return len(r.Statuses) - len(r.Added)
}

// AddBatch links source to every target token independently. A bad token never
// stops the remaining ones from being tried.
func (l *Links) AddBatch(source int64, tokens []string) BatchResult {
	result := BatchResult{Source: source}
	for _, raw := range tokens {
		status := TargetStatus{Token: strings.TrimSpace(raw)}

		target, err := ParseID(status.Token)
		if err != nil {
			status.Err = err
			result.Statuses = append(result.Statuses, status)
			continue
		}
		status.Target = target

		link, err := l.Add(source, target)
		if err != nil {
			status.Err = err
		} else {
			result.Added = append(result.Added, link)
		}
		result.Statuses = append(result.Statuses, status)
	}
	return result
}

// ParseID parses a hero id typed by a user.
func ParseID(token string) (int64, error) {
	token = strings.TrimSpace(token)
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a numeric id", schemas.ErrInvalidInput, token)
	}
	return id, nil
}

// SplitTargets splits a comma-separated list of target ids.
func SplitTargets(line string) []string {
	parts := strings.Split(line, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
