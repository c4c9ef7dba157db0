package sqlite

import (
	"strings"
	"time"

	"github.com/fwojciec/deliver"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, deliver.Errorf(deliver.EINTERNAL, "bad %s %q: %v", column, value, err)
	}
	return t, nil
}

// page appends LIMIT/OFFSET for positive values. SQLite needs a LIMIT before
// any OFFSET; -1 means no limit.
func page(query *strings.Builder, args []any, limit, offset int) []any {
	if limit <= 0 && offset <= 0 {
		return args
	}
	if limit <= 0 {
		limit = -1
	}
	query.WriteString(" LIMIT ?")
	args = append(args, limit)
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, offset)
	}
	return args
}
