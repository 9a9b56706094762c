package structured

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/rosterdex/internal/domain"
)

// forbidden lists keywords that must never appear in a model-authored statement.
var forbidden = map[string]struct{}{
	"insert": {}, "update": {}, "delete": {}, "drop": {}, "alter": {}, "create": {},
	"replace": {}, "attach": {}, "detach": {}, "pragma": {}, "vacuum": {},
	"reindex": {}, "truncate": {}, "grant": {}, "begin": {}, "commit": {},
	"rollback": {}, "savepoint": {}, "release": {},
}

// CheckStatement accepts a single read-only SELECT (optionally WITH-prefixed)
// and returns it without a trailing semicolon.
func CheckStatement(stmt string) (string, error) {
	stmt = strings.TrimSpace(stmt)
	stmt = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))
	if stmt == "" {
		return "", fmt.Errorf("%w: empty statement", domain.ErrUnsafeQuery)
	}
	if strings.Contains(stmt, ";") {
		return "", fmt.Errorf("%w: multiple statements", domain.ErrUnsafeQuery)
	}
	if strings.Contains(stmt, "--") || strings.Contains(stmt, "/*") {
		return "", fmt.Errorf("%w: comments are not allowed", domain.ErrUnsafeQuery)
	}

	words := strings.FieldsFunc(strings.ToLower(stmt), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '_'
	})
	if len(words) == 0 || (words[0] != "select" && words[0] != "with") {
		return "", fmt.Errorf("%w: statement must start with SELECT", domain.ErrUnsafeQuery)
	}
	for _, w := range words {
		if _, bad := forbidden[w]; bad {
			return "", fmt.Errorf("%w: keyword %q", domain.ErrUnsafeQuery, w)
		}
	}
	return stmt, nil
}
