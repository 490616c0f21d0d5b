package panes

import (
	"sort"
	"strings"
)

// sqlKeywords is the PostgreSQL reserved word list offered by the
// editor completion.
var sqlKeywords = []string{
	"ALL", "ANALYSE", "ANALYZE", "AND", "ANY", "ARRAY", "AS", "ASC",
	"ASYMMETRIC", "AUTHORIZATION", "BETWEEN", "BIGINT", "BINARY", "BIT",
	"BOOLEAN", "BOTH", "BY", "CASE", "CAST", "CHAR", "CHARACTER", "CHECK",
	"COALESCE", "COLLATE", "COLLATION", "COLUMN", "CONCURRENTLY",
	"CONSTRAINT", "CREATE", "CROSS", "CURRENT_CATALOG", "CURRENT_DATE",
	"CURRENT_ROLE", "CURRENT_SCHEMA", "CURRENT_TIME", "CURRENT_TIMESTAMP",
	"CURRENT_USER", "DEC", "DECIMAL", "DEFAULT", "DEFERRABLE", "DELETE",
	"DESC", "DISTINCT", "DO", "DROP", "ELSE", "END", "EXCEPT", "EXISTS",
	"EXTRACT", "FALSE", "FETCH", "FLOAT", "FOR", "FOREIGN", "FREEZE",
	"FROM", "FULL", "GRANT", "GREATEST", "GROUP", "GROUPING", "HAVING",
	"ILIKE", "IN", "INITIALLY", "INNER", "INOUT", "INSERT", "INT",
	"INTEGER", "INTERSECT", "INTERVAL", "INTO", "IS", "ISNULL", "JOIN",
	"LATERAL", "LEADING", "LEAST", "LEFT", "LIKE", "LIMIT", "LOCALTIME",
	"LOCALTIMESTAMP", "NATURAL", "NCHAR", "NONE", "NORMALIZE", "NOT",
	"NOTNULL", "NULL", "NULLIF", "NUMERIC", "OFFSET", "ON", "ONLY", "OR",
	"ORDER", "OUT", "OUTER", "OVERLAPS", "OVERLAY", "PLACING", "POSITION",
	"PRECISION", "PRIMARY", "REAL", "REFERENCES", "RETURNING", "RIGHT",
	"ROW", "SELECT", "SESSION_USER", "SETOF", "SIMILAR", "SMALLINT",
	"SOME", "SUBSTRING", "SYMMETRIC", "TABLE", "TABLESAMPLE", "THEN",
	"TIME", "TIMESTAMP", "TO", "TRAILING", "TREAT", "TRIM", "TRUE",
	"UNION", "UNIQUE", "UPDATE", "USER", "USING", "VALUES", "VARCHAR",
	"VARIADIC", "VERBOSE", "WHEN", "WHERE", "WINDOW", "WITH",
}

var (
	sqlTableContext = map[string]bool{
		"FROM": true, "JOIN": true, "UPDATE": true, "INTO": true, "TABLE": true,
	}
	sqlColumnContext = map[string]bool{
		"SELECT": true, "WHERE": true, "HAVING": true, "SET": true,
		"ON": true, "AND": true, "OR": true, "BY": true,
	}
)

const maxCompletionItems = 8

// completionState is an open completion popup in the query editor.
type completionState struct {
	items     []string
	selected  int
	prefixLen int // runes the accepted item replaces
}

func (c *completionState) next() {
	c.selected = (c.selected + 1) % len(c.items)
}

func (c *completionState) prev() {
	c.selected = (c.selected - 1 + len(c.items)) % len(c.items)
}

func (c *completionState) current() string {
	return c.items[c.selected]
}

// completeSQL builds completion candidates for the cursor position.
// before is the text up to the cursor, full the whole buffer. The
// context decides the candidate pool: after an alias dot the aliased
// table's columns, after FROM-like keywords table names, after
// SELECT-like keywords column names, otherwise keywords.
func completeSQL(before, full string, tables []string, columns map[string][]string) *completionState {
	prefix := trailingToken(before)
	rest := before[:len(before)-len(prefix)]

	var cands []string
	switch {
	case strings.HasSuffix(rest, "."):
		alias := trailingToken(strings.TrimSuffix(rest, "."))
		table := resolveAlias(full, alias)
		cands = filterPrefix(columns[table], prefix)
	case sqlTableContext[lastKeyword(rest)]:
		cands = filterPrefix(tables, prefix)
	case sqlColumnContext[lastKeyword(rest)]:
		cands = filterPrefix(allColumns(columns), prefix)
		if prefix != "" {
			cands = append(cands, filterPrefix(sqlKeywords, prefix)...)
		}
	default:
		if prefix == "" {
			return nil
		}
		cands = filterPrefix(sqlKeywords, prefix)
	}

	if len(cands) == 0 {
		return nil
	}
	if len(cands) > maxCompletionItems {
		cands = cands[:maxCompletionItems]
	}
	return &completionState{items: cands, prefixLen: len([]rune(prefix))}
}

// trailingToken returns the identifier run ending the string.
func trailingToken(s string) string {
	end := len(s)
	i := end
	for i > 0 {
		c := s[i-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			i--
			continue
		}
		break
	}
	return s[i:end]
}

// lastKeyword finds the last word of s that is a known SQL keyword.
func lastKeyword(s string) string {
	words := tokenizeWords(s)
	for i := len(words) - 1; i >= 0; i-- {
		up := strings.ToUpper(words[i])
		if sqlTableContext[up] || sqlColumnContext[up] {
			return up
		}
	}
	return ""
}

// resolveAlias maps a table alias back to the table it names, scanning
// FROM and JOIN clauses. A table name resolves to itself.
func resolveAlias(full, alias string) string {
	words := tokenizeWords(full)
	aliases := make(map[string]string)
	for i, w := range words {
		up := strings.ToUpper(w)
		if up != "FROM" && up != "JOIN" {
			continue
		}
		if i+1 >= len(words) {
			continue
		}
		table := words[i+1]
		aliases[strings.ToLower(table)] = table
		if i+2 < len(words) && !isKeyword(words[i+2]) {
			aliases[strings.ToLower(words[i+2])] = table
		}
	}
	return aliases[strings.ToLower(alias)]
}

func isKeyword(w string) bool {
	up := strings.ToUpper(w)
	for _, kw := range sqlKeywords {
		if kw == up {
			return true
		}
	}
	return false
}

func tokenizeWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})
}

func filterPrefix(cands []string, prefix string) []string {
	if prefix == "" {
		return append([]string(nil), cands...)
	}
	low := strings.ToLower(prefix)
	var out []string
	for _, c := range cands {
		if strings.HasPrefix(strings.ToLower(c), low) {
			out = append(out, c)
		}
	}
	return out
}

// allColumns flattens and dedupes every known table's columns.
func allColumns(columns map[string][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, cols := range columns {
		for _, c := range cols {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	sort.Strings(out)
	return out
}
