package svcmigrate

import "strings"

// SplitStatements splits a migration body into independently executable
// statements. Statements are separated by semicolons, except where the
// semicolon sits inside a single quoted string, a double quoted string or
// a -- line comment. A backslash right before a quote keeps the quote from
// toggling string state. Comment text is not part of any statement.
// Whatever trails the last semicolon is emitted as a final statement if it
// is non-empty after trimming.
//
// This is a single pass scanner, not a SQL parser: syntax validation is
// the database's job, the only contract here is to never split inside a
// string or a comment.
func SplitStatements(sql string) []string {
	var statements []string
	var buf strings.Builder
	var inSingleQuote, inDoubleQuote, inComment bool

	runes := []rune(sql)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if inComment {
			if ch == '\n' {
				inComment = false
				buf.WriteRune('\n')
			}
			continue
		}

		switch {
		case ch == '\'' && !inDoubleQuote:
			if i == 0 || runes[i-1] != '\\' {
				inSingleQuote = !inSingleQuote
			}
			buf.WriteRune(ch)
		case ch == '"' && !inSingleQuote:
			if i == 0 || runes[i-1] != '\\' {
				inDoubleQuote = !inDoubleQuote
			}
			buf.WriteRune(ch)
		case ch == '-' && !inSingleQuote && !inDoubleQuote && i+1 < len(runes) && runes[i+1] == '-':
			inComment = true
			i++
		case ch == ';' && !inSingleQuote && !inDoubleQuote:
			if statement := strings.TrimSpace(buf.String()); statement != "" {
				statements = append(statements, statement)
			}
			buf.Reset()
		default:
			buf.WriteRune(ch)
		}
	}

	if statement := strings.TrimSpace(buf.String()); statement != "" {
		statements = append(statements, statement)
	}

	return statements
}
