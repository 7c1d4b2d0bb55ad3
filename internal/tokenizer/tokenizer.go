// Package tokenizer turns raw CSV text into rows of string fields. Ledger
// exports routinely carry free-text account names with embedded commas and
// quotes, so the scanner is deliberately tolerant: a malformed row is emitted
// with whatever field split is produced, never dropped.
package tokenizer

import (
	"strings"

	"propbooks/internal/models"
)

// delimiter is the field separator used by Parse and Serialize. Defaults to
// comma; deployments exporting semicolon-delimited ledgers override it from
// configuration.
var delimiter = ','

// SetDelimiter overrides the field delimiter. A zero rune is ignored.
func SetDelimiter(d rune) {
	if d != 0 {
		delimiter = d
	}
}

// Delimiter returns the active field delimiter.
func Delimiter() rune {
	return delimiter
}

// Parse scans raw CSV text and returns one RawRow per non-empty line, fields
// trimmed. Any line-ending style is accepted. Empty input yields no rows and
// no error; the scanner never fails closed on a single row.
func Parse(text, fileName string) []models.RawRow {
	var rows []models.RawRow
	lines := splitLines(text)
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, models.RawRow{
			Fields:   splitFields(line),
			FileName: fileName,
			Index:    i,
		})
	}
	return rows
}

// splitLines handles CRLF, bare CR and LF endings uniformly.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// splitFields performs a single left-to-right scan with a quote-state flag.
// A '"' toggles quote mode unless it is an escaped '""' inside quoted text,
// which emits a literal '"'. A delimiter outside quote mode ends the field.
// Unbalanced quotes are tolerated best-effort.
func splitFields(line string) []string {
	var fields []string
	var buf strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				buf.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == delimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteRune(ch)
		}
	}
	// End-of-line flushes the last field.
	fields = append(fields, strings.TrimSpace(buf.String()))
	return fields
}

// MapHeader maps a data row to the header row by positional index. Short rows
// map missing trailing fields to the empty string; extra fields beyond the
// header are ignored by the mapping but remain available on the RawRow.
func MapHeader(header models.RawRow, row models.RawRow) map[string]string {
	mapped := make(map[string]string, len(header.Fields))
	for i, name := range header.Fields {
		if i < len(row.Fields) {
			mapped[name] = row.Fields[i]
		} else {
			mapped[name] = ""
		}
	}
	return mapped
}

// Serialize renders fields back into one CSV line, quoting any field that
// carries the delimiter, a quote or a newline. Parse(Serialize(fields))
// recovers the original strings exactly.
func Serialize(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		if strings.ContainsRune(f, delimiter) || strings.ContainsAny(f, "\"\n") {
			quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		} else {
			quoted[i] = f
		}
	}
	return strings.Join(quoted, string(delimiter))
}
