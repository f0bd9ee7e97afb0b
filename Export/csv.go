package Export

import "strings"

// CSVEscape quotes a field only when it needs it (embedded comma, quote or
// newline), doubling any inner quotes.
func CSVEscape(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return CSVQuote(field)
}

// CSVQuote always wraps the field in quotes, doubling any inner quotes
func CSVQuote(field string) string {
	return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
}

// TableToCSV renders a header row and data rows as CSV text, one line per
// row, quoting fields as needed.
func TableToCSV(header []string, rows [][]string) string {
	var b strings.Builder
	writeRow(&b, header)
	for _, row := range rows {
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(CSVEscape(field))
	}
	b.WriteString("\n")
}
