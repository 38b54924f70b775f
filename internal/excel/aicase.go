package excel

import "io"

// AICaseRow is one parsed AI use-case entry from an uploaded sheet.
type AICaseRow struct {
	Title       string
	Content     string
	Tools       string
	Background  string
	AuthorName  string
	AuthorEmail string
}

var aiCaseColumns = []string{"title", "content", "tools", "background", "author_name", "author_email"}

// ParseAICases reads the first sheet of an uploaded workbook. Rows missing a
// title are dropped.
func ParseAICases(r io.Reader) ([]AICaseRow, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := headerIndex(rows[0], aiCaseColumns)

	var out []AICaseRow
	for _, row := range rows[1:] {
		title := cell(row, idx["title"])
		if title == "" {
			continue
		}
		out = append(out, AICaseRow{
			Title:       title,
			Content:     cell(row, idx["content"]),
			Tools:       cell(row, idx["tools"]),
			Background:  cell(row, idx["background"]),
			AuthorName:  cell(row, idx["author_name"]),
			AuthorEmail: cell(row, idx["author_email"]),
		})
	}
	return out, nil
}
