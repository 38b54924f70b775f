// Package excel parses admin-uploaded spreadsheets into domain rows.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// NewsRow is one parsed news entry from an uploaded sheet.
type NewsRow struct {
	Title       string
	Content     string
	SourceURL   string
	SourceSite  string
	AuthorName  string
	ImageURL    string
	PublishedAt string
}

const defaultSourceSite = "네이버 뉴스"

// newsColumns maps header names (first row) to NewsRow fields.
var newsColumns = []string{"title", "content", "link", "source_site", "author_name", "image_url", "published_at"}

// ParseNews reads the first sheet of an .xlsx/.xls file. The first row is the
// header; rows missing title or link are dropped; a missing content cell
// yields an empty string and a missing source_site defaults to "네이버 뉴스".
func ParseNews(r io.Reader) ([]NewsRow, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := headerIndex(rows[0], newsColumns)

	var out []NewsRow
	for _, row := range rows[1:] {
		title := cell(row, idx["title"])
		link := cell(row, idx["link"])
		if title == "" || link == "" {
			continue
		}

		sourceSite := cell(row, idx["source_site"])
		if sourceSite == "" {
			sourceSite = defaultSourceSite
		}

		out = append(out, NewsRow{
			Title:       title,
			Content:     cell(row, idx["content"]),
			SourceURL:   link,
			SourceSite:  sourceSite,
			AuthorName:  cell(row, idx["author_name"]),
			ImageURL:    cell(row, idx["image_url"]),
			PublishedAt: cell(row, idx["published_at"]),
		})
	}
	return out, nil
}

// readFirstSheet opens the workbook and returns all rows of its first sheet.
func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("엑셀 파일을 열 수 없습니다: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("엑셀 파일에 시트가 없습니다")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("엑셀 시트를 읽을 수 없습니다: %w", err)
	}
	return rows, nil
}

// headerIndex maps each known column name to its position in the header row.
// Unknown names get -1. Header matching is case-insensitive.
func headerIndex(header []string, known []string) map[string]int {
	idx := make(map[string]int, len(known))
	for _, name := range known {
		idx[name] = -1
	}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[name]; ok {
			idx[name] = i
		}
	}
	return idx
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
