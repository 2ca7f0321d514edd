// Package goodreads parses Goodreads library export CSV files into book
// candidates for bulk import.
//
// Goodreads exports are messy: column order varies between accounts, headers
// are inconsistently cased, dates use YYYY/MM/DD, and review text routinely
// contains quoted multi-line fields. The parser resolves columns by
// case-folded header name and silently skips rows that are not importable.
package goodreads

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/moodmarkapp/moodmark-sync/internal/domain"
	apperrors "github.com/moodmarkapp/moodmark-sync/internal/errors"
)

// Column headers we understand, matched case-insensitively.
const (
	colTitle          = "title"
	colAuthor         = "author"
	colMyRating       = "my rating"
	colDateRead       = "date read"
	colDateAdded      = "date added"
	colExclusiveShelf = "exclusive shelf"
)

// shelfUnknown is used when a row carries no shelf value.
const shelfUnknown = "unknown"

// Result is the outcome of parsing an export file.
type Result struct {
	Books   []*domain.Book
	Skipped int
}

// Parse reads a Goodreads CSV export and returns book candidates. Candidates
// carry no IDs or timestamps; the import path assigns those. Rows missing a
// title or author are counted in Skipped, not treated as errors.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Goodreads rows are ragged

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.Validation("empty CSV file")
		}
		return nil, apperrors.Validation("could not read CSV header")
	}

	cols := resolveColumns(header)
	if _, ok := cols[colTitle]; !ok {
		return nil, apperrors.Validation("CSV missing required columns: Title and Author")
	}
	if _, ok := cols[colAuthor]; !ok {
		return nil, apperrors.Validation("CSV missing required columns: Title and Author")
	}

	result := &Result{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeValidation, "malformed CSV row")
		}

		book, ok := rowToBook(record, cols)
		if !ok {
			result.Skipped++
			continue
		}
		result.Books = append(result.Books, book)
	}

	return result, nil
}

// resolveColumns maps known header names to their positions.
func resolveColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func rowToBook(record []string, cols map[string]int) (*domain.Book, bool) {
	title := field(record, cols, colTitle)
	author := field(record, cols, colAuthor)
	if title == "" || author == "" {
		return nil, false
	}

	book := domain.NewBook(title, author)

	if rating, err := strconv.Atoi(field(record, cols, colMyRating)); err == nil && rating >= 0 && rating <= 5 {
		book.OverallRating = rating
		book.Ratings.OverallMagic = rating
	}

	if started := normalizeDate(field(record, cols, colDateAdded)); started != "" {
		book.DateStarted = &started
	}
	if finished := normalizeDate(field(record, cols, colDateRead)); finished != "" {
		book.DateFinished = &finished
	}

	book.Shelf = normalizeShelf(field(record, cols, colExclusiveShelf))

	return book, true
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// normalizeDate converts Goodreads YYYY/MM/DD dates to ISO YYYY-MM-DD.
// Anything that doesn't look like such a date comes back empty.
func normalizeDate(value string) string {
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return ""
	}
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			return ""
		}
	}
	year, month, day := parts[0], parts[1], parts[2]
	if len(month) == 1 {
		month = "0" + month
	}
	if len(day) == 1 {
		day = "0" + day
	}
	return year + "-" + month + "-" + day
}

func normalizeShelf(value string) string {
	shelf := strings.ToLower(strings.TrimSpace(value))
	if shelf == "" {
		return shelfUnknown
	}
	return shelf
}
