package backup

import (
	"strconv"
	"strings"

	"github.com/moodmarkapp/moodmark-sync/internal/domain"
)

var csvHeaders = []string{
	"Title",
	"Author",
	"Date Started",
	"Date Finished",
	"Overall Rating",
	"Overall Magic",
	"Coziness Level",
	"Missed My Stop Risk",
	"Reread Likelihood",
	"Lendability",
	"Season",
	"Time of Day",
	"Weather",
	"Scents",
	"Room in House",
	"Notes",
}

// ExportCSV renders the library as a spreadsheet-compatible CSV file.
// Ratings and the commonly shared prompts get columns; canvas data does not
// survive a spreadsheet and is left out.
func ExportCSV(books []*domain.Book) []byte {
	var sb strings.Builder
	sb.WriteString(strings.Join(csvHeaders, ","))
	sb.WriteByte('\n')

	for i, b := range books {
		row := []string{
			escapeCSV(b.Title),
			escapeCSV(b.Author),
			strDeref(b.DateStarted),
			strDeref(b.DateFinished),
			strconv.Itoa(b.OverallRating),
			strconv.Itoa(b.Ratings.OverallMagic),
			strconv.Itoa(b.Ratings.CozinessLevel),
			strconv.Itoa(b.Ratings.MissedMyStopRisk),
			strconv.Itoa(b.Ratings.RereadLikelihood),
			string(b.Ratings.Lendability),
			strDeref(b.Prompts.Season),
			strDeref(b.Prompts.TimeOfDay),
			strDeref(b.Prompts.Weather),
			escapeCSV(strings.Join(b.Prompts.Scents, ", ")),
			escapeCSV(strDeref(b.Prompts.RoomInHouse)),
			escapeCSV(b.Notes),
		}
		sb.WriteString(strings.Join(row, ","))
		if i < len(books)-1 {
			sb.WriteByte('\n')
		}
	}

	return []byte(sb.String())
}

// escapeCSV quotes a field containing commas, quotes or newlines, doubling
// embedded quotes.
func escapeCSV(value string) string {
	if value == "" {
		return ""
	}
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
