// Package wire defines the flattened record shapes exchanged with the remote
// store and the translation between them and the domain entities. Translation
// is total and pure in both directions: every defined field maps, nothing is
// dropped, and no I/O or clock reads happen here.
package wire

import "time"

// Book is the remote row shape for a book entry. Nested rating and prompt
// bundles are flattened to top-level columns and every record carries the
// owner it belongs to.
type Book struct {
	ID                   string    `json:"id"`
	OwnerID              string    `json:"owner_id"`
	Title                string    `json:"title"`
	Author               string    `json:"author"`
	DateStarted          *string   `json:"date_started"`
	DateFinished         *string   `json:"date_finished"`
	OverallRating        int       `json:"overall_rating"`
	OverallMagic         int       `json:"overall_magic"`
	CozinessLevel        int       `json:"coziness_level"`
	MissedMyStopRisk     int       `json:"missed_my_stop_risk"`
	RereadLikelihood     int       `json:"reread_likelihood"`
	Lendability          string    `json:"lendability"`
	Season               *string   `json:"season"`
	TimeOfDay            *string   `json:"time_of_day"`
	Weather              *string   `json:"weather"`
	Scents               []string  `json:"scents"`
	SuitcaseItems        []string  `json:"suitcase_items"`
	RoomInHouse          *string   `json:"room_in_house"`
	FortuneCookieMessage *string   `json:"fortune_cookie_message"`
	QuoteForPillow       *string   `json:"quote_for_pillow"`
	ReadingLocation      *string   `json:"reading_location"`
	CoverImage           *string   `json:"cover_image"`
	Notes                string    `json:"notes"`
	Shelf                string    `json:"shelf"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Collage is the remote row shape for a mood collage. The canvas document
// travels as an opaque string.
type Collage struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	BookID       string    `json:"book_id"`
	CanvasJSON   string    `json:"canvas_json"`
	Thumbnail    *string   `json:"thumbnail"`
	ColorPalette []string  `json:"color_palette"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
