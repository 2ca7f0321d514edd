// Package domain contains the core entities of the Moodmark reading journal.
package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Lendability describes how willing the reader is to part with a book.
type Lendability string

// Lendability values.
const (
	LendKeep        Lendability = "keep"
	LendReluctantly Lendability = "lend-reluctantly"
	LendFreely      Lendability = "lend-freely"
	LendGift        Lendability = "gift"
)

// Ratings is the whimsical rating bundle attached to a book entry.
// Each sub-rating has its own range; zero values are meaningful ("unrated").
type Ratings struct {
	OverallMagic     int         `json:"overall_magic" validate:"gte=0,lte=5"`
	CozinessLevel    int         `json:"coziness_level" validate:"gte=0,lte=100"`
	MissedMyStopRisk int         `json:"missed_my_stop_risk" validate:"gte=0,lte=100"`
	RereadLikelihood int         `json:"reread_likelihood" validate:"gte=0,lte=5"`
	Lendability      Lendability `json:"lendability" validate:"omitempty,oneof=keep lend-reluctantly lend-freely gift"`
}

// Prompts is the sensory/imaginative prompt bundle. Every answer is optional;
// nil pointers and empty slices mean "not answered".
type Prompts struct {
	Season               *string  `json:"season,omitempty" validate:"omitempty,oneof=spring summer autumn winter"`
	TimeOfDay            *string  `json:"time_of_day,omitempty" validate:"omitempty,oneof=dawn morning afternoon evening night midnight"`
	Weather              *string  `json:"weather,omitempty" validate:"omitempty,oneof=sunny cloudy rainy stormy snowy foggy"`
	Scents               []string `json:"scents,omitempty"`
	SuitcaseItems        []string `json:"suitcase_items,omitempty"`
	RoomInHouse          *string  `json:"room_in_house,omitempty"`
	FortuneCookieMessage *string  `json:"fortune_cookie_message,omitempty"`
	QuoteForPillow       *string  `json:"quote_for_pillow,omitempty"`
	ReadingLocation      *string  `json:"reading_location,omitempty"`
}

// Book is a single journal entry for a book the user read (or plans to).
type Book struct {
	Syncable
	Title         string  `json:"title" validate:"required"`
	Author        string  `json:"author" validate:"required"`
	DateStarted   *string `json:"date_started,omitempty"`
	DateFinished  *string `json:"date_finished,omitempty"`
	OverallRating int     `json:"overall_rating" validate:"gte=0,lte=5"`
	Ratings       Ratings `json:"ratings"`
	Prompts       Prompts `json:"prompts"`
	CoverImage    *string `json:"cover_image,omitempty"`
	Notes         string  `json:"notes"`
	Shelf         string  `json:"shelf,omitempty"`
}

// DefaultRatings returns the rating bundle a fresh book entry starts with.
func DefaultRatings() Ratings {
	return Ratings{
		OverallMagic:     0,
		CozinessLevel:    50,
		MissedMyStopRisk: 50,
		RereadLikelihood: 0,
		Lendability:      LendReluctantly,
	}
}

// NewBook creates an empty book entry with default ratings and no prompts
// answered. The store assigns the ID and timestamps on create.
func NewBook(title, author string) *Book {
	return &Book{
		Title:   title,
		Author:  author,
		Ratings: DefaultRatings(),
	}
}

var naturalKeyFolder = cases.Fold()

// NaturalKey returns the composite key used to detect duplicate books across
// sources that don't share IDs: case-folded title and author, pipe-joined.
func (b *Book) NaturalKey() string {
	return naturalKeyFolder.String(strings.TrimSpace(b.Title)) + "|" +
		naturalKeyFolder.String(strings.TrimSpace(b.Author))
}
