package domain

// Collage is the mood collage attached to a book entry. The canvas state is
// an opaque serialized document; sync moves it verbatim and never inspects it.
type Collage struct {
	Syncable
	BookID       string   `json:"book_id" validate:"required"`
	CanvasJSON   string   `json:"canvas_json"`
	Thumbnail    *string  `json:"thumbnail,omitempty"`
	ColorPalette []string `json:"color_palette"`
}

// DefaultPalette is the starter palette a fresh collage gets.
var DefaultPalette = []string{"#FDF6E3", "#D4A5A5", "#9CAF88", "#E6C068", "#8B7355"}

// NewCollage creates an empty collage for a book with the starter palette.
func NewCollage(bookID string) *Collage {
	return &Collage{
		BookID:       bookID,
		ColorPalette: append([]string(nil), DefaultPalette...),
	}
}

// CollageImage is a raw image placed on a collage. It has no lifecycle of its
// own: deleting the collage deletes its images.
type CollageImage struct {
	ID        string `json:"id"`
	CollageID string `json:"collage_id"`
	Data      []byte `json:"data"`
	Filename  string `json:"filename"`
	MIMEType  string `json:"mime_type"`
}
