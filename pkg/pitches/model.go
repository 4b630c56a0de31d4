package pitches

import "time"

const (
	KindDeck     = "deck"
	KindVideo    = "video"
	KindOnePager = "onepager"
)

// IsValidKind reports whether kind is one of the supported pitch material kinds.
func IsValidKind(kind string) bool {
	switch kind {
	case KindDeck, KindVideo, KindOnePager:
		return true
	}
	return false
}

// Pitch is a piece of pitch material attached to a startup listing.
type Pitch struct {
	ID        int64     `json:"id"`
	StartupID int64     `json:"startup_id"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}

type PitchList struct {
	Pitches []Pitch `json:"pitches"`
	Total   int64   `json:"total"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
}
