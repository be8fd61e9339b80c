// Package domain defines the persistence model for the movie catalog.
// The movies table is owned by an external system; this application only
// ever reads from it, so the model carries no soft-delete or audit fields.
package domain

// Movie represents a single row of the movies relation.
//
// Fields:
//   - ID: unique integer identifier (column movieId, assigned upstream).
//   - Title: movie title; list pages order by it ascending.
//   - ReleaseYear: stored as text upstream so LIKE matching works on it
//     the same way it does on Title.
//   - Genre / Director / Rating: descriptive pass-through columns rendered
//     verbatim on the detail page; this system attaches no semantics to them.
//
// Invariant: movieId uniquely identifies a record. Uniqueness is enforced by
// the underlying store, not here.
type Movie struct {
	ID          int64  `json:"movieId"     gorm:"column:movieId;primaryKey"`
	Title       string `json:"title"       gorm:"column:title;type:varchar(255);not null"`
	ReleaseYear string `json:"releaseYear" gorm:"column:releaseYear;type:varchar(16)"`
	Genre       string `json:"genre"       gorm:"column:genre;type:varchar(128)"`
	Director    string `json:"director"    gorm:"column:director;type:varchar(255)"`
	Rating      string `json:"rating"      gorm:"column:rating;type:varchar(16)"`
}

// TableName returns the database table name for Movie.
func (Movie) TableName() string { return "movies" }
