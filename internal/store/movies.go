package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// movieIDNamespace seeds the stable derivation of synthetic movie ids, so
// the same title always resolves to the same id across runs.
var movieIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("filmtrend/movie"))

// SyntheticMovieID derives a stable movie id from a title, used when a
// source has no IMDb id for the entry.
func SyntheticMovieID(title string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(title), " "))
	return "ft_" + uuid.NewSHA1(movieIDNamespace, []byte(normalized)).String()
}

// ResolvePerson returns the id for a person, inserting the name on first
// sight. Lookup is by exact name.
func (s session) ResolvePerson(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("person name must not be empty")
	}

	var id int64
	err := s.q.QueryRowContext(ctx, `SELECT person_id FROM people WHERE person_name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("find person: %w", err)
	}

	res, err := s.q.ExecContext(ctx, `INSERT INTO people (person_name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert person: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("person id: %w", err)
	}
	return id, nil
}

// ResolveGenre returns the id for a genre, inserting the name on first sight.
func (s session) ResolveGenre(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("genre name must not be empty")
	}

	var id int64
	err := s.q.QueryRowContext(ctx, `SELECT genre_id FROM genres WHERE genre_name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("find genre: %w", err)
	}

	res, err := s.q.ExecContext(ctx, `INSERT INTO genres (genre_name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert genre: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("genre id: %w", err)
	}
	return id, nil
}

// InsertMovie adds a movie unless its id already exists. Existing rows are
// never updated; the return reports whether a row was inserted.
func (s session) InsertMovie(ctx context.Context, movie *Movie) (bool, error) {
	if movie == nil || movie.ID == "" {
		return false, errors.New("movie id must not be empty")
	}

	var exists int
	err := s.q.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE movie_id = ?`, movie.ID).Scan(&exists)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("check movie: %w", err)
	}

	var directorID any
	if movie.DirectorID != nil {
		directorID = *movie.DirectorID
	}
	_, err = s.q.ExecContext(
		ctx,
		`INSERT INTO movies (movie_id, title, release_date, country, language, studio, director_id)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		movie.ID,
		movie.Title,
		nullableString(movie.ReleaseDate),
		nullableString(movie.Country),
		nullableString(movie.Language),
		nullableString(movie.Studio),
		directorID,
	)
	if err != nil {
		return false, fmt.Errorf("insert movie: %w", err)
	}
	return true, nil
}

// GetMovie fetches a movie by id, or nil when absent.
func (s session) GetMovie(ctx context.Context, id string) (*Movie, error) {
	row := s.q.QueryRowContext(
		ctx,
		`SELECT movie_id, title, release_date, country, language, studio, director_id
         FROM movies WHERE movie_id = ?`,
		id,
	)

	var (
		movie       Movie
		releaseDate sql.NullString
		country     sql.NullString
		language    sql.NullString
		studio      sql.NullString
		directorID  sql.NullInt64
	)
	err := row.Scan(&movie.ID, &movie.Title, &releaseDate, &country, &language, &studio, &directorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}

	movie.ReleaseDate = releaseDate.String
	movie.Country = country.String
	movie.Language = language.String
	movie.Studio = studio.String
	if directorID.Valid {
		movie.DirectorID = &directorID.Int64
	}
	return &movie, nil
}

// ListMovieTitles returns every stored (id, title) pair for title matching.
func (s session) ListMovieTitles(ctx context.Context) ([]MovieTitle, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT movie_id, title FROM movies ORDER BY movie_id`)
	if err != nil {
		return nil, fmt.Errorf("list movie titles: %w", err)
	}
	defer rows.Close()

	var titles []MovieTitle
	for rows.Next() {
		var entry MovieTitle
		if err := rows.Scan(&entry.ID, &entry.Title); err != nil {
			return nil, fmt.Errorf("scan movie title: %w", err)
		}
		titles = append(titles, entry)
	}
	return titles, rows.Err()
}

// ListMovies returns every stored movie ordered by title.
func (s session) ListMovies(ctx context.Context) ([]Movie, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT movie_id, title, release_date, country, language, studio, director_id
         FROM movies ORDER BY title`,
	)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var movies []Movie
	for rows.Next() {
		var (
			movie       Movie
			releaseDate sql.NullString
			country     sql.NullString
			language    sql.NullString
			studio      sql.NullString
			directorID  sql.NullInt64
		)
		if err := rows.Scan(&movie.ID, &movie.Title, &releaseDate, &country, &language, &studio, &directorID); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movie.ReleaseDate = releaseDate.String
		movie.Country = country.String
		movie.Language = language.String
		movie.Studio = studio.String
		if directorID.Valid {
			movie.DirectorID = &directorID.Int64
		}
		movies = append(movies, movie)
	}
	return movies, rows.Err()
}

// MovieGenres returns a movie's genre names in id order.
func (s session) MovieGenres(ctx context.Context, movieID string) ([]string, error) {
	rows, err := s.q.QueryContext(
		ctx,
		`SELECT g.genre_name
         FROM movie_genres mg
         JOIN genres g ON g.genre_id = mg.genre_id
         WHERE mg.movie_id = ?
         ORDER BY g.genre_id`,
		movieID,
	)
	if err != nil {
		return nil, fmt.Errorf("movie genres: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, name)
	}
	return genres, rows.Err()
}

// MovieCount returns the number of stored movies.
func (s session) MovieCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM movies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}

// LinkGenre attaches a genre to a movie, ignoring an existing pair.
func (s session) LinkGenre(ctx context.Context, movieID string, genreID int64) error {
	_, err := s.q.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO movie_genres (movie_id, genre_id) VALUES (?, ?)`,
		movieID, genreID,
	)
	if err != nil {
		return fmt.Errorf("link genre: %w", err)
	}
	return nil
}

// AddCastMember records an actor credit, ignoring an existing pair.
func (s session) AddCastMember(ctx context.Context, movieID string, personID int64) error {
	_, err := s.q.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO movie_cast (movie_id, person_id, role_type) VALUES (?, ?, 'Actor')`,
		movieID, personID,
	)
	if err != nil {
		return fmt.Errorf("add cast member: %w", err)
	}
	return nil
}
