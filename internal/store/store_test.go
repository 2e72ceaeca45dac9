package store_test

import (
	"context"
	"testing"

	"filmtrend/internal/store"
	"filmtrend/internal/testsupport"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int64) *int64       { return &v }

func TestSyntheticMovieIDIsStable(t *testing.T) {
	a := store.SyntheticMovieID("Stranger Things")
	b := store.SyntheticMovieID("  stranger   THINGS ")
	if a != b {
		t.Errorf("normalized titles should share an id: %q vs %q", a, b)
	}
	if a == store.SyntheticMovieID("The Crown") {
		t.Error("different titles should not collide")
	}
}

func TestInsertMovieIsCheckThenInsert(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	movie := &store.Movie{ID: "tt0903747", Title: "Breaking Bad", Country: "US"}
	inserted, err := st.InsertMovie(ctx, movie)
	if err != nil {
		t.Fatalf("InsertMovie: %v", err)
	}
	if !inserted {
		t.Fatal("first insert should report true")
	}

	movie.Title = "Renamed"
	inserted, err = st.InsertMovie(ctx, movie)
	if err != nil {
		t.Fatalf("second InsertMovie: %v", err)
	}
	if inserted {
		t.Fatal("second insert should report false")
	}

	stored, err := st.GetMovie(ctx, "tt0903747")
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if stored.Title != "Breaking Bad" {
		t.Errorf("existing row should be untouched, title = %q", stored.Title)
	}
}

func TestResolvePersonFindOrCreate(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first, err := st.ResolvePerson(ctx, "Denis Villeneuve")
	if err != nil {
		t.Fatalf("ResolvePerson: %v", err)
	}
	again, err := st.ResolvePerson(ctx, "Denis Villeneuve")
	if err != nil {
		t.Fatalf("ResolvePerson again: %v", err)
	}
	if first != again {
		t.Errorf("same name resolved to different ids: %d vs %d", first, again)
	}

	other, err := st.ResolvePerson(ctx, "Greta Gerwig")
	if err != nil {
		t.Fatalf("ResolvePerson other: %v", err)
	}
	if other == first {
		t.Error("different names should get different ids")
	}
}

func TestUpsertRatingOverwritesScore(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.InsertMovie(t, st, "tt1", "Dune: Part Two")

	if err := st.UpsertRating(ctx, &store.Rating{
		MovieID: "tt1", Source: "IMDb", Score: floatPtr(83), VoteCount: intPtr(1000),
	}); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	if _, err := st.UpdateLegacyCritics(ctx, "tt1", 92); err != nil {
		t.Fatalf("UpdateLegacyCritics: %v", err)
	}

	if err := st.UpsertRating(ctx, &store.Rating{
		MovieID: "tt1", Source: "IMDb", Score: floatPtr(85), VoteCount: intPtr(2000),
	}); err != nil {
		t.Fatalf("UpsertRating overwrite: %v", err)
	}

	ratings, err := st.MovieRatings(ctx, "tt1")
	if err != nil {
		t.Fatalf("MovieRatings: %v", err)
	}
	if len(ratings) != 1 {
		t.Fatalf("expected one row, got %d", len(ratings))
	}
	row := ratings[0]
	if row.Score == nil || *row.Score != 85 {
		t.Errorf("score = %v, want 85", row.Score)
	}
	if row.VoteCount == nil || *row.VoteCount != 2000 {
		t.Errorf("vote count = %v, want 2000", row.VoteCount)
	}
	if row.CriticsScore == nil || *row.CriticsScore != 92 {
		t.Errorf("overwrite should preserve critics score, got %v", row.CriticsScore)
	}
}

func TestLegacyScoreUpdateTouchesBothRows(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.InsertMovie(t, st, "tt1", "Wicked")

	for _, source := range []string{"IMDb", "Metacritic", "TMDb"} {
		if err := st.UpsertRating(ctx, &store.Rating{MovieID: "tt1", Source: source, Score: floatPtr(70)}); err != nil {
			t.Fatalf("UpsertRating %s: %v", source, err)
		}
	}

	touched, err := st.UpdateLegacyCritics(ctx, "tt1", 88)
	if err != nil {
		t.Fatalf("UpdateLegacyCritics: %v", err)
	}
	if touched != 2 {
		t.Errorf("expected 2 rows touched, got %d", touched)
	}

	ratings, err := st.MovieRatings(ctx, "tt1")
	if err != nil {
		t.Fatalf("MovieRatings: %v", err)
	}
	for _, row := range ratings {
		switch row.Source {
		case "IMDb", "Metacritic":
			if row.CriticsScore == nil || *row.CriticsScore != 88 {
				t.Errorf("%s critics score = %v, want 88", row.Source, row.CriticsScore)
			}
		default:
			if row.CriticsScore != nil {
				t.Errorf("%s row should not carry critics score", row.Source)
			}
		}
	}
}

func TestFillNullLegacyScores(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.InsertMovie(t, st, "tt1", "Movie One")
	testsupport.InsertMovie(t, st, "tt2", "Movie Two")

	for _, id := range []string{"tt1", "tt2"} {
		if err := st.UpsertRating(ctx, &store.Rating{MovieID: id, Source: "IMDb", Score: floatPtr(70)}); err != nil {
			t.Fatalf("UpsertRating: %v", err)
		}
	}
	if _, err := st.UpdateLegacyCritics(ctx, "tt1", 80); err != nil {
		t.Fatalf("UpdateLegacyCritics: %v", err)
	}

	filled, err := st.FillNullLegacyCritics(ctx, 80)
	if err != nil {
		t.Fatalf("FillNullLegacyCritics: %v", err)
	}
	if filled != 1 {
		t.Errorf("expected 1 row filled, got %d", filled)
	}

	pairs, err := st.LegacyScorePairs(ctx)
	if err != nil {
		t.Fatalf("LegacyScorePairs: %v", err)
	}
	for _, pair := range pairs {
		if pair.Critics == nil || *pair.Critics != 80 {
			t.Errorf("critics = %v, want 80", pair.Critics)
		}
	}
}

func TestBatchTxRollsBack(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	tx, err := st.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := tx.InsertMovie(ctx, &store.Movie{ID: "tt1", Title: "Ephemeral"}); err != nil {
		t.Fatalf("InsertMovie in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	count, err := st.MovieCount(ctx)
	if err != nil {
		t.Fatalf("MovieCount: %v", err)
	}
	if count != 0 {
		t.Errorf("rolled back insert should not persist, count = %d", count)
	}
}

func TestAnalysisTablesDeleteThenReload(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	row := store.TopRatedRow{MovieID: "tt1", Title: "Dune: Part Two", Genre: "Science Fiction", AvgScore: floatPtr(88)}
	if err := st.InsertTopRated(ctx, &row); err != nil {
		t.Fatalf("InsertTopRated: %v", err)
	}
	if err := st.InsertSentimentReview(ctx, &store.SentimentReviewRow{
		MovieID: "tt1", Title: "Dune: Part Two", Label: "Positive", Score: 0.6, Language: "en",
	}); err != nil {
		t.Fatalf("InsertSentimentReview: %v", err)
	}

	if err := st.ClearAnalysisTables(ctx); err != nil {
		t.Fatalf("ClearAnalysisTables: %v", err)
	}
	rows, err := st.ListTopRated(ctx)
	if err != nil {
		t.Fatalf("ListTopRated: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty table after clear, got %d rows", len(rows))
	}
	count, err := st.ReviewCount(ctx)
	if err != nil {
		t.Fatalf("ReviewCount: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no reviews after clear, got %d", count)
	}
}

func TestReplaceTopRated(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := st.InsertTopRated(ctx, &store.TopRatedRow{MovieID: "tt1", Title: "Old", AvgScore: nil}); err != nil {
		t.Fatalf("InsertTopRated: %v", err)
	}
	replacement := []store.TopRatedRow{
		{MovieID: "tt1", Title: "Old", AvgScore: floatPtr(75)},
		{MovieID: "tt2", Title: "New", AvgScore: floatPtr(80)},
	}
	if err := st.ReplaceTopRated(ctx, replacement); err != nil {
		t.Fatalf("ReplaceTopRated: %v", err)
	}

	rows, err := st.ListTopRated(ctx)
	if err != nil {
		t.Fatalf("ListTopRated: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].AvgScore == nil || *rows[0].AvgScore != 75 {
		t.Errorf("replaced row avg = %v, want 75", rows[0].AvgScore)
	}
}

func TestRatingsOverviewUsesLegacyColumns(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.InsertMovie(t, st, "tt1", "Dune: Part Two")

	if err := st.UpsertRating(ctx, &store.Rating{MovieID: "tt1", Source: "IMDb", Score: floatPtr(85)}); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	if err := st.UpsertRating(ctx, &store.Rating{MovieID: "tt1", Source: "Metacritic", Score: floatPtr(79)}); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	if _, err := st.UpdateLegacyCritics(ctx, "tt1", 92); err != nil {
		t.Fatalf("UpdateLegacyCritics: %v", err)
	}
	if _, err := st.UpdateLegacyAudience(ctx, "tt1", 95); err != nil {
		t.Fatalf("UpdateLegacyAudience: %v", err)
	}

	rows, err := st.RatingsOverview(ctx)
	if err != nil {
		t.Fatalf("RatingsOverview: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.IMDBScore == nil || *row.IMDBScore != 85 {
		t.Errorf("imdb = %v", row.IMDBScore)
	}
	if row.CriticsScore == nil || *row.CriticsScore != 92 {
		t.Errorf("critics = %v", row.CriticsScore)
	}
	if row.AudienceScore == nil || *row.AudienceScore != 95 {
		t.Errorf("audience = %v", row.AudienceScore)
	}
	if row.Metacritic == nil || *row.Metacritic != 79 {
		t.Errorf("metacritic = %v", row.Metacritic)
	}
}

func TestSchemaSurvivesReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.InsertMovie(t, st, "tt1", "Persisted")
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	movie, err := reopened.GetMovie(context.Background(), "tt1")
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if movie == nil || movie.Title != "Persisted" {
		t.Errorf("movie after reopen = %+v", movie)
	}
}
