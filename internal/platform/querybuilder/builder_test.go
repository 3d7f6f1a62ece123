package querybuilder

import "testing"

func TestSelectBuilder_JoinOffset(t *testing.T) {
	query, args, err := Select("m.id", "h.title AS home_team_name").
		From("matches m").
		Join("teams h", "h.id = m.home_team_id").
		Where(Eq("m.home_team_id", int64(7)), IsTrue("m.is_finished")).
		OrderBy("m.date DESC", "m.id DESC").
		Limit(20).
		Offset(40).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT m.id, h.title AS home_team_name FROM matches m JOIN teams h ON h.id = m.home_team_id " +
		"WHERE m.home_team_id = $1 AND m.is_finished IS TRUE ORDER BY m.date DESC, m.id DESC LIMIT 20 OFFSET 40"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_NotInEmptyMatchesAll(t *testing.T) {
	query, args, err := Select("id").
		From("matches").
		Where(IsFalse("details_parsed"), NotIn("id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM matches WHERE details_parsed IS FALSE AND 1=1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_DistinctIn(t *testing.T) {
	query, args, err := Select("external_id", "id").
		Distinct().
		From("players").
		Where(In("external_id", AnySlice([]string{"a", "b"}))).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT DISTINCT external_id, id FROM players WHERE external_id IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "a" || args[1] != "b" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels_UpsertSuffix(t *testing.T) {
	type row struct {
		Slug    string `db:"slug"`
		Title   string `db:"title"`
		private string
	}

	query, args, err := InsertModels("leagues", []row{
		{Slug: "Premier-League-Stats", Title: "Premier League", private: "x"},
		{Slug: "La-Liga-Stats", Title: "La Liga"},
	}, UpsertSuffix("slug", []string{"title"}, "updated_at = NOW()"))
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO leagues (slug, title) VALUES ($1, $2), ($3, $4) " +
		"ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title, updated_at = NOW()"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "La-Liga-Stats" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels_Empty(t *testing.T) {
	type row struct {
		ID int64 `db:"id"`
	}
	if _, _, err := InsertModels[row]("t", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		Set("details_parsed", true).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(11))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET details_parsed = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != true || args[1] != int64(11) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_RequiresWhere(t *testing.T) {
	if _, _, err := Update("matches").Set("details_parsed", true).ToSQL(); err == nil {
		t.Fatalf("expected error for update without where")
	}
}

func TestExprPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("teams").
		Where(Eq("league_id", 1), Expr("(home_team_id = ? OR away_team_id = ?)", int64(3), int64(3))).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM teams WHERE league_id = $1 AND (home_team_id = $2 OR away_team_id = $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
