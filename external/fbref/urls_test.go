package fbref

import "testing"

func TestURLs(t *testing.T) {
	t.Parallel()

	urls := NewURLs("https://fbref.com/")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "leagues", got: urls.Leagues(), want: "https://fbref.com/en/comps/"},
		{name: "season", got: urls.Season("9", "Premier-League-Stats"), want: "https://fbref.com/en/comps/9/Premier-League-Stats"},
		{name: "history", got: urls.History("9", "Premier-League-Stats"), want: "https://fbref.com/en/comps/9/history/Premier-League-Seasons"},
		{name: "schedule", got: urls.Schedule("9", "Premier-League-Stats"), want: "https://fbref.com/en/comps/9/schedule/Premier-League-Scores-and-Fixtures"},
		{
			name: "season schedule",
			got:  urls.SeasonSchedule("https://fbref.com/en/comps/9/2023-2024/2023-2024-Premier-League-Stats", "9"),
			want: "https://fbref.com/en/comps/9/2023-2024/schedule/2023-2024-Premier-League-Scores-and-Fixtures",
		},
		{
			name: "season schedule passthrough",
			got:  urls.SeasonSchedule("https://fbref.com/en/comps/9/2023-2024/schedule/x", "9"),
			want: "https://fbref.com/en/comps/9/2023-2024/schedule/x",
		},
		{name: "match", got: urls.Match("a1b2c3d4"), want: "https://fbref.com/en/matches/a1b2c3d4"},
		{name: "absolute relative", got: urls.Absolute("/en/comps/9/x"), want: "https://fbref.com/en/comps/9/x"},
		{name: "absolute full", got: urls.Absolute("https://other.example/x"), want: "https://other.example/x"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: got %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestNewURLs_DefaultBase(t *testing.T) {
	t.Parallel()

	if got := NewURLs(" ").Base(); got != DefaultBaseURL {
		t.Fatalf("expected default base, got %s", got)
	}
}
