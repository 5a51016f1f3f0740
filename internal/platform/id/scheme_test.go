package id

import "testing"

func TestScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "game", got: Game(42), want: "42"},
		{name: "game negative", got: Game(-7), want: "-7"},
		{name: "user in game info", got: UserInGameInfo("42", Slot2), want: "42_2"},
		{name: "team equals user in game info", got: Team("42", Slot1), want: UserInGameInfo("42", Slot1)},
		{name: "first event", got: Event("42", 0), want: "42_1"},
		{name: "tenth event", got: Event("42", 9), want: "42_10"},
		{name: "five", got: Five("42", "1", "First"), want: "42_1_First"},
		{name: "active five", got: ActiveFive("42", "1", "First"), want: "42_1_First"},
		{name: "player on position", got: PlayerOnPosition("42_1_First", "Center"), want: "42_1_First_Center"},
		{name: "field player", got: FieldPlayer("token-9", "42"), want: "token-9_42"},
		{name: "goalie", got: Goalie("77", "42"), want: "77_42"},
		{name: "goalie substitution", got: GoalieSubstitution("42", "77"), want: "42_77"},
		{name: "play request", got: PlayRequest("alice.near", "bob.near"), want: "alice.near|bob.near"},
		{name: "statistics", got: Statistics("alice.near"), want: "alice.near"},
		{name: "team logo", got: TeamLogo("alice.near"), want: "alice.near"},
	}

	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, tc.got, tc.want)
		}
	}
}

func TestScheme_IsDeterministic(t *testing.T) {
	t.Parallel()

	if Five(Game(5), "2", "Third") != Five(Game(5), "2", "Third") {
		t.Fatalf("five id must be a pure function of its inputs")
	}
	if PlayRequest("a", "b") == PlayRequest("b", "a") {
		t.Fatalf("play request direction must be part of the key")
	}
	if Event("1", 10) == Event("11", 0) {
		t.Fatalf("event ids collided across games")
	}
}

func TestSplitPlayRequest(t *testing.T) {
	t.Parallel()

	from, to, ok := SplitPlayRequest(PlayRequest("alice.near", "bob.near"))
	if !ok || from != "alice.near" || to != "bob.near" {
		t.Fatalf("unexpected split: %q %q %v", from, to, ok)
	}
	for _, raw := range []string{"", "alice.near", "|bob.near", "alice.near|"} {
		if _, _, ok := SplitPlayRequest(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
