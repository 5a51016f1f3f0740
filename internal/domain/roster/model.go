package roster

import "github.com/shopspring/decimal"

// Team is one side's roster and tactics. Its id equals the owning UserInGameInfo id.
type Team struct {
	ID                       string   `json:"id"`
	Score                    int      `json:"score"`
	Fives                    []string `json:"fives"`
	Goalies                  []string `json:"goalies"`
	ActiveFive               string   `json:"active_five"`
	ActiveGoalie             string   `json:"active_goalie"`
	PlayersToBigPenalty      []string `json:"players_to_big_penalty"`
	PlayersToSmallPenalty    []string `json:"players_to_small_penalty"`
	PenaltyPlayers           []string `json:"penalty_players"`
	GoalieSubstitutions      []string `json:"goalie_substitutions"`
	ActiveGoalieSubstitution *string  `json:"active_goalie_substitution"`
}

// Five is a line formation.
type Five struct {
	ID              string   `json:"id"`
	Number          string   `json:"number"`
	FieldPlayers    []string `json:"field_players"`
	Tactic          string   `json:"tactic"`
	IceTimePriority string   `json:"ice_time_priority"`
}

// ActiveFive is the formation currently on the ice.
type ActiveFive struct {
	ID               string   `json:"id"`
	CurrentNumber    string   `json:"current_number"`
	ReplacedPosition []string `json:"replaced_position"`
	FieldPlayers     []string `json:"field_players"`
	IsGoalieOut      bool     `json:"is_goalie_out"`
	Tactic           string   `json:"tactic"`
	IceTimePriority  string   `json:"ice_time_priority"`
	TimeField        int64    `json:"time_field"`
}

// PlayerOnPosition is one roster slot of a five. Player is nil for an empty slot.
type PlayerOnPosition struct {
	ID       string  `json:"id"`
	Position string  `json:"position"`
	Player   *string `json:"player"`
}

// FieldPlayer holds per-match attributes of a skater.
type FieldPlayer struct {
	ID                    string          `json:"id"`
	UserInGameInfoID      string          `json:"user_in_game_info"`
	Name                  string          `json:"name"`
	Img                   *string         `json:"img"`
	Teamwork              decimal.Decimal `json:"teamwork"`
	Reality               bool            `json:"reality"`
	Nationality           string          `json:"nationality"`
	Birthday              int64           `json:"birthday"`
	PlayerType            string          `json:"player_type"`
	Number                int             `json:"number"`
	Hand                  string          `json:"hand"`
	PlayerRole            string          `json:"player_role"`
	NativePosition        string          `json:"native_position"`
	NumberOfPenaltyEvents int64           `json:"number_of_penalty_events"`
	Stats                 string          `json:"stats"`
}

// Goalie holds per-match attributes of a goalkeeper.
type Goalie struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Img          *string `json:"img"`
	Reality      bool    `json:"reality"`
	Nationality  string  `json:"nationality"`
	Birthday     int64   `json:"birthday"`
	PlayerType   string  `json:"player_type"`
	PlayerRole   string  `json:"player_role"`
	Hand         string  `json:"hand"`
	GoalieNumber string  `json:"goalie_number"`
	Number       int     `json:"number"`
	Stats        string  `json:"stats"`
}

// GoalieSubstitution pairs a substitution label with a goalie. Immutable once created.
type GoalieSubstitution struct {
	ID           string `json:"id"`
	Substitution string `json:"substitution"`
	Goalie       string `json:"goalie"`
}
