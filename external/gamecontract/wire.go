package gamecontract

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Wire shapes mirror the contract's JSON one to one. Pointer fields let the
// validator tell "absent" apart from a legitimate zero or false.

type matchStartWire struct {
	GameID *int64      `json:"game_id" validate:"required"`
	User1  *sideWire   `json:"user1" validate:"required"`
	User2  *sideWire   `json:"user2" validate:"required"`
	Reward *rewardWire `json:"reward" validate:"required"`
}

type rewardWire struct {
	Balance *decimal.Decimal `json:"balance" validate:"required"`
}

type sideWire struct {
	AccountID         *string   `json:"account_id"`
	UserID            *int64    `json:"user_id" validate:"required"`
	TakeToCalled      *bool     `json:"take_to_called" validate:"required"`
	CoachSpeechCalled *bool     `json:"coach_speech_called" validate:"required"`
	IsGoalieOut       *bool     `json:"is_goalie_out" validate:"required"`
	Team              *teamWire `json:"team" validate:"required"`
}

type teamWire struct {
	FieldPlayers             map[string]fieldPlayerWire `json:"field_players" validate:"required,dive"`
	Fives                    map[string]fiveWire        `json:"fives" validate:"required,dive"`
	Goalies                  map[string]goalieWire      `json:"goalies" validate:"required,dive"`
	ActiveFive               *activeFiveWire            `json:"active_five" validate:"required"`
	ActiveGoalie             *TokenID                   `json:"active_goalie" validate:"required"`
	Score                    *int                       `json:"score" validate:"required"`
	PlayersToBigPenalty      []TokenID                  `json:"players_to_big_penalty" validate:"required"`
	PlayersToSmallPenalty    []TokenID                  `json:"players_to_small_penalty" validate:"required"`
	PenaltyPlayers           []TokenID                  `json:"penalty_players" validate:"required"`
	GoalieSubstitutions      map[string]TokenID         `json:"goalie_substitutions" validate:"required"`
	ActiveGoalieSubstitution *string                    `json:"active_goalie_substitution"`
}

type fieldPlayerWire struct {
	Name                  *string          `json:"name" validate:"required"`
	Img                   *string          `json:"img"`
	Teamwork              *decimal.Decimal `json:"teamwork" validate:"required"`
	Reality               *bool            `json:"reality" validate:"required"`
	Nationality           *string          `json:"nationality" validate:"required"`
	Birthday              *int64           `json:"birthday" validate:"required"`
	PlayerType            *string          `json:"player_type" validate:"required"`
	Number                *int             `json:"number" validate:"required"`
	Hand                  *string          `json:"hand" validate:"required"`
	PlayerRole            *string          `json:"player_role" validate:"required"`
	NativePosition        *string          `json:"native_position" validate:"required"`
	NumberOfPenaltyEvents *int64           `json:"number_of_penalty_events" validate:"required"`
	Stats                 json.RawMessage  `json:"stats" validate:"required"`
}

type fiveWire struct {
	FieldPlayers    map[string]*TokenID `json:"field_players" validate:"required"`
	IceTimePriority *string             `json:"ice_time_priority" validate:"required"`
	Tactic          *string             `json:"tactic" validate:"required"`
}

type goalieWire struct {
	ID          *TokenID        `json:"id" validate:"required"`
	Name        *string         `json:"name" validate:"required"`
	Img         *string         `json:"img"`
	Stats       json.RawMessage `json:"stats" validate:"required"`
	Reality     *bool           `json:"reality" validate:"required"`
	Nationality *string         `json:"nationality" validate:"required"`
	Birthday    *int64          `json:"birthday" validate:"required"`
	PlayerType  *string         `json:"player_type" validate:"required"`
	PlayerRole  *string         `json:"player_role" validate:"required"`
	Hand        *string         `json:"hand" validate:"required"`
	Number      *int            `json:"number" validate:"required"`
}

type activeFiveWire struct {
	CurrentNumber    *string  `json:"current_number" validate:"required"`
	ReplacedPosition []string `json:"replaced_position" validate:"required"`
	IsGoalieOut      *bool    `json:"is_goalie_out" validate:"required"`
	IceTimePriority  *string  `json:"ice_time_priority" validate:"required"`
	Tactic           *string  `json:"tactic" validate:"required"`
	TimeField        *int64   `json:"time_field" validate:"required"`
}

// eventHeaderWire is decoded first so that a stop record, which carries no
// snapshot, is recognised before full validation.
type eventHeaderWire struct {
	StopGame json.RawMessage `json:"stop_game"`
	WinnerID *string         `json:"winner_id"`
}

type eventWire struct {
	EventNumber          *int              `json:"event_number"`
	PlayerWithPuck       []TokenID         `json:"player_with_puck"`
	Actions              []json.RawMessage `json:"actions" validate:"required"`
	ZoneNumber           *int              `json:"zone_number" validate:"required"`
	Time                 *int64            `json:"time" validate:"required"`
	EventGenerationDelay *int64            `json:"event_generation_delay" validate:"required"`
	User1                *sideWire         `json:"user1" validate:"required"`
	User2                *sideWire         `json:"user2" validate:"required"`
}

type friendArgsWire struct {
	FriendID string `json:"friend_id" validate:"required"`
}

type gameArgsWire struct {
	GameID *int64 `json:"game_id" validate:"required"`
}

type teamLogoArgsWire struct {
	FormName               string `json:"form_name" validate:"required"`
	PatternName            string `json:"pattern_name" validate:"required"`
	FirstLayerColorNumber  string `json:"first_layer_color_number" validate:"required"`
	SecondLayerColorNumber string `json:"second_layer_color_number" validate:"required"`
}
