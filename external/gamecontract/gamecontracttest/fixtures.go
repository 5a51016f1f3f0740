// Package gamecontracttest builds game contract payloads for tests.
package gamecontracttest

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Object is a mutable JSON object used to assemble payloads.
type Object = map[string]any

// Side returns a user snapshot for the given slot whose roster tokens are
// prefixed with tokenPrefix, so the two sides never share token ids.
func Side(accountID string, slot int, tokenPrefix string) Object {
	side := Object{
		"user_id":             slot,
		"take_to_called":      false,
		"coach_speech_called": false,
		"is_goalie_out":       false,
		"team":                Team(tokenPrefix),
	}
	if accountID != "" {
		side["account_id"] = accountID
	}
	return side
}

// Team returns a full roster: one five with three field players (one slot
// left empty), two goalies and a goalie substitution.
func Team(prefix string) Object {
	token := func(n int) string { return fmt.Sprintf("%s%d", prefix, n) }

	fieldPlayers := Object{}
	for n := 1; n <= 3; n++ {
		fieldPlayers[token(n)] = FieldPlayer(fmt.Sprintf("Player %s", token(n)), n)
	}

	return Object{
		"field_players": fieldPlayers,
		"fives": Object{
			"First": Object{
				"field_players": Object{
					"LeftWing":     token(1),
					"Center":       token(2),
					"RightWing":    token(3),
					"LeftDefender": nil,
				},
				"ice_time_priority": "Normal",
				"tactic":            "Neutral",
			},
		},
		"goalies": Object{
			"MainGoalkeeper":       Goalie(token(10), "Main "+prefix, 30),
			"SubstituteGoalkeeper": Goalie(token(11), "Sub "+prefix, 31),
		},
		"active_five": Object{
			"current_number":    "First",
			"replaced_position": []any{},
			"is_goalie_out":     false,
			"ice_time_priority": "Normal",
			"tactic":            "Neutral",
			"time_field":        0,
		},
		"active_goalie":            token(10),
		"score":                    0,
		"players_to_big_penalty":   []any{},
		"players_to_small_penalty": []any{},
		"penalty_players":          []any{},
		"goalie_substitutions": Object{
			"GoalieSubstitution1": token(11),
		},
	}
}

func FieldPlayer(name string, number int) Object {
	return Object{
		"name":                     name,
		"img":                      nil,
		"teamwork":                 "1.5",
		"reality":                  true,
		"nationality":              "CA",
		"birthday":                 946684800,
		"player_type":              "FieldPlayer",
		"number":                   number,
		"hand":                     "Left",
		"player_role":              "Playmaker",
		"native_position":          "Center",
		"number_of_penalty_events": 0,
		"stats":                    Object{"skating": 80, "shooting": 75},
	}
}

func Goalie(tokenID string, name string, number int) Object {
	return Object{
		"id":          tokenID,
		"name":        name,
		"img":         nil,
		"stats":       Object{"glove_and_blocker": 70},
		"reality":     true,
		"nationality": "FI",
		"birthday":    946684800,
		"player_type": "Goalie",
		"player_role": "Wall",
		"hand":        "Left",
		"number":      number,
	}
}

// MatchStart is an on_get_team return value for two accounts. Side one uses
// token prefix "a", side two "b".
func MatchStart(gameID int64, account1 string, account2 string, stake string) Object {
	return Object{
		"game_id": gameID,
		"user1":   Side(account1, 1, "a"),
		"user2":   Side(account2, 2, "b"),
		"reward":  Object{"balance": stake},
	}
}

// Event is a generate_event return value with the given actions. puckToken
// may be empty for a loose puck.
func Event(puckOwner string, puckToken string, actions ...Object) Object {
	list := make([]any, 0, len(actions))
	for _, action := range actions {
		list = append(list, action)
	}

	event := Object{
		"player_with_puck":       nil,
		"actions":                list,
		"zone_number":            1,
		"time":                   1700000000,
		"event_generation_delay": 1000,
		"user1":                  Side("", 1, "a"),
		"user2":                  Side("", 2, "b"),
	}
	if puckToken != "" {
		event["player_with_puck"] = []any{puckOwner, puckToken}
	}
	return event
}

// Action is an externally tagged action such as {"Goal": {...}}.
func Action(tag string, body Object) Object {
	if body == nil {
		body = Object{}
	}
	return Object{tag: body}
}

// Stop is the generate_event return value sent after a finished game.
func Stop(winner string) Object {
	return Object{"stop_game": 1, "winner_id": winner}
}

// FinishLog is the receipt log line announcing the winner.
func FinishLog(winner string, reward string) string {
	return MustJSON([]any{"GameFinished", []any{winner, reward}})
}

func MustJSON(v any) string {
	out, err := sonic.ConfigStd.MarshalToString(v)
	if err != nil {
		panic(err)
	}
	return out
}

func MustBytes(v any) []byte {
	return []byte(MustJSON(v))
}
