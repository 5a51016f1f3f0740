package gamecontract

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrMalformedPayload marks every error produced while decoding a contract
// payload: unparseable JSON, a wrong top-level kind, or a missing field.
var ErrMalformedPayload = crerr.New("malformed contract payload")

var (
	payloadAPI   = sonic.ConfigStd
	canonicalAPI = sonic.Config{UseNumber: true, SortMapKeys: true}.Froze()
)

// Decoder turns raw argument and return-value bytes of the game contract
// into typed values.
type Decoder struct {
	validator *validator.Validate
}

func NewDecoder() *Decoder {
	return &Decoder{validator: validator.New()}
}

// IsSentinel reports whether a return value is one of the bare literals the
// contract returns instead of an object: null, true or false.
func IsSentinel(value []byte) bool {
	switch string(bytes.TrimSpace(value)) {
	case "null", "true", "false":
		return true
	default:
		return false
	}
}

func (d *Decoder) DecodeFriendArgs(raw []byte) (FriendArgs, error) {
	var wire friendArgsWire
	if err := d.decodeObject(raw, &wire, "friend args"); err != nil {
		return FriendArgs{}, err
	}
	return FriendArgs{FriendID: wire.FriendID}, nil
}

func (d *Decoder) DecodeGameArgs(raw []byte) (GameArgs, error) {
	var wire gameArgsWire
	if err := d.decodeObject(raw, &wire, "game args"); err != nil {
		return GameArgs{}, err
	}
	return GameArgs{GameID: *wire.GameID}, nil
}

func (d *Decoder) DecodeTeamLogoArgs(raw []byte) (TeamLogoArgs, error) {
	var wire teamLogoArgsWire
	if err := d.decodeObject(raw, &wire, "team logo args"); err != nil {
		return TeamLogoArgs{}, err
	}
	return TeamLogoArgs{
		FormName:               wire.FormName,
		PatternName:            wire.PatternName,
		FirstLayerColorNumber:  wire.FirstLayerColorNumber,
		SecondLayerColorNumber: wire.SecondLayerColorNumber,
	}, nil
}

// DecodeMatchStart decodes a non-sentinel on_get_team return value. Callers
// check IsSentinel first.
func (d *Decoder) DecodeMatchStart(value []byte) (MatchStart, error) {
	var wire matchStartWire
	if err := d.decodeObject(value, &wire, "match start"); err != nil {
		return MatchStart{}, err
	}

	out := MatchStart{GameID: *wire.GameID, Stake: *wire.Reward.Balance}
	for i, side := range []*sideWire{wire.User1, wire.User2} {
		if side.AccountID == nil || strings.TrimSpace(*side.AccountID) == "" {
			return MatchStart{}, malformedf("match start user%d: account_id is required", i+1)
		}
		converted, err := convertSide(side, i+1)
		if err != nil {
			return MatchStart{}, err
		}
		out.Sides[i] = converted
	}
	return out, nil
}

// DecodeEvent decodes a generate_event return value. A literal null yields
// EventNone; a payload carrying stop_game yields EventStop.
func (d *Decoder) DecodeEvent(value []byte) (EventPayload, error) {
	trimmed := bytes.TrimSpace(value)
	if string(trimmed) == "null" {
		return EventPayload{Kind: EventNone}, nil
	}

	var header eventHeaderWire
	if err := d.decodeObject(trimmed, &header, "event header"); err != nil {
		return EventPayload{}, err
	}
	if len(header.StopGame) > 0 && string(bytes.TrimSpace(header.StopGame)) != "null" {
		return EventPayload{Kind: EventStop, WinnerID: header.WinnerID}, nil
	}

	var wire eventWire
	if err := d.decodeObject(trimmed, &wire, "event"); err != nil {
		return EventPayload{}, err
	}

	step := Event{
		EventNumber:          wire.EventNumber,
		ZoneNumber:           *wire.ZoneNumber,
		Time:                 *wire.Time,
		EventGenerationDelay: *wire.EventGenerationDelay,
	}
	if wire.PlayerWithPuck != nil {
		if len(wire.PlayerWithPuck) < 2 {
			return EventPayload{}, malformedf("player_with_puck must be [owner, token], got %d elements", len(wire.PlayerWithPuck))
		}
		token := string(wire.PlayerWithPuck[1])
		step.PlayerWithPuck = &token
	}

	step.Actions = make([]Action, 0, len(wire.Actions))
	for i, raw := range wire.Actions {
		action, err := decodeAction(raw)
		if err != nil {
			return EventPayload{}, crerr.Wrapf(err, "action %d", i)
		}
		step.Actions = append(step.Actions, action)
	}

	for i, side := range []*sideWire{wire.User1, wire.User2} {
		converted, err := convertSide(side, i+1)
		if err != nil {
			return EventPayload{}, err
		}
		step.Sides[i] = converted
	}

	return EventPayload{Kind: EventStep, Step: step}, nil
}

// FindFinishLog returns the first log line that parses as a JSON array of
// the shape [label, [winner, reward]].
func FindFinishLog(logs []string) (FinishLog, bool) {
	for _, line := range logs {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "[") {
			continue
		}

		var outer []json.RawMessage
		if err := payloadAPI.UnmarshalFromString(trimmed, &outer); err != nil || len(outer) < 2 {
			continue
		}
		var inner []json.RawMessage
		if err := payloadAPI.Unmarshal(outer[1], &inner); err != nil || len(inner) < 2 {
			continue
		}

		var winner string
		if err := payloadAPI.Unmarshal(inner[0], &winner); err != nil || winner == "" {
			continue
		}
		var reward decimal.Decimal
		if err := reward.UnmarshalJSON(inner[1]); err != nil {
			continue
		}

		var label string
		_ = payloadAPI.Unmarshal(outer[0], &label)
		return FinishLog{Label: label, WinnerID: winner, Reward: reward}, true
	}
	return FinishLog{}, false
}

func (d *Decoder) decodeObject(raw []byte, dst any, what string) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return malformedf("%s: top-level value is not a JSON object", what)
	}
	if err := payloadAPI.Unmarshal(trimmed, dst); err != nil {
		return malformed(err, "%s: decode", what)
	}
	if err := d.validator.Struct(dst); err != nil {
		return malformed(err, "%s: validate", what)
	}
	return nil
}

func decodeAction(raw json.RawMessage) (Action, error) {
	var value any
	if err := canonicalAPI.Unmarshal(raw, &value); err != nil {
		return Action{}, malformed(err, "decode action")
	}
	object, ok := value.(map[string]any)
	if !ok {
		return Action{}, malformedf("action is not a JSON object")
	}

	canonical, err := canonicalAPI.MarshalToString(object)
	if err != nil {
		return Action{}, malformed(err, "encode action")
	}
	return Action{Tag: actionTag(object), Canonical: canonical}, nil
}

// actionTag is the action_type field when present, otherwise the single key
// of an externally tagged enum value.
func actionTag(object map[string]any) string {
	if tag, ok := object["action_type"].(string); ok && tag != "" {
		return tag
	}
	if len(object) == 1 {
		for key := range object {
			return key
		}
	}
	return ""
}

// canonicalObject re-encodes a JSON object with sorted keys so identical
// blobs always compare equal.
func canonicalObject(raw json.RawMessage, what string) (string, error) {
	var value any
	if err := canonicalAPI.Unmarshal(raw, &value); err != nil {
		return "", malformed(err, "decode %s", what)
	}
	if _, ok := value.(map[string]any); !ok {
		return "", malformedf("%s is not a JSON object", what)
	}
	out, err := canonicalAPI.MarshalToString(value)
	if err != nil {
		return "", malformed(err, "encode %s", what)
	}
	return out, nil
}

func convertSide(wire *sideWire, slot int) (Side, error) {
	if *wire.UserID != int64(slot) {
		return Side{}, malformedf("user%d: user_id %d does not match slot", slot, *wire.UserID)
	}
	team, err := convertTeam(wire.Team)
	if err != nil {
		return Side{}, crerr.Wrapf(err, "user%d team", slot)
	}

	side := Side{
		UserID:            *wire.UserID,
		TakeToCalled:      *wire.TakeToCalled,
		CoachSpeechCalled: *wire.CoachSpeechCalled,
		IsGoalieOut:       *wire.IsGoalieOut,
		Team:              team,
	}
	if wire.AccountID != nil {
		side.AccountID = *wire.AccountID
	}
	return side, nil
}

func convertTeam(wire *teamWire) (Team, error) {
	team := Team{
		Score:                    *wire.Score,
		ActiveGoalie:             string(*wire.ActiveGoalie),
		PlayersToBigPenalty:      tokenStrings(wire.PlayersToBigPenalty),
		PlayersToSmallPenalty:    tokenStrings(wire.PlayersToSmallPenalty),
		PenaltyPlayers:           tokenStrings(wire.PenaltyPlayers),
		ActiveGoalieSubstitution: wire.ActiveGoalieSubstitution,
		ActiveFive: ActiveFive{
			CurrentNumber:    *wire.ActiveFive.CurrentNumber,
			ReplacedPosition: append([]string{}, wire.ActiveFive.ReplacedPosition...),
			IsGoalieOut:      *wire.ActiveFive.IsGoalieOut,
			Tactic:           *wire.ActiveFive.Tactic,
			IceTimePriority:  *wire.ActiveFive.IceTimePriority,
			TimeField:        *wire.ActiveFive.TimeField,
		},
	}

	for _, token := range sortedKeys(wire.FieldPlayers) {
		p := wire.FieldPlayers[token]
		stats, err := canonicalObject(p.Stats, "field player "+token+" stats")
		if err != nil {
			return Team{}, err
		}
		team.FieldPlayers = append(team.FieldPlayers, FieldPlayer{
			TokenID:               token,
			Name:                  *p.Name,
			Img:                   p.Img,
			Teamwork:              *p.Teamwork,
			Reality:               *p.Reality,
			Nationality:           *p.Nationality,
			Birthday:              *p.Birthday,
			PlayerType:            *p.PlayerType,
			Number:                *p.Number,
			Hand:                  *p.Hand,
			PlayerRole:            *p.PlayerRole,
			NativePosition:        *p.NativePosition,
			NumberOfPenaltyEvents: *p.NumberOfPenaltyEvents,
			Stats:                 stats,
		})
	}

	for _, number := range sortedKeys(wire.Fives) {
		f := wire.Fives[number]
		five := Five{Number: number, Tactic: *f.Tactic, IceTimePriority: *f.IceTimePriority}
		for _, position := range sortedKeys(f.FieldPlayers) {
			slot := Slot{Position: position}
			if token := f.FieldPlayers[position]; token != nil {
				s := string(*token)
				slot.TokenID = &s
			}
			five.Slots = append(five.Slots, slot)
		}
		team.Fives = append(team.Fives, five)
	}

	if len(wire.Goalies) != 2 {
		return Team{}, malformedf("goalies: expected %s and %s, got %d entries", RoleMainGoalkeeper, RoleSubstituteGoalkeeper, len(wire.Goalies))
	}
	for _, role := range []string{RoleMainGoalkeeper, RoleSubstituteGoalkeeper} {
		g, ok := wire.Goalies[role]
		if !ok {
			return Team{}, malformedf("goalies: %s is missing", role)
		}
		stats, err := canonicalObject(g.Stats, "goalie "+role+" stats")
		if err != nil {
			return Team{}, err
		}
		team.Goalies = append(team.Goalies, Goalie{
			Role:        role,
			TokenID:     string(*g.ID),
			Name:        *g.Name,
			Img:         g.Img,
			Reality:     *g.Reality,
			Nationality: *g.Nationality,
			Birthday:    *g.Birthday,
			PlayerType:  *g.PlayerType,
			PlayerRole:  *g.PlayerRole,
			Hand:        *g.Hand,
			Number:      *g.Number,
			Stats:       stats,
		})
	}

	for _, label := range sortedKeys(wire.GoalieSubstitutions) {
		team.GoalieSubstitutions = append(team.GoalieSubstitutions, GoalieSubstitution{
			Label:   label,
			TokenID: string(wire.GoalieSubstitutions[label]),
		})
	}

	return team, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func malformed(err error, format string, args ...any) error {
	return crerr.Mark(crerr.Wrapf(err, format, args...), ErrMalformedPayload)
}

func malformedf(format string, args ...any) error {
	return crerr.Mark(crerr.Newf(format, args...), ErrMalformedPayload)
}
