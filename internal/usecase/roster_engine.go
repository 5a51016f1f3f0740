package usecase

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/riskibarqy/hockey-indexer/external/gamecontract"
	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	"github.com/riskibarqy/hockey-indexer/internal/domain/match"
	"github.com/riskibarqy/hockey-indexer/internal/domain/roster"
	"github.com/riskibarqy/hockey-indexer/internal/platform/id"
)

// RosterEngine materializes one side's roster snapshot into the Team subtree.
// List fields are replaced wholesale on every snapshot; records the new
// snapshot no longer references (positions, fives, the previous active five)
// are deleted.
type RosterEngine struct{}

func NewRosterEngine() *RosterEngine {
	return &RosterEngine{}
}

// UpsertSide writes the UserInGameInfo of slot and its Team subtree. accountID
// is only used when the UserInGameInfo does not exist yet; event snapshots pass
// an empty account and require the side to exist.
func (e *RosterEngine) UpsertSide(ctx context.Context, uow *UnitOfWork, gameID string, slot int, accountID string, side gamecontract.Side) (match.UserInGameInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterEngine.UpsertSide")
	defer span.End()

	infoID := id.UserInGameInfo(gameID, slot)
	info, exists, err := load[match.UserInGameInfo](ctx, uow, entity.FamilyUserInGameInfo, infoID)
	if err != nil {
		return match.UserInGameInfo{}, err
	}
	if !exists {
		if accountID == "" {
			return match.UserInGameInfo{}, fmt.Errorf("%w: user in game info %q", ErrNotFound, infoID)
		}
		info = match.UserInGameInfo{ID: infoID, GameID: gameID, UserID: accountID, Slot: slot}
	}

	teamID := id.Team(gameID, slot)
	if err := e.upsertTeam(ctx, uow, gameID, slot, infoID, teamID, side.Team); err != nil {
		return match.UserInGameInfo{}, fmt.Errorf("upsert team %s: %w", teamID, err)
	}

	info.TakeToCalled = side.TakeToCalled
	info.CoachSpeechCalled = side.CoachSpeechCalled
	info.IsGoalieOut = side.IsGoalieOut
	info.TeamID = teamID
	if err := uow.put(entity.FamilyUserInGameInfo, info.ID, info); err != nil {
		return match.UserInGameInfo{}, err
	}
	return info, nil
}

func (e *RosterEngine) upsertTeam(ctx context.Context, uow *UnitOfWork, gameID string, slot int, infoID, teamID string, snapshot gamecontract.Team) error {
	team, _, err := load[roster.Team](ctx, uow, entity.FamilyTeam, teamID)
	if err != nil {
		return err
	}
	previous := team
	team.ID = teamID

	tokens := make(map[string]struct{}, len(snapshot.FieldPlayers))
	for _, player := range snapshot.FieldPlayers {
		if err := e.upsertFieldPlayer(ctx, uow, gameID, infoID, player); err != nil {
			return err
		}
		tokens[player.TokenID] = struct{}{}
	}

	userSlot := strconv.Itoa(slot)
	fives := make(map[string]roster.Five, len(snapshot.Fives))
	team.Fives = make([]string, 0, len(snapshot.Fives))
	for _, five := range snapshot.Fives {
		record, err := e.upsertFive(ctx, uow, gameID, userSlot, five, tokens)
		if err != nil {
			return err
		}
		fives[five.Number] = record
		team.Fives = append(team.Fives, record.ID)
	}
	for _, oldID := range previous.Fives {
		if slices.Contains(team.Fives, oldID) {
			continue
		}
		if err := removeFive(ctx, uow, oldID); err != nil {
			return err
		}
	}

	team.Goalies = make([]string, 0, len(snapshot.Goalies))
	goalies := make(map[string]struct{}, len(snapshot.Goalies))
	for _, goalie := range snapshot.Goalies {
		goalieID := id.Goalie(goalie.TokenID, gameID)
		record := roster.Goalie{
			ID:           goalieID,
			Name:         goalie.Name,
			Img:          goalie.Img,
			Reality:      goalie.Reality,
			Nationality:  goalie.Nationality,
			Birthday:     goalie.Birthday,
			PlayerType:   goalie.PlayerType,
			PlayerRole:   goalie.PlayerRole,
			Hand:         goalie.Hand,
			GoalieNumber: goalie.Role,
			Number:       goalie.Number,
			Stats:        goalie.Stats,
		}
		if err := uow.put(entity.FamilyGoalie, goalieID, record); err != nil {
			return err
		}
		team.Goalies = append(team.Goalies, goalieID)
		goalies[goalie.TokenID] = struct{}{}
	}

	activeFiveID, err := e.upsertActiveFive(uow, gameID, userSlot, snapshot.ActiveFive, fives)
	if err != nil {
		return err
	}
	if previous.ActiveFive != "" && previous.ActiveFive != activeFiveID {
		uow.remove(entity.FamilyActiveFive, previous.ActiveFive)
	}
	team.ActiveFive = activeFiveID

	if _, ok := goalies[snapshot.ActiveGoalie]; !ok {
		return fmt.Errorf("%w: active goalie %q is not on the roster", ErrInvalidInput, snapshot.ActiveGoalie)
	}
	team.ActiveGoalie = id.Goalie(snapshot.ActiveGoalie, gameID)

	team.Score = snapshot.Score
	team.PlayersToBigPenalty = fieldPlayerIDs(snapshot.PlayersToBigPenalty, gameID)
	team.PlayersToSmallPenalty = fieldPlayerIDs(snapshot.PlayersToSmallPenalty, gameID)
	team.PenaltyPlayers = fieldPlayerIDs(snapshot.PenaltyPlayers, gameID)

	team.GoalieSubstitutions = make([]string, 0, len(snapshot.GoalieSubstitutions))
	for _, substitution := range snapshot.GoalieSubstitutions {
		substitutionID, err := ensureGoalieSubstitution(ctx, uow, gameID, substitution)
		if err != nil {
			return err
		}
		team.GoalieSubstitutions = append(team.GoalieSubstitutions, substitutionID)
	}
	team.ActiveGoalieSubstitution = snapshot.ActiveGoalieSubstitution

	return uow.put(entity.FamilyTeam, team.ID, team)
}

// upsertFieldPlayer overwrites every scalar attribute. The owning side is
// fixed when the player is first seen.
func (e *RosterEngine) upsertFieldPlayer(ctx context.Context, uow *UnitOfWork, gameID, infoID string, player gamecontract.FieldPlayer) error {
	playerID := id.FieldPlayer(player.TokenID, gameID)
	record, exists, err := load[roster.FieldPlayer](ctx, uow, entity.FamilyFieldPlayer, playerID)
	if err != nil {
		return err
	}
	if !exists {
		record = roster.FieldPlayer{ID: playerID, UserInGameInfoID: infoID}
	}

	record.Name = player.Name
	record.Img = player.Img
	record.Teamwork = player.Teamwork
	record.Reality = player.Reality
	record.Nationality = player.Nationality
	record.Birthday = player.Birthday
	record.PlayerType = player.PlayerType
	record.Number = player.Number
	record.Hand = player.Hand
	record.PlayerRole = player.PlayerRole
	record.NativePosition = player.NativePosition
	record.NumberOfPenaltyEvents = player.NumberOfPenaltyEvents
	record.Stats = player.Stats
	return uow.put(entity.FamilyFieldPlayer, playerID, record)
}

func (e *RosterEngine) upsertFive(ctx context.Context, uow *UnitOfWork, gameID, userSlot string, five gamecontract.Five, tokens map[string]struct{}) (roster.Five, error) {
	fiveID := id.Five(gameID, userSlot, five.Number)
	previous, _, err := load[roster.Five](ctx, uow, entity.FamilyFive, fiveID)
	if err != nil {
		return roster.Five{}, err
	}

	record := roster.Five{
		ID:              fiveID,
		Number:          five.Number,
		FieldPlayers:    make([]string, 0, len(five.Slots)),
		Tactic:          five.Tactic,
		IceTimePriority: five.IceTimePriority,
	}
	for _, slot := range five.Slots {
		position := roster.PlayerOnPosition{
			ID:       id.PlayerOnPosition(fiveID, slot.Position),
			Position: slot.Position,
		}
		if slot.TokenID != nil {
			if _, ok := tokens[*slot.TokenID]; !ok {
				return roster.Five{}, fmt.Errorf("%w: five %s position %s references unknown player %q", ErrInvalidInput, five.Number, slot.Position, *slot.TokenID)
			}
			playerID := id.FieldPlayer(*slot.TokenID, gameID)
			position.Player = &playerID
		}
		if err := uow.put(entity.FamilyPlayerOnPosition, position.ID, position); err != nil {
			return roster.Five{}, err
		}
		record.FieldPlayers = append(record.FieldPlayers, position.ID)
	}

	for _, oldID := range previous.FieldPlayers {
		if !slices.Contains(record.FieldPlayers, oldID) {
			uow.remove(entity.FamilyPlayerOnPosition, oldID)
		}
	}

	if err := uow.put(entity.FamilyFive, fiveID, record); err != nil {
		return roster.Five{}, err
	}
	return record, nil
}

// upsertActiveFive copies the positions of the five it was deployed from.
func (e *RosterEngine) upsertActiveFive(uow *UnitOfWork, gameID, userSlot string, active gamecontract.ActiveFive, fives map[string]roster.Five) (string, error) {
	five, ok := fives[active.CurrentNumber]
	if !ok {
		return "", fmt.Errorf("%w: active five %q is not a five of the team", ErrInvalidInput, active.CurrentNumber)
	}

	activeID := id.ActiveFive(gameID, userSlot, active.CurrentNumber)
	record := roster.ActiveFive{
		ID:               activeID,
		CurrentNumber:    active.CurrentNumber,
		ReplacedPosition: append([]string{}, active.ReplacedPosition...),
		FieldPlayers:     append([]string{}, five.FieldPlayers...),
		IsGoalieOut:      active.IsGoalieOut,
		Tactic:           active.Tactic,
		IceTimePriority:  active.IceTimePriority,
		TimeField:        active.TimeField,
	}
	if err := uow.put(entity.FamilyActiveFive, activeID, record); err != nil {
		return "", err
	}
	return activeID, nil
}

// ensureGoalieSubstitution creates the substitution on first sight and
// never rewrites it afterwards.
func ensureGoalieSubstitution(ctx context.Context, uow *UnitOfWork, gameID string, substitution gamecontract.GoalieSubstitution) (string, error) {
	substitutionID := id.GoalieSubstitution(gameID, substitution.TokenID)
	exists, err := uow.exists(ctx, entity.FamilyGoalieSubstitution, substitutionID)
	if err != nil {
		return "", err
	}
	if exists {
		return substitutionID, nil
	}

	goalieID := id.Goalie(substitution.TokenID, gameID)
	goalieExists, err := uow.exists(ctx, entity.FamilyGoalie, goalieID)
	if err != nil {
		return "", err
	}
	if !goalieExists {
		return "", fmt.Errorf("%w: goalie %q for substitution %s", ErrNotFound, goalieID, substitution.Label)
	}

	record := roster.GoalieSubstitution{
		ID:           substitutionID,
		Substitution: substitution.Label,
		Goalie:       goalieID,
	}
	if err := uow.put(entity.FamilyGoalieSubstitution, substitutionID, record); err != nil {
		return "", err
	}
	return substitutionID, nil
}

func removeFive(ctx context.Context, uow *UnitOfWork, fiveID string) error {
	five, exists, err := load[roster.Five](ctx, uow, entity.FamilyFive, fiveID)
	if err != nil {
		return err
	}
	if exists {
		for _, positionID := range five.FieldPlayers {
			uow.remove(entity.FamilyPlayerOnPosition, positionID)
		}
	}
	uow.remove(entity.FamilyFive, fiveID)
	return nil
}

func fieldPlayerIDs(tokens []string, gameID string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, id.FieldPlayer(token, gameID))
	}
	return out
}
