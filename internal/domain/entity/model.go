package entity

import "fmt"

// Family names one flat keyed record table.
type Family string

const (
	FamilyUser               Family = "users"
	FamilyUserStatistics     Family = "user_statistics"
	FamilyTeamLogo           Family = "team_logos"
	FamilyAccountWithDeposit Family = "account_with_deposits"
	FamilyGame               Family = "games"
	FamilyUserInGameInfo     Family = "user_in_game_infos"
	FamilyEvent              Family = "events"
	FamilyTeam               Family = "teams"
	FamilyFive               Family = "fives"
	FamilyActiveFive         Family = "active_fives"
	FamilyPlayerOnPosition   Family = "players_on_position"
	FamilyFieldPlayer        Family = "field_players"
	FamilyGoalie             Family = "goalies"
	FamilyGoalieSubstitution Family = "goalie_substitutions"
)

var families = []Family{
	FamilyUser,
	FamilyUserStatistics,
	FamilyTeamLogo,
	FamilyAccountWithDeposit,
	FamilyGame,
	FamilyUserInGameInfo,
	FamilyEvent,
	FamilyTeam,
	FamilyFive,
	FamilyActiveFive,
	FamilyPlayerOnPosition,
	FamilyFieldPlayer,
	FamilyGoalie,
	FamilyGoalieSubstitution,
}

// Families returns every known family in a stable order.
func Families() []Family {
	return append([]Family(nil), families...)
}

func (f Family) Valid() bool {
	for _, known := range families {
		if f == known {
			return true
		}
	}
	return false
}

// Key addresses one record.
type Key struct {
	Family Family
	ID     string
}

func (k Key) String() string {
	return string(k.Family) + ":" + k.ID
}

func (k Key) Validate() error {
	if !k.Family.Valid() {
		return fmt.Errorf("unknown entity family %q", k.Family)
	}
	if k.ID == "" {
		return fmt.Errorf("entity id is required for family %s", k.Family)
	}
	return nil
}

// Record is one encoded entity.
type Record struct {
	Key     Key
	Payload []byte
}

// ChangeSet is the ordered output of one handler invocation.
type ChangeSet struct {
	Upserts []Record
	Deletes []Key
}

func (c ChangeSet) Empty() bool {
	return len(c.Upserts) == 0 && len(c.Deletes) == 0
}
