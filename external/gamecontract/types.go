package gamecontract

import "github.com/shopspring/decimal"

const (
	RoleMainGoalkeeper       = "MainGoalkeeper"
	RoleSubstituteGoalkeeper = "SubstituteGoalkeeper"
)

// MatchStart is the decoded return value of a successful on_get_team call.
type MatchStart struct {
	GameID int64
	Stake  decimal.Decimal
	Sides  [2]Side
}

// Side is one participant's in-game snapshot. AccountID is only present on
// match start payloads.
type Side struct {
	AccountID         string
	UserID            int64
	TakeToCalled      bool
	CoachSpeechCalled bool
	IsGoalieOut       bool
	Team              Team
}

type Team struct {
	Score                    int
	FieldPlayers             []FieldPlayer
	Fives                    []Five
	Goalies                  []Goalie
	ActiveFive               ActiveFive
	ActiveGoalie             string
	PlayersToBigPenalty      []string
	PlayersToSmallPenalty    []string
	PenaltyPlayers           []string
	GoalieSubstitutions      []GoalieSubstitution
	ActiveGoalieSubstitution *string
}

type FieldPlayer struct {
	TokenID               string
	Name                  string
	Img                   *string
	Teamwork              decimal.Decimal
	Reality               bool
	Nationality           string
	Birthday              int64
	PlayerType            string
	Number                int
	Hand                  string
	PlayerRole            string
	NativePosition        string
	NumberOfPenaltyEvents int64
	Stats                 string
}

// Five is a numbered line. Slots are ordered by position label.
type Five struct {
	Number          string
	Slots           []Slot
	Tactic          string
	IceTimePriority string
}

// Slot is a position inside a five; TokenID is nil for an empty slot.
type Slot struct {
	Position string
	TokenID  *string
}

type Goalie struct {
	Role        string
	TokenID     string
	Name        string
	Img         *string
	Reality     bool
	Nationality string
	Birthday    int64
	PlayerType  string
	PlayerRole  string
	Hand        string
	Number      int
	Stats       string
}

type ActiveFive struct {
	CurrentNumber    string
	ReplacedPosition []string
	IsGoalieOut      bool
	Tactic           string
	IceTimePriority  string
	TimeField        int64
}

type GoalieSubstitution struct {
	Label   string
	TokenID string
}

// Action is one raw game action, kept as canonical JSON with its tag.
type Action struct {
	Tag       string
	Canonical string
}

// Event is the decoded return value of a generate_event call that produced
// a game step.
type Event struct {
	EventNumber          *int
	PlayerWithPuck       *string
	Actions              []Action
	ZoneNumber           int
	Time                 int64
	EventGenerationDelay int64
	Sides                [2]Side
}

type EventKind int

const (
	// EventNone means generate_event returned null.
	EventNone EventKind = iota
	EventStep
	EventStop
)

// EventPayload is the decoded generate_event return value.
type EventPayload struct {
	Kind     EventKind
	Step     Event
	WinnerID *string
}

// FinishLog is the [label, [winner, reward]] entry written to the receipt
// logs when a game ends.
type FinishLog struct {
	Label    string
	WinnerID string
	Reward   decimal.Decimal
}

type FriendArgs struct {
	FriendID string
}

type GameArgs struct {
	GameID int64
}

type TeamLogoArgs struct {
	FormName               string
	PatternName            string
	FirstLayerColorNumber  string
	SecondLayerColorNumber string
}
