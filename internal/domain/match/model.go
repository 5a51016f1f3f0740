package match

import (
	"slices"

	"github.com/shopspring/decimal"
)

const (
	TagGoal         = "Goal"
	TagGameFinished = "GameFinished"
)

// Game is one match between two accounts.
type Game struct {
	ID          string          `json:"id"`
	User1       string          `json:"user1"`
	User2       string          `json:"user2"`
	Stake       decimal.Decimal `json:"stake"`
	Reward      decimal.Decimal `json:"reward"`
	WinnerIndex int             `json:"winner_index"`
	Finished    bool            `json:"finished"`
	Events      []string        `json:"events"`
	// Receipts holds the ids of the receipts that produced Events.
	Receipts []string `json:"receipts"`
}

// HasReceipt reports whether receiptID already produced an event of g.
func (g Game) HasReceipt(receiptID string) bool {
	return receiptID != "" && slices.Contains(g.Receipts, receiptID)
}

// LastEventID returns the most recently appended event id.
func (g Game) LastEventID() (string, bool) {
	if len(g.Events) == 0 {
		return "", false
	}
	return g.Events[len(g.Events)-1], true
}

// UserInGameInfo is one side of a match. Slot is 1 or 2.
type UserInGameInfo struct {
	ID                string `json:"id"`
	GameID            string `json:"game"`
	UserID            string `json:"user"`
	Slot              int    `json:"slot"`
	TakeToCalled      bool   `json:"take_to_called"`
	CoachSpeechCalled bool   `json:"coach_speech_called"`
	IsGoalieOut       bool   `json:"is_goalie_out"`
	TeamID            string `json:"team"`
}

// Event is one immutable match tick.
type Event struct {
	ID                   string   `json:"id"`
	GameID               string   `json:"game"`
	EventNumber          int      `json:"event_number"`
	ReceiptID            string   `json:"receipt_id"`
	PlayerWithPuck       *string  `json:"player_with_puck"`
	Actions              []string `json:"actions"`
	Tags                 []string `json:"tags"`
	ZoneNumber           int      `json:"zone_number"`
	Time                 int64    `json:"time"`
	EventGenerationDelay int64    `json:"event_generation_delay"`
	User1                string   `json:"user1"`
	User2                string   `json:"user2"`
}

func (e Event) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}
