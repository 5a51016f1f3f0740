package account

import (
	"slices"

	"github.com/shopspring/decimal"
)

// User is a player account known to the game contract.
type User struct {
	ID                     string          `json:"id"`
	Deposit                decimal.Decimal `json:"deposit"`
	IsAvailable            bool            `json:"is_available"`
	StatisticsID           string          `json:"statistics"`
	Games                  []string        `json:"games"`
	Friends                []string        `json:"friends"`
	SentFriendRequests     []string        `json:"sent_friend_requests"`
	FriendRequestsReceived []string        `json:"friend_requests_received"`
	SentRequestsPlay       []string        `json:"sent_requests_play"`
	RequestsPlayReceived   []string        `json:"requests_play_received"`
}

// NewUser returns an unavailable user with empty relation lists.
func NewUser(id string) User {
	return User{
		ID:                     id,
		Deposit:                decimal.Zero,
		StatisticsID:           id,
		Games:                  []string{},
		Friends:                []string{},
		SentFriendRequests:     []string{},
		FriendRequestsReceived: []string{},
		SentRequestsPlay:       []string{},
		RequestsPlayReceived:   []string{},
	}
}

// Statistics accumulates settlement results. Counters never decrease.
type Statistics struct {
	ID          string          `json:"id"`
	Victories   int64           `json:"victories"`
	Losses      int64           `json:"losses"`
	TotalReward decimal.Decimal `json:"total_reward"`
	TotalLoss   decimal.Decimal `json:"total_loss"`
	TotalGoals  int64           `json:"total_goals"`
	TotalMisses int64           `json:"total_misses"`
}

func NewStatistics(userID string) Statistics {
	return Statistics{
		ID:          userID,
		TotalReward: decimal.Zero,
		TotalLoss:   decimal.Zero,
	}
}

// PlayRequest is the escrow record of a pending paid play request.
type PlayRequest struct {
	ID      string          `json:"id"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Deposit decimal.Decimal `json:"deposit"`
}

// TeamLogo is the cosmetic logo chosen by an account.
type TeamLogo struct {
	ID                     string `json:"id"`
	FormName               string `json:"form_name"`
	PatternName            string `json:"pattern_name"`
	FirstLayerColorNumber  string `json:"first_layer_color_number"`
	SecondLayerColorNumber string `json:"second_layer_color_number"`
}

// Contains reports whether list holds value.
func Contains(list []string, value string) bool {
	return slices.Contains(list, value)
}

// Add appends value once.
func Add(list []string, value string) []string {
	if slices.Contains(list, value) {
		return list
	}
	return append(list, value)
}

// Remove drops every occurrence of value and never returns nil.
func Remove(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != value {
			out = append(out, item)
		}
	}
	return out
}
