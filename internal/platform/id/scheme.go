// Package id derives the composite keys that let replayed receipts resolve to
// the entities they created the first time. Every function is pure.
package id

import (
	"strconv"
	"strings"
)

const (
	sep        = "_"
	accountSep = "|"
)

// Slot ids of the two sides of a match.
const (
	Slot1 = 1
	Slot2 = 2
)

// Game canonicalizes a numeric match id.
func Game(gameID int64) string {
	return strconv.FormatInt(gameID, 10)
}

// UserInGameInfo is also the Team id of that side.
func UserInGameInfo(gameID string, slot int) string {
	return gameID + sep + strconv.Itoa(slot)
}

func Team(gameID string, slot int) string {
	return UserInGameInfo(gameID, slot)
}

// Event ids are one-based while event numbers start at zero.
func Event(gameID string, eventNumber int) string {
	return gameID + sep + strconv.Itoa(eventNumber+1)
}

func Five(gameID, userID, fiveNumber string) string {
	return gameID + sep + userID + sep + fiveNumber
}

// ActiveFive shares the Five key: the active formation of a
// team is addressed like the five it was deployed from.
func ActiveFive(gameID, userID, fiveNumber string) string {
	return Five(gameID, userID, fiveNumber)
}

func PlayerOnPosition(fiveID, position string) string {
	return fiveID + sep + position
}

func FieldPlayer(tokenID, gameID string) string {
	return tokenID + sep + gameID
}

func Goalie(tokenID, gameID string) string {
	return tokenID + sep + gameID
}

func GoalieSubstitution(gameID, tokenID string) string {
	return gameID + sep + tokenID
}

// PlayRequest is the escrow key of a play request sent by from to to.
func PlayRequest(from, to string) string {
	return from + accountSep + to
}

// SplitPlayRequest recovers both accounts from an escrow key. Account ids
// never contain the separator.
func SplitPlayRequest(escrowID string) (from, to string, ok bool) {
	from, to, ok = strings.Cut(escrowID, accountSep)
	if !ok || from == "" || to == "" {
		return "", "", false
	}
	return from, to, true
}

// Statistics share the owning account id.
func Statistics(accountID string) string {
	return accountID
}

func TeamLogo(accountID string) string {
	return accountID
}
