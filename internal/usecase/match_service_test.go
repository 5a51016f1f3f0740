package usecase

import (
	"errors"
	"reflect"
	"testing"

	"github.com/riskibarqy/hockey-indexer/external/gamecontract"
	"github.com/riskibarqy/hockey-indexer/external/gamecontract/gamecontracttest"
	"github.com/riskibarqy/hockey-indexer/internal/domain/account"
	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	"github.com/riskibarqy/hockey-indexer/internal/domain/match"
	"github.com/riskibarqy/hockey-indexer/internal/domain/roster"
	"github.com/riskibarqy/hockey-indexer/internal/platform/id"
)

func goalEvent(puckOwner, token string) gamecontracttest.Object {
	return gamecontracttest.Event(puckOwner, token,
		gamecontracttest.Action("Pass", gamecontracttest.Object{"from": "a1"}),
		gamecontracttest.Action("Goal", gamecontracttest.Object{"player": token}),
	)
}

func finishEvent() gamecontracttest.Object {
	return gamecontracttest.Event(alice, "a1", gamecontracttest.Action("GameFinished", nil))
}

func TestMatchService_StartMatch_CreatesGameAndRosters(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, alice)
	env.startMatch(t, 7, alice, bob, "100")

	game := mustGet[match.Game](t, env.store, entity.FamilyGame, "7")
	if game.User1 != "7_1" || game.User2 != "7_2" || game.Stake.String() != "100" || game.Finished || len(game.Events) != 0 {
		t.Fatalf("unexpected game: %+v", game)
	}

	for _, accountID := range []string{alice, bob} {
		user := mustGet[account.User](t, env.store, entity.FamilyUser, accountID)
		if user.IsAvailable || !user.Deposit.IsZero() || !account.Contains(user.Games, "7") {
			t.Fatalf("unexpected user after match start: %+v", user)
		}
		mustGet[account.Statistics](t, env.store, entity.FamilyUserStatistics, accountID)
	}

	info := mustGet[match.UserInGameInfo](t, env.store, entity.FamilyUserInGameInfo, "7_2")
	if info.UserID != bob || info.GameID != "7" || info.Slot != 2 || info.TeamID != "7_2" {
		t.Fatalf("unexpected user in game info: %+v", info)
	}

	team := mustGet[roster.Team](t, env.store, entity.FamilyTeam, "7_1")
	wantTeam := roster.Team{
		ID:                    "7_1",
		Fives:                 []string{"7_1_First"},
		Goalies:               []string{"a10_7", "a11_7"},
		ActiveFive:            "7_1_First",
		ActiveGoalie:          "a10_7",
		PlayersToBigPenalty:   []string{},
		PlayersToSmallPenalty: []string{},
		PenaltyPlayers:        []string{},
		GoalieSubstitutions:   []string{"7_a11"},
	}
	if !reflect.DeepEqual(team, wantTeam) {
		t.Fatalf("unexpected team:\nwant %+v\ngot  %+v", wantTeam, team)
	}

	five := mustGet[roster.Five](t, env.store, entity.FamilyFive, "7_1_First")
	wantPositions := []string{"7_1_First_Center", "7_1_First_LeftDefender", "7_1_First_LeftWing", "7_1_First_RightWing"}
	if !reflect.DeepEqual(five.FieldPlayers, wantPositions) || five.Tactic != "Neutral" {
		t.Fatalf("unexpected five: %+v", five)
	}
	center := mustGet[roster.PlayerOnPosition](t, env.store, entity.FamilyPlayerOnPosition, "7_1_First_Center")
	if center.Player == nil || *center.Player != "a2_7" {
		t.Fatalf("unexpected center: %+v", center)
	}
	if empty := mustGet[roster.PlayerOnPosition](t, env.store, entity.FamilyPlayerOnPosition, "7_1_First_LeftDefender"); empty.Player != nil {
		t.Fatalf("empty slot must point at nothing: %+v", empty)
	}

	active := mustGet[roster.ActiveFive](t, env.store, entity.FamilyActiveFive, "7_1_First")
	if !reflect.DeepEqual(active.FieldPlayers, wantPositions) {
		t.Fatalf("active five must copy the five's positions: %+v", active)
	}

	player := mustGet[roster.FieldPlayer](t, env.store, entity.FamilyFieldPlayer, "b3_7")
	if player.UserInGameInfoID != "7_2" || player.Teamwork.String() != "1.5" || player.Stats != `{"shooting":75,"skating":80}` {
		t.Fatalf("unexpected field player: %+v", player)
	}

	goalie := mustGet[roster.Goalie](t, env.store, entity.FamilyGoalie, "a11_7")
	if goalie.GoalieNumber != gamecontract.RoleSubstituteGoalkeeper || goalie.Number != 31 {
		t.Fatalf("unexpected goalie: %+v", goalie)
	}
	substitution := mustGet[roster.GoalieSubstitution](t, env.store, entity.FamilyGoalieSubstitution, "7_a11")
	if substitution.Goalie != "a11_7" || substitution.Substitution != "GoalieSubstitution1" {
		t.Fatalf("unexpected substitution: %+v", substitution)
	}
}

func TestMatchService_StartMatch_ReplayIsNoOp(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startMatch(t, 7, alice, bob, "100")
	before := snapshot(t, env.store)

	env.process(t, matchStartReceipt("again", alice, gamecontracttest.MatchStart(7, alice, bob, "100")), ActionSkipped)

	if after := snapshot(t, env.store); !reflect.DeepEqual(before, after) {
		t.Fatalf("replayed match start changed state")
	}
}

func TestMatchService_StartMatch_ClearsPendingRequestsSymmetrically(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, alice, bob, carol)
	env.process(t, friendReceipt("f1", alice, "send_friend_request", bob), ActionApplied)
	env.process(t, friendReceipt("f2", bob, "accept_friend_request", alice), ActionApplied)
	env.process(t, friendReceipt("f3", alice, "send_friend_request", carol), ActionApplied)
	env.process(t, friendReceipt("p1", carol, "send_request_play", alice), ActionApplied)
	env.process(t, friendReceipt("p2", bob, "send_request_play", alice), ActionApplied)

	env.startMatch(t, 7, alice, bob, "100")

	for _, accountID := range []string{alice, bob} {
		user := mustGet[account.User](t, env.store, entity.FamilyUser, accountID)
		if len(user.SentFriendRequests)+len(user.FriendRequestsReceived)+len(user.SentRequestsPlay)+len(user.RequestsPlayReceived) != 0 {
			t.Fatalf("%s kept pending requests: %+v", accountID, user)
		}
	}
	assertFriends(t, env, alice, bob, true)

	other := mustGet[account.User](t, env.store, entity.FamilyUser, carol)
	if len(other.FriendRequestsReceived) != 0 || len(other.SentRequestsPlay) != 0 {
		t.Fatalf("counterpart kept dangling requests: %+v", other)
	}
	mustNotExist(t, env.store, entity.FamilyAccountWithDeposit, id.PlayRequest(carol, alice))
	mustNotExist(t, env.store, entity.FamilyAccountWithDeposit, id.PlayRequest(bob, alice))
}

func TestMatchService_StartMatch_Rejections(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	report := env.process(t, matchStartReceipt("r1", alice, gamecontracttest.MatchStart(7, alice, alice, "1")), ActionRejected)
	if report.Actions[0].Class != ClassMalformedInput {
		t.Fatalf("unexpected class: %s", report.Actions[0].Class)
	}

	payload := gamecontracttest.MatchStart(8, alice, bob, "1")
	team := payload["user1"].(gamecontracttest.Object)["team"].(gamecontracttest.Object)
	team["active_five"].(gamecontracttest.Object)["current_number"] = "Third"
	report = env.process(t, matchStartReceipt("r2", alice, payload), ActionRejected)
	if report.Actions[0].Class != ClassMalformedInput {
		t.Fatalf("unexpected class: %s", report.Actions[0].Class)
	}

	rc := matchStartReceipt("r3", alice, gamecontracttest.MatchStart(9, alice, bob, "1"))
	rc.Outcome.Status = "success_receipt"
	env.process(t, rc, ActionRejected)

	if env.store.Len() != 0 {
		t.Fatalf("rejected match starts must not write anything, store holds %d records", env.store.Len())
	}
}

func TestMatchService_ApplyEvent_AppendsInOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startMatch(t, 7, alice, bob, "100")

	receipts := []string{"e1", "e2", "e3"}
	for _, receiptID := range receipts {
		event := gamecontracttest.Event(alice, "a2", gamecontracttest.Action("Pass", gamecontracttest.Object{"to": "a3"}))
		env.process(t, eventReceipt(receiptID, 7, event), ActionApplied)
	}

	game := mustGet[match.Game](t, env.store, entity.FamilyGame, "7")
	if !reflect.DeepEqual(game.Events, []string{"7_1", "7_2", "7_3"}) {
		t.Fatalf("unexpected event log: %v", game.Events)
	}
	for n, eventID := range game.Events {
		event := mustGet[match.Event](t, env.store, entity.FamilyEvent, eventID)
		if event.EventNumber != n || event.ReceiptID != receipts[n] || event.GameID != "7" {
			t.Fatalf("unexpected event %s: %+v", eventID, event)
		}
		if event.PlayerWithPuck == nil || *event.PlayerWithPuck != "a2_7" {
			t.Fatalf("unexpected puck holder: %v", event.PlayerWithPuck)
		}
		if !reflect.DeepEqual(event.Tags, []string{"Pass"}) || event.Actions[0] != `{"Pass":{"to":"a3"}}` {
			t.Fatalf("unexpected actions: %v %v", event.Actions, event.Tags)
		}
		if event.User1 != "7_1" || event.User2 != "7_2" {
			t.Fatalf("unexpected sides: %+v", event)
		}
	}

	// redelivery of the last receipt
	env.process(t, eventReceipt("e3", 7, gamecontracttest.Event(alice, "a2")), ActionSkipped)
	if game := mustGet[match.Game](t, env.store, entity.FamilyGame, "7"); len(game.Events) != 3 {
		t.Fatalf("redelivered receipt appended an event: %v", game.Events)
	}
}

func TestMatchService_ApplyEvent_EventNumbers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startMatch(t, 7, alice, bob, "100")

	report := env.process(t, eventReceipt("gap", 7, numbered(gamecontracttest.Event(alice, "a1"), 1)), ActionRejected)
	if report.Actions[0].Class != ClassInvalidTransition {
		t.Fatalf("unexpected class: %s", report.Actions[0].Class)
	}

	env.process(t, eventReceipt("e0", 7, numbered(gamecontracttest.Event(alice, "a1"), 0)), ActionApplied)
	env.process(t, eventReceipt("e0-again", 7, numbered(gamecontracttest.Event(alice, "a1"), 0)), ActionSkipped)
	env.process(t, eventReceipt("e1", 7, numbered(gamecontracttest.Event(alice, "a1"), 1)), ActionApplied)

	if game := mustGet[match.Game](t, env.store, entity.FamilyGame, "7"); !reflect.DeepEqual(game.Events, []string{"7_1", "7_2"}) {
		t.Fatalf("unexpected event log: %v", game.Events)
	}
}

func TestMatchService_ApplyEvent_GoalCreditedOnce(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startMatch(t, 7, alice, bob, "100")

	rc := eventReceipt("goal", 7, numbered(goalEvent(alice, "a2"), 0))
	env.process(t, rc, ActionApplied)
	env.process(t, rc, ActionSkipped)

	scorer := mustGet[account.Statistics](t, env.store, entity.FamilyUserStatistics, alice)
	conceder := mustGet[account.Statistics](t, env.store, entity.FamilyUserStatistics, bob)
	if scorer.TotalGoals != 1 || scorer.TotalMisses != 0 || conceder.TotalMisses != 1 || conceder.TotalGoals != 0 {
		t.Fatalf("unexpected goal statistics: scorer=%+v conceder=%+v", scorer, conceder)
	}

	env.process(t, eventReceipt("goal-b", 7, numbered(goalEvent(bob, "b1"), 1)), ActionApplied)
	conceder = mustGet[account.Statistics](t, env.store, entity.FamilyUserStatistics, bob)
	scorer = mustGet[account.Statistics](t, env.store, entity.FamilyUserStatistics, alice)
	if conceder.TotalGoals != 1 || scorer.TotalMisses != 1 {
		t.Fatalf("goal not attributed to the puck holder's side: alice=%+v bob=%+v", scorer, conceder)
	}
}

func TestMatchService_ApplyEvent_RedeliveredBlockIsSkipped(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startMatch(t, 7, alice, bob, "100")

	goal := eventReceipt("r1", 7, goalEvent(alice, "a2"))
	pass := eventReceipt("r2", 7, gamecontracttest.Event(alice, "a1", gamecontracttest.Action("Pass", gamecontracttest.Object{"to": "a3"})))
	env.process(t, goal, ActionApplied)
	env.process(t, pass, ActionApplied)
	before := snapshot(t, env.store)

	env.process(t, goal, ActionSkipped)
	env.process(t, pass, ActionSkipped)

	if after := snapshot(t, env.store); !reflect.DeepEqual(before, after) {
		t.Fatalf("redelivered receipts changed the store")
	}
	game := mustGet[match.Game](t, env.store, entity.FamilyGame, "7")
	if !reflect.DeepEqual(game.Events, []string{"7_1", "7_2"}) || !reflect.DeepEqual(game.Receipts, []string{"r1", "r2"}) {
		t.Fatalf("unexpected event log: events=%v receipts=%v", game.Events, game.Receipts)
	}
	scorer := mustGet[account.Statistics](t, env.store, entity.FamilyUserStatistics, alice)
	if scorer.TotalGoals != 1 {
		t.Fatalf("goal credited %d times", scorer.TotalGoals)
	}
}

func TestMatchService_ApplyEvent_GoalWithoutPuckHolder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startMatch(t, 7, alice, bob, "100")
	before := snapshot(t, env.store)

	report := env.process(t, eventReceipt("goal", 7, goalEvent(alice, "")), ActionRejected)
	if report.Actions[0].Class != ClassMalformedInput {
		t.Fatalf("unexpected class: %s", report.Actions[0].Class)
	}
	if after := snapshot(t, env.store); !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected event left partial state")
	}
}

func TestMatchService_Finish_SettlesOnce(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startMatch(t, 7, alice, bob, "100")

	finishing := eventReceipt("finish", 7, finishEvent(), "Game over", gamecontracttest.FinishLog(bob, "100"))
	env.process(t, finishing, ActionApplied)

	game := mustGet[match.Game](t, env.store, entity.FamilyGame, "7")
	if !game.Finished || game.WinnerIndex != 2 || game.Reward.String() != "100" {
		t.Fatalf("unexpected finished game: %+v", game)
	}
	last := mustGet[match.Event](t, env.store, entity.FamilyEvent, game.Events[0])
	if !last.HasTag(match.TagGameFinished) {
		t.Fatalf("finishing event lost its tag: %+v", last)
	}

	assertSettled := func() {
		t.Helper()
		winner := mustGet[account.Statistics](t, env.store, entity.FamilyUserStatistics, bob)
		loser := mustGet[account.Statistics](t, env.store, entity.FamilyUserStatistics, alice)
		if winner.Victories != 1 || winner.TotalReward.String() != "100" || winner.Losses != 0 {
			t.Fatalf("unexpected winner statistics: %+v", winner)
		}
		if loser.Losses != 1 || loser.TotalLoss.String() != "100" || loser.Victories != 0 {
			t.Fatalf("unexpected loser statistics: %+v", loser)
		}
	}
	assertSettled()

	env.process(t, finishing, ActionSkipped)
	report := env.process(t, eventReceipt("finish-again", 7, finishEvent(), gamecontracttest.FinishLog(alice, "100")), ActionRejected)
	if report.Actions[0].Class != ClassInvalidTransition {
		t.Fatalf("unexpected class: %s", report.Actions[0].Class)
	}
	env.process(t, eventReceipt("stop", 7, gamecontracttest.Stop(bob)), ActionSkipped)

	assertSettled()
	if game := mustGet[match.Game](t, env.store, entity.FamilyGame, "7"); game.WinnerIndex != 2 || len(game.Events) != 1 {
		t.Fatalf("finished game was revised: %+v", game)
	}
}

func TestMatchService_Finish_Rejections(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startMatch(t, 7, alice, bob, "100")
	before := snapshot(t, env.store)

	cases := map[string][]string{
		"no finish log":   {"plain text"},
		"unknown winner":  {gamecontracttest.FinishLog(carol, "100")},
		"negative reward": {gamecontracttest.FinishLog(alice, "-1")},
	}
	for name, logs := range cases {
		report := env.process(t, eventReceipt(name, 7, finishEvent(), logs...), ActionRejected)
		if report.Actions[0].Class == ClassStore {
			t.Fatalf("%s: unexpected class %s", name, report.Actions[0].Class)
		}
	}

	if after := snapshot(t, env.store); !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected finish left partial state")
	}
}

func TestMatchService_StopAndEmptyEvents(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.startMatch(t, 7, alice, bob, "100")

	report := env.process(t, eventReceipt("stop-early", 7, gamecontracttest.Stop(alice)), ActionRejected)
	if report.Actions[0].Class != ClassInvalidTransition {
		t.Fatalf("unexpected class: %s", report.Actions[0].Class)
	}
	env.process(t, eventReceipt("e1", 7, gamecontracttest.Event(alice, "a1")), ActionApplied)
	report = env.process(t, eventReceipt("stop-mid", 7, gamecontracttest.Stop(alice)), ActionRejected)
	if report.Actions[0].Class != ClassInvalidTransition {
		t.Fatalf("unexpected class: %s", report.Actions[0].Class)
	}

	rc := eventReceipt("null", 7, nil)
	rc.Outcome.Value = []byte("null")
	env.process(t, rc, ActionSkipped)

	report = env.process(t, eventReceipt("unknown-game", 99, gamecontracttest.Event(alice, "a1")), ActionRejected)
	if report.Actions[0].Class != ClassUnknownReference {
		t.Fatalf("unexpected class: %s", report.Actions[0].Class)
	}
}

func TestMatchService_ApplyEvent_UnknownGameError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	err := env.matches.ApplyEvent(t.Context(), ApplyEventInput{
		GameID:  99,
		Payload: gamecontract.EventPayload{Kind: gamecontract.EventNone},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
