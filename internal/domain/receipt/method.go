package receipt

// Method is the closed set of contract calls the materializer understands.
type Method int

const (
	MethodUnknown Method = iota
	MethodRegisterAccount
	MethodMakeUnavailable
	MethodOnGetTeam
	MethodGenerateEvent
	MethodSendFriendRequest
	MethodAcceptFriendRequest
	MethodDeclineFriendRequest
	MethodSendRequestPlay
	MethodAcceptRequestPlay
	MethodDeclineRequestPlay
	MethodRemoveFriend
	MethodSetTeamLogo
)

var methodNames = map[Method]string{
	MethodRegisterAccount:      "register_account",
	MethodMakeUnavailable:      "make_unavailable",
	MethodOnGetTeam:            "on_get_team",
	MethodGenerateEvent:        "generate_event",
	MethodSendFriendRequest:    "send_friend_request",
	MethodAcceptFriendRequest:  "accept_friend_request",
	MethodDeclineFriendRequest: "decline_friend_request",
	MethodSendRequestPlay:      "send_request_play",
	MethodAcceptRequestPlay:    "accept_request_play",
	MethodDeclineRequestPlay:   "decline_request_play",
	MethodRemoveFriend:         "remove_friend",
	MethodSetTeamLogo:          "set_team_logo",
}

var methodsByName = func() map[string]Method {
	out := make(map[string]Method, len(methodNames))
	for m, name := range methodNames {
		out[name] = m
	}
	return out
}()

// ParseMethod resolves a contract method name. Unrecognized names return MethodUnknown.
func ParseMethod(name string) Method {
	if m, ok := methodsByName[name]; ok {
		return m
	}
	return MethodUnknown
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}
