package receipt

import "github.com/shopspring/decimal"

type ActionKind string

const (
	ActionFunctionCall ActionKind = "function_call"
	ActionTransfer     ActionKind = "transfer"
	ActionOther        ActionKind = "other"
)

type OutcomeStatus string

const (
	StatusSuccessValue   OutcomeStatus = "success_value"
	StatusSuccessReceipt OutcomeStatus = "success_receipt"
	StatusFailure        OutcomeStatus = "failure"
	StatusUnknown        OutcomeStatus = "unknown"
)

// Receipt is one delivered unit of work from the ledger.
type Receipt struct {
	ID            string   `json:"id" validate:"required"`
	PredecessorID string   `json:"predecessor_id"`
	ReceiverID    string   `json:"receiver_id"`
	SignerID      string   `json:"signer_id" validate:"required"`
	BlockHeight   uint64   `json:"block_height"`
	Actions       []Action `json:"actions" validate:"dive"`
	Outcome       Outcome  `json:"outcome"`
}

// Action is a single call action inside a receipt.
type Action struct {
	Kind       ActionKind      `json:"kind" validate:"required,oneof=function_call transfer other"`
	MethodName string          `json:"method_name" validate:"required_if=Kind function_call"`
	Args       []byte          `json:"args"`
	Deposit    decimal.Decimal `json:"deposit"`
}

// Outcome carries the execution result shared by all actions of a receipt.
type Outcome struct {
	Status OutcomeStatus `json:"status" validate:"required,oneof=success_value success_receipt failure unknown"`
	Value  []byte        `json:"value"`
	Logs   []string      `json:"logs"`
}

func (o Outcome) Failed() bool {
	return o.Status == StatusFailure
}
