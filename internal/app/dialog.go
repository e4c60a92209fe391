package app

import "sync"

type flowKind int

const (
	flowAddPartner flowKind = iota + 1
	flowDeletePartner
	flowSearchUsers
	flowAddPurchase
)

type purchaseStep int

const (
	purchaseStepBuyer purchaseStep = iota
	purchaseStepAmount
	purchaseStepComment
)

// dialogState is one admin's position inside a multi-step flow.
type dialogState struct {
	Kind flowKind

	Step    purchaseStep
	BuyerID int64
	Amount  float64
}

// dialogKey scopes a flow to one admin in one chat, so concurrent flows by
// different admins in a shared chat never touch each other.
type dialogKey struct {
	ChatID  int64
	ActorID int64
}

// dialogs keeps per-admin conversation state in memory. A restart drops all
// pending flows; admins simply start over from the panel.
type dialogs struct {
	mu      sync.Mutex
	byActor map[dialogKey]dialogState
}

func newDialogs() *dialogs {
	return &dialogs{byActor: make(map[dialogKey]dialogState)}
}

// begin replaces whatever flow the same admin had pending in the chat.
func (d *dialogs) begin(chatID, actorID int64, state dialogState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byActor[dialogKey{ChatID: chatID, ActorID: actorID}] = state
}

func (d *dialogs) get(chatID, actorID int64) (dialogState, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	state, ok := d.byActor[dialogKey{ChatID: chatID, ActorID: actorID}]
	return state, ok
}

func (d *dialogs) set(chatID, actorID int64, state dialogState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byActor[dialogKey{ChatID: chatID, ActorID: actorID}] = state
}

func (d *dialogs) clear(chatID, actorID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.byActor, dialogKey{ChatID: chatID, ActorID: actorID})
}
