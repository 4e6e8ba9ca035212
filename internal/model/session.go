package model

import "time"

// SessionStatus is the lifecycle status of a mediation session.
type SessionStatus string

const (
	StatusInvited   SessionStatus = "invited"
	StatusActive    SessionStatus = "active"
	StatusPaused    SessionStatus = "paused"
	StatusCompleted SessionStatus = "completed"
	StatusDeclined  SessionStatus = "declined"
	StatusArchived  SessionStatus = "archived"
)

// TerminalStatuses are statuses excluded from "open sessions" queries.
var TerminalStatuses = []SessionStatus{StatusCompleted, StatusDeclined, StatusArchived}

// IsTerminal reports whether the status ends the session lifecycle.
func (s SessionStatus) IsTerminal() bool {
	for _, t := range TerminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// SessionStage is the guided-conversation stage a session is in.
type SessionStage string

const (
	StageWitness         SessionStage = "witness"
	StagePerspective     SessionStage = "perspective"
	StageNeedMapping     SessionStage = "need_mapping"
	StageStrategicRepair SessionStage = "strategic_repair"
)

// Session is a mediation session between the caller and one partner.
type Session struct {
	ID             string
	PartnerID      string
	PartnerName    string // partner's display name or nickname as the caller sees it
	Status         SessionStatus
	Stage          SessionStage
	Topic          string
	LastActivityAt time.Time
}

// ContactKind is how a person can be reached for an invitation.
type ContactKind string

const (
	ContactEmail ContactKind = "email"
	ContactPhone ContactKind = "phone"
)

// ContactMethod is one way to reach a person.
type ContactMethod struct {
	Kind  ContactKind
	Value string
}

// Person is a (possibly partially known) contact extracted from conversation.
type Person struct {
	FirstName string
	LastName  string
	Contact   *ContactMethod
}

// HasContact reports whether the person has a usable contact method.
func (p Person) HasContact() bool {
	return p.Contact != nil && p.Contact.Value != ""
}

// FullName joins the known name parts.
func (p Person) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
