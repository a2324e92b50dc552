// Package model defines the canonical entities served to presentation code.
// Values are built by the normalize package and never mutated afterwards.
package model

import (
	"github.com/shopspring/decimal"
)

// LegislatorStatus is the service status of a legislator.
type LegislatorStatus string

const (
	StatusInOffice LegislatorStatus = "Exercício"
	StatusOnLeave  LegislatorStatus = "Afastado"
	StatusLicensed LegislatorStatus = "Licenciado"
)

// ProposalStatus is the procedural status of a proposal.
type ProposalStatus string

const (
	ProposalApproved   ProposalStatus = "Aprovada"
	ProposalInProgress ProposalStatus = "Em Tramitação"
	ProposalArchived   ProposalStatus = "Arquivada"
	ProposalRejected   ProposalStatus = "Rejeitada"
)

// Social platform names used as SocialLinks keys.
const (
	PlatformTwitter   = "twitter"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformYouTube   = "youtube"
)

// Office is a legislator's office in the Chamber complex.
type Office struct {
	Room     string `json:"room,omitempty"`
	Building string `json:"building,omitempty"`
	Floor    string `json:"floor,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Legislator is a federal deputy.
// ID is never empty on a resolved record.
type Legislator struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Party             string            `json:"party"`
	State             string            `json:"state"`
	PhotoURL          string            `json:"photoUrl"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Status            LegislatorStatus  `json:"status"`
	LegislativeTermID int               `json:"legislativeTermId"`
	BirthDate         string            `json:"birthDate"`
	Birthplace        string            `json:"birthplace"`
	Education         string            `json:"education"`
	SocialLinks       map[string]string `json:"socialLinks"`
	Office            Office            `json:"office"`
}

// CareerEvent is one entry of a legislator's career history.
type CareerEvent struct {
	Year        int    `json:"year"`
	Role        string `json:"role"`
	Description string `json:"description"`
}

// Proposal is a legislative proposal.
type Proposal struct {
	ID             string         `json:"id"`
	Type           string         `json:"type"`
	Number         int            `json:"number"`
	Year           int            `json:"year"`
	Summary        string         `json:"summary"`
	Status         ProposalStatus `json:"status"`
	SubmissionDate string         `json:"submissionDate"`
}

// Expense is a parliamentary expense line item in BRL.
type Expense struct {
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Supplier string          `json:"supplier"`
}

// Committee is a membership in a committee or other organ.
type Committee struct {
	Name      string  `json:"name"`
	Acronym   string  `json:"acronym"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"`
}

// VotingStats aggregates roll-call participation.
type VotingStats struct {
	Total       int `json:"total"`
	Present     int `json:"present"`
	Absent      int `json:"absent"`
	Abstentions int `json:"abstentions"`
}

// AttendanceStats aggregates session attendance.
type AttendanceStats struct {
	Sessions            int `json:"sessions"`
	Present             int `json:"present"`
	JustifiedAbsences   int `json:"justifiedAbsences"`
	UnjustifiedAbsences int `json:"unjustifiedAbsences"`
}

// CategoryTotal is the expense total for one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MonthTotal is the expense total for one month.
type MonthTotal struct {
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// ExpenseSummary aggregates a legislator's expenses for one year.
type ExpenseSummary struct {
	LegislatorID string          `json:"legislatorId"`
	Year         int             `json:"year"`
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
	ByCategory   []CategoryTotal `json:"byCategory"`
	ByMonth      []MonthTotal    `json:"byMonth"`
}
