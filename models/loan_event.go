package models

import "time"

const (
	LoanActionCreate = "create"
	LoanActionEdit   = "edit"
	LoanActionStatus = "status"
)

// LoanEvent records a loan write the upstream acknowledged.
type LoanEvent struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	LoanRef   string    `gorm:"size:64;index;not null" json:"loanRef"`
	Action    string    `gorm:"size:20;not null" json:"action"`
	Status    string    `gorm:"size:20" json:"status,omitempty"`
	ActorID   string    `gorm:"size:64" json:"actorId"`
	ActorName string    `gorm:"size:255" json:"actorName"`
	CreatedAt time.Time `json:"createdAt"`
}

func (LoanEvent) TableName() string { return "lsb_loan_events" }
