package approval

import (
	"strings"
	"time"

	"genealogy-app-go/internal/domain/genealogy"
)

// SystemReviewerID is recorded as the reviewer of requests handled through
// the platform console.
const SystemReviewerID int64 = 1

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type RequestType string

const (
	TypeJoin RequestType = "join"
	TypeEdit RequestType = "edit"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

func ParseAction(value string) (Action, bool) {
	switch a := Action(strings.ToLower(strings.TrimSpace(value))); a {
	case ActionApprove, ActionReject:
		return a, true
	default:
		return "", false
	}
}

func (a Action) status() RequestStatus {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusRejected
}

func parseRequestType(value string) (RequestType, bool) {
	switch t := RequestType(strings.ToLower(strings.TrimSpace(value))); t {
	case TypeJoin, TypeEdit:
		return t, true
	default:
		return "", false
	}
}

func parseRequestStatus(value string) (RequestStatus, bool) {
	switch s := RequestStatus(strings.ToLower(strings.TrimSpace(value))); s {
	case StatusPending, StatusApproved, StatusRejected:
		return s, true
	default:
		return "", false
	}
}

// JoinRequest and EditRequest share one id sequence, so an id names exactly
// one request across both tables.
type JoinRequest struct {
	ID              int64            `gorm:"primaryKey"`
	FamilyID        int64            `gorm:"not null;index"`
	ApplicantUserID int64            `gorm:"not null"`
	ApplicantName   string           `gorm:"not null"`
	RelationDesc    string           `gorm:"not null;default:''"`
	Gender          genealogy.Gender `gorm:"type:varchar(8);not null;default:''"`
	Status          RequestStatus    `gorm:"type:varchar(16);not null;default:pending"`
	ReviewerID      *int64
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	ReviewedAt      *time.Time
}

func (JoinRequest) TableName() string {
	return "join_requests"
}

type EditRequest struct {
	ID              int64         `gorm:"primaryKey"`
	FamilyID        int64         `gorm:"not null;index"`
	MemberID        int64         `gorm:"not null"`
	ApplicantUserID int64         `gorm:"not null"`
	FieldName       FieldName     `gorm:"type:varchar(32);not null"`
	OldValue        string        `gorm:"not null;default:''"`
	NewValue        string        `gorm:"not null"`
	Status          RequestStatus `gorm:"type:varchar(16);not null;default:pending"`
	ReviewerID      *int64
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	ReviewedAt      *time.Time
}

func (EditRequest) TableName() string {
	return "edit_requests"
}

// RequestSummary is one row of the merged join and edit listing.
type RequestSummary struct {
	ID              int64
	Type            RequestType
	FamilyID        int64
	ApplicantUserID int64
	ApplicantName   string
	RelationDesc    string
	MemberID        *int64
	FieldName       string
	OldValue        string
	NewValue        string
	Status          RequestStatus
	ReviewerID      *int64
	CreatedAt       time.Time
	ReviewedAt      *time.Time
}

type Page struct {
	Items []RequestSummary
	Page  int
	Size  int
	Total int64
}

type ListFilter struct {
	FamilyID *int64
	Type     string
	Status   string
	Page     int
	Size     int
}

// RequestQuery is a validated ListFilter as the store sees it.
type RequestQuery struct {
	FamilyID *int64
	Type     RequestType
	Status   RequestStatus
	Limit    int
	Offset   int
}

type Review struct {
	Status     RequestStatus
	ReviewerID int64
	ReviewedAt time.Time
}

type JoinInput struct {
	FamilyID        int64
	ApplicantUserID int64
	ApplicantName   string
	RelationDesc    string
	Gender          string
}

type EditInput struct {
	FamilyID        int64
	MemberID        int64
	ApplicantUserID int64
	FieldName       string
	NewValue        string
}

type HandleInput struct {
	RequestID int64
	FamilyID  int64
	Action    string
	ActorID   int64
	// ActorSuperAdmin skips the family admin check. The actor is still
	// recorded as the reviewer.
	ActorSuperAdmin bool
}

type HandleAdminInput struct {
	RequestID int64
	FamilyID  int64
	Action    string
}
