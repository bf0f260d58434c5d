package role

import (
	"strings"
	"time"
)

type LinkRole string

const (
	LinkAdmin  LinkRole = "ADMIN"
	LinkMember LinkRole = "MEMBER"
)

func ParseLinkRole(value string) (LinkRole, bool) {
	switch r := LinkRole(strings.ToUpper(strings.TrimSpace(value))); r {
	case LinkAdmin, LinkMember:
		return r, true
	default:
		return "", false
	}
}

// Link ties a user to one genealogy with a per-genealogy role.
type Link struct {
	ID             int64     `gorm:"primaryKey"`
	UserID         int64     `gorm:"not null;uniqueIndex:idx_user_genealogy"`
	GenealogyID    int64     `gorm:"not null;uniqueIndex:idx_user_genealogy;index"`
	Role           LinkRole  `gorm:"type:varchar(16);not null"`
	FamilyMemberID *int64    `gorm:"column:family_member_id"`
	JoinedAt       time.Time `gorm:"not null"`
	CreatedBy      *int64
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Link) TableName() string {
	return "user_genealogies"
}

type LinkInput struct {
	UserID      int64
	GenealogyID int64
	Role        string
	MemberID    *int64
	CreatedBy   *int64
}

type UserGenealogy struct {
	GenealogyID    int64
	GenealogyName  string
	Role           LinkRole
	FamilyMemberID *int64
	JoinedAt       time.Time
}
