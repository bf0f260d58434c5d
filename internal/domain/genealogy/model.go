package genealogy

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(value string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(value))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	default:
		return "", false
	}
}

type RelationType string

const (
	RelationFatherSon   RelationType = "father_son"
	RelationMotherSon   RelationType = "mother_son"
	RelationHusbandWife RelationType = "husband_wife"
	RelationSibling     RelationType = "sibling"
)

func ParseRelationType(value string) (RelationType, bool) {
	switch t := RelationType(strings.TrimSpace(value)); t {
	case RelationFatherSon, RelationMotherSon, RelationHusbandWife, RelationSibling:
		return t, true
	default:
		return "", false
	}
}

// IsParent reports whether the edge points from a parent to a child.
func (t RelationType) IsParent() bool {
	return t == RelationFatherSon || t == RelationMotherSon
}

type Genealogy struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"not null"`
	Code        string    `gorm:"size:6;not null;uniqueIndex"`
	Avatar      string    `gorm:"not null;default:''"`
	Description string    `gorm:"not null;default:''"`
	CreatorID   int64     `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Genealogy) TableName() string {
	return "genealogies"
}

type Member struct {
	ID           int64      `gorm:"primaryKey"`
	FamilyID     int64      `gorm:"not null;index"`
	LinkedUserID *int64     `gorm:"index"`
	Name         string     `gorm:"not null"`
	Gender       Gender     `gorm:"type:varchar(8);not null"`
	Avatar       string     `gorm:"not null;default:''"`
	BirthDate    *time.Time `gorm:"type:date"`
	Bio          string     `gorm:"not null;default:''"`
	IsCreator    bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (Member) TableName() string {
	return "members"
}

type Edge struct {
	ID           int64        `gorm:"primaryKey"`
	FamilyID     int64        `gorm:"not null;index"`
	FromMemberID int64        `gorm:"not null"`
	ToMemberID   int64        `gorm:"not null"`
	Type         RelationType `gorm:"column:relation_type;type:varchar(16);not null"`
	CreatedAt    time.Time    `gorm:"autoCreateTime"`
}

func (Edge) TableName() string {
	return "member_relations"
}

// Snapshot is everything the tree builder needs for one family.
type Snapshot struct {
	Members []Member
	Edges   []Edge
}

type CreateInput struct {
	CreatorID   int64
	CreatorName string
	Name        string
	Avatar      string
	Description string
}

type AddMemberInput struct {
	FamilyID     int64
	LinkedUserID *int64
	Name         string
	Gender       string
	Avatar       string
	BirthDate    *time.Time
	Bio          string
	ParentID     *int64
	SpouseID     *int64
}

type EdgeInput struct {
	FamilyID     int64
	FromMemberID int64
	ToMemberID   int64
	Type         string
}

type UpdateInput struct {
	ID          int64
	Name        *string
	Avatar      *string
	Description *string
}

// UpdateMemberInput carries the fields an admin changes directly. Nil
// fields are left as they are.
type UpdateMemberInput struct {
	FamilyID  int64
	MemberID  int64
	Name      *string
	Gender    *string
	Avatar    *string
	BirthDate *time.Time
	Bio       *string
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type MemberFilter struct {
	FamilyID *int64
	Name     string
	Page     int
	Size     int
}

type GenealogyPage struct {
	Items []Genealogy
	Page  int
	Size  int
	Total int64
}

type MemberPage struct {
	Items []Member
	Page  int
	Size  int
	Total int64
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
