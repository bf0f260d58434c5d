package user

import (
	"strings"
	"time"
)

type GlobalRole string

const (
	RoleSuperAdmin     GlobalRole = "SUPER_ADMIN"
	RoleGenealogyAdmin GlobalRole = "GENEALOGY_ADMIN"
	RoleNormalUser     GlobalRole = "NORMAL_USER"
)

type User struct {
	ID         int64      `gorm:"primaryKey;autoIncrement:false"`
	Nickname   string     `gorm:"not null;default:''"`
	Avatar     string     `gorm:"not null;default:''"`
	GlobalRole GlobalRole `gorm:"type:varchar(20);not null;default:NORMAL_USER"`
	Disabled   bool       `gorm:"not null;default:false"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u User) IsSuperAdmin() bool {
	return u.GlobalRole == RoleSuperAdmin
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ListFilter struct {
	Nickname   string
	GlobalRole string
	Page       int
	Size       int
}

// ListQuery is a validated ListFilter as the store sees it.
type ListQuery struct {
	Nickname   string
	GlobalRole GlobalRole
	Limit      int
	Offset     int
}

type Page struct {
	Items []User
	Page  int
	Size  int
	Total int64
}

func ParseGlobalRole(value string) (GlobalRole, bool) {
	switch r := GlobalRole(strings.ToUpper(strings.TrimSpace(value))); r {
	case RoleSuperAdmin, RoleGenealogyAdmin, RoleNormalUser:
		return r, true
	default:
		return "", false
	}
}
