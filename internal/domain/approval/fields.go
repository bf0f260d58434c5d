package approval

import (
	"strings"
	"time"

	"genealogy-app-go/internal/domain/errs"
	"genealogy-app-go/internal/domain/genealogy"
)

type FieldName string

const (
	FieldMemberName FieldName = "name"
	FieldAvatar     FieldName = "avatar"
	FieldBio        FieldName = "bio"
	FieldBirthDate  FieldName = "birthDate"
)

const birthDateLayout = "2006-01-02"

type fieldSpec struct {
	get      func(m *genealogy.Member) string
	set      func(m *genealogy.Member, value string) error
	validate func(value string) error
}

// editableFields is the closed set of member fields an edit request may touch.
var editableFields = map[FieldName]fieldSpec{
	FieldMemberName: {
		get: func(m *genealogy.Member) string { return m.Name },
		set: func(m *genealogy.Member, value string) error {
			m.Name = value
			return nil
		},
		validate: requireText,
	},
	FieldAvatar: {
		get: func(m *genealogy.Member) string { return m.Avatar },
		set: func(m *genealogy.Member, value string) error {
			m.Avatar = value
			return nil
		},
		validate: requireText,
	},
	FieldBio: {
		get: func(m *genealogy.Member) string { return m.Bio },
		set: func(m *genealogy.Member, value string) error {
			m.Bio = value
			return nil
		},
		validate: requireText,
	},
	FieldBirthDate: {
		get: func(m *genealogy.Member) string {
			if m.BirthDate == nil {
				return ""
			}
			return m.BirthDate.Format(birthDateLayout)
		},
		set: func(m *genealogy.Member, value string) error {
			date, err := parseBirthDate(value)
			if err != nil {
				return err
			}
			m.BirthDate = &date
			return nil
		},
		validate: func(value string) error {
			_, err := parseBirthDate(value)
			return err
		},
	},
}

func parseFieldName(value string) (FieldName, fieldSpec, bool) {
	name := FieldName(strings.TrimSpace(value))
	accessor, ok := editableFields[name]
	return name, accessor, ok
}

func requireText(value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.Invalid("new value is required")
	}
	return nil
}

func parseBirthDate(value string) (time.Time, error) {
	date, err := time.Parse(birthDateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errs.Invalid("birth date must be YYYY-MM-DD")
	}
	return date, nil
}
