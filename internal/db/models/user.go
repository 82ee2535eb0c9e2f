package models

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type UserRole string

const (
	UserRoleApplicant     UserRole = "applicant"
	UserRoleReviewer      UserRole = "reviewer"
	UserRoleAdministrator UserRole = "administrator"
	UserRoleSponsor       UserRole = "sponsor"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) CapitalizedString() string {
	return cases.Title(language.English).String(r.String())
}

type User struct {
	tableName struct{} `pg:"users"`

	ID               int64    `json:"id" pg:",pk"`
	Name             string   `json:"name" pg:",notnull"`
	Email            string   `json:"email" pg:",unique"`
	TelegramID       int64    `json:"telegram_id"`
	TelegramNickname string   `json:"telegram_nickname"`
	Role             UserRole `json:"role" pg:",notnull,default:'applicant'"`
	IsActive         bool     `json:"is_active" pg:",notnull,use_zero"`
}

func (u *User) IsActiveReviewer() bool {
	return u.IsActive && u.Role == UserRoleReviewer
}

func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.TelegramNickname != "" {
		return "@" + u.TelegramNickname
	}
	return u.Email
}
