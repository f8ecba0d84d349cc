package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin           = "ADMIN"
	RoleBarbershopAdmin = "ADMIN_BARBEARIA"
	RoleBarber          = "BARBEIRO"
	RoleCustomer        = "CLIENTE"
	RoleSupplier        = "FORNECEDOR"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	BarbershopID uint       `gorm:"index" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`

	// Roles is a comma separated list of role tags.
	Roles  string `gorm:"size:100;default:'ADMIN_BARBEARIA'" json:"-"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) RoleList() []string {
	var out []string
	for _, r := range strings.Split(u.Roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func (u User) HasRole(role string) bool {
	for _, r := range u.RoleList() {
		if r == role {
			return true
		}
	}
	return false
}

func JoinRoles(roles ...string) string {
	return strings.Join(roles, ",")
}
