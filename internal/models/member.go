package models

import "time"

type MemberStatus string

const (
	MemberActive    MemberStatus = "ACTIVE"
	MemberInactive  MemberStatus = "INACTIVE"
	MemberSuspended MemberStatus = "SUSPENDED"
)

type Member struct {
	ID        string       `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Phone     *string      `json:"phone,omitempty" db:"phone"`
	Email     *string      `json:"email,omitempty" db:"email"`
	Status    MemberStatus `json:"status" db:"status"`
	Notes     *string      `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time   `json:"deletedAt,omitempty" db:"deleted_at"`
}

type Category struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}
