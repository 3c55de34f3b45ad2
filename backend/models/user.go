package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string    `gorm:"not null"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null" json:"-"` // bcrypt hash
	Profiles []Profile `gorm:"many2many:user_profiles"`
}

// Profile is an authority granted to a user, e.g. ROLE_ALUNO.
type Profile struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}
