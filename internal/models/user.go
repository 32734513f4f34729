package models

import "time"

// User is a reference to an account managed by the identity service.
// Only the public profile fields are serialized.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(150)"`
	FirstName string    `json:"first_name" gorm:"type:varchar(150)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(150)"`
	Email     string    `json:"-" gorm:"type:varchar(255)"`
	IsStaff   bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"-"`
}
