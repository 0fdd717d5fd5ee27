package Models

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type User struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"size:255;not null"`
	Email          string         `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Password       []byte         `json:"-" gorm:"not null"`
	Permission     int            `json:"permission" gorm:"not null;default:1"`
	OrganizationID uint           `json:"organizationId" gorm:"not null;index"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	Organization Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}
