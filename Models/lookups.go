package Models

import (
	"time"

	"gorm.io/gorm"
)

// LabourCode holds the workshop's labour rates. Rate and VAT exemption are
// copied onto labour lines at insert time so later rate changes do not
// rewrite history.
type LabourCode struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	OrganizationID uint           `json:"organizationId" gorm:"not null;index"`
	Code           string         `json:"code" gorm:"size:50;not null"`
	Description    string         `json:"description" gorm:"size:500"`
	Rate           float64        `json:"rate" gorm:"not null"`
	IsVatExempt    bool           `json:"isVatExempt" gorm:"not null;default:false"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// DeclineReason is the lookup used by both decline and delete outcomes.
type DeclineReason struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	OrganizationID uint           `json:"organizationId" gorm:"not null;index"`
	Name           string         `json:"name" gorm:"size:255;not null"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

type LabourCodeRequest struct {
	Code        string  `json:"code" validate:"required"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate" validate:"gte=0"`
	IsVatExempt bool    `json:"isVatExempt"`
}

type DeclineReasonRequest struct {
	Name string `json:"name" validate:"required"`
}
