package Models

import (
	"time"

	"gorm.io/gorm"
)

// RAG severity values for inspection findings
const (
	RagRed   = "red"
	RagAmber = "amber"
	RagGreen = "green"
)

type HealthCheck struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	OrganizationID uint           `json:"organizationId" gorm:"not null;index"`
	VehicleReg     string         `json:"vehicleReg" gorm:"size:20;not null;index"`
	CustomerName   string         `json:"customerName" gorm:"size:255"`
	Mileage        int64          `json:"mileage"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	CheckResults []CheckResult `json:"checkResults,omitempty" gorm:"foreignKey:HealthCheckID"`
}

// CheckResult is a single inspection finding. Findings are produced by the
// inspection flow and consumed here when building repair items.
type CheckResult struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	HealthCheckID  uint           `json:"healthCheckId" gorm:"not null;index"`
	OrganizationID uint           `json:"organizationId" gorm:"not null;index"`
	Name           string         `json:"name" gorm:"size:500;not null"`
	RAGStatus      string         `json:"ragStatus" gorm:"size:10;not null;index"`
	Notes          string         `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

type HealthCheckRequest struct {
	VehicleReg   string `json:"vehicleReg" validate:"required"`
	CustomerName string `json:"customerName"`
	Mileage      int64  `json:"mileage"`
}

type CheckResultRequest struct {
	Name      string `json:"name" validate:"required"`
	RAGStatus string `json:"ragStatus" validate:"required,oneof=red amber green"`
	Notes     string `json:"notes"`
}
