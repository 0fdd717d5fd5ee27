package Models

import (
	"time"

	"gorm.io/gorm"
)

// Labour / parts workflow statuses
const (
	WorkStatusPending    = "pending"
	WorkStatusInProgress = "in_progress"
	WorkStatusComplete   = "complete"
)

// Quote statuses
const (
	QuoteStatusPending = "pending"
	QuoteStatusReady   = "ready"
)

// Customer outcome statuses
const (
	OutcomeIncomplete = "incomplete"
	OutcomeReady      = "ready"
	OutcomeAuthorised = "authorised"
	OutcomeDeferred   = "deferred"
	OutcomeDeclined   = "declined"
	OutcomeDeleted    = "deleted"
)

// Outcome sources
const (
	OutcomeSourceManual = "manual"
	OutcomeSourceOnline = "online"
)

// RepairItem is one finding turned into priced work, or a composite group of
// such items. Groups never hold check-result links or loose pricing; their
// children carry the findings and their options carry the pricing.
type RepairItem struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	HealthCheckID  uint   `json:"healthCheckId" gorm:"not null;index"`
	OrganizationID uint   `json:"organizationId" gorm:"not null;index"`
	Title          string `json:"title" gorm:"size:500;not null"`
	Description    string `json:"description" gorm:"type:text"`

	IsGroup            bool  `json:"isGroup" gorm:"not null;default:false"`
	ParentRepairItemID *uint `json:"parentRepairItemId" gorm:"index"`
	SelectedOptionID   *uint `json:"selectedOptionId"`

	PriceOverride *float64 `json:"priceOverride"`
	LabourTotal   float64  `json:"labourTotal"`
	PartsTotal    float64  `json:"partsTotal"`
	Subtotal      float64  `json:"subtotal"`
	VatAmount     float64  `json:"vatAmount"`
	TotalIncVat   float64  `json:"totalIncVat"`

	LabourStatus string `json:"labourStatus" gorm:"size:20;not null;default:pending"`
	PartsStatus  string `json:"partsStatus" gorm:"size:20;not null;default:pending"`
	QuoteStatus  string `json:"quoteStatus" gorm:"size:20;not null;default:pending"`

	LabourCompletedBy *uint      `json:"labourCompletedBy"`
	LabourCompletedAt *time.Time `json:"labourCompletedAt"`
	PartsCompletedBy  *uint      `json:"partsCompletedBy"`
	PartsCompletedAt  *time.Time `json:"partsCompletedAt"`

	NoLabourRequired   bool       `json:"noLabourRequired" gorm:"not null;default:false"`
	NoLabourRequiredBy *uint      `json:"noLabourRequiredBy"`
	NoLabourRequiredAt *time.Time `json:"noLabourRequiredAt"`
	NoPartsRequired    bool       `json:"noPartsRequired" gorm:"not null;default:false"`
	NoPartsRequiredBy  *uint      `json:"noPartsRequiredBy"`
	NoPartsRequiredAt  *time.Time `json:"noPartsRequiredAt"`

	// OutcomeStatus is nil for rows written before the outcome enum existed;
	// EffectiveOutcome falls back to the legacy IsApproved flag for those.
	OutcomeStatus *string    `json:"outcomeStatus" gorm:"size:20;index"`
	IsApproved    *bool      `json:"isApproved"`
	OutcomeBy     *uint      `json:"outcomeBy"`
	OutcomeAt     *time.Time `json:"outcomeAt"`
	OutcomeSource string     `json:"outcomeSource" gorm:"size:20"`

	DeferredUntil *time.Time `json:"deferredUntil"`
	DeferredNotes string     `json:"deferredNotes" gorm:"type:text"`

	DeclinedReasonID *uint  `json:"declinedReasonId"`
	DeclinedNotes    string `json:"declinedNotes" gorm:"type:text"`

	DeletedReasonID *uint  `json:"deletedReasonId"`
	DeletedNotes    string `json:"deletedNotes" gorm:"type:text"`

	WorkCompletedAt    *time.Time `json:"workCompletedAt"`
	CustomerApprovedAt *time.Time `json:"customerApprovedAt"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`

	Children []RepairItem   `json:"children,omitempty" gorm:"foreignKey:ParentRepairItemID"`
	Options  []RepairOption `json:"options,omitempty" gorm:"foreignKey:RepairItemID"`
	Labour   []RepairLabour `json:"labour,omitempty" gorm:"foreignKey:RepairItemID"`
	Parts    []RepairParts  `json:"parts,omitempty" gorm:"foreignKey:RepairItemID"`
}

// RepairOption is one alternative priced configuration for a repair item.
type RepairOption struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	RepairItemID  uint           `json:"repairItemId" gorm:"not null;index"`
	Name          string         `json:"name" gorm:"size:255;not null"`
	Description   string         `json:"description" gorm:"type:text"`
	LabourTotal   float64        `json:"labourTotal"`
	PartsTotal    float64        `json:"partsTotal"`
	Subtotal      float64        `json:"subtotal"`
	VatAmount     float64        `json:"vatAmount"`
	TotalIncVat   float64        `json:"totalIncVat"`
	IsRecommended bool           `json:"isRecommended" gorm:"not null;default:false"`
	SortOrder     int            `json:"sortOrder" gorm:"not null;default:0"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Labour []RepairLabour `json:"labour,omitempty" gorm:"foreignKey:RepairOptionID"`
	Parts  []RepairParts  `json:"parts,omitempty" gorm:"foreignKey:RepairOptionID"`
}

// RepairLabour belongs to exactly one of a repair item or a repair option.
type RepairLabour struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	RepairItemID    *uint          `json:"repairItemId" gorm:"index"`
	RepairOptionID  *uint          `json:"repairOptionId" gorm:"index"`
	LabourCodeID    uint           `json:"labourCodeId" gorm:"not null"`
	Hours           float64        `json:"hours" gorm:"not null"`
	Rate            float64        `json:"rate" gorm:"not null"`
	DiscountPercent float64        `json:"discountPercent" gorm:"not null;default:0"`
	Total           float64        `json:"total" gorm:"not null"`
	IsVatExempt     bool           `json:"isVatExempt" gorm:"not null;default:false"`
	Notes           string         `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// RepairParts belongs to exactly one of a repair item or a repair option.
type RepairParts struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	RepairItemID   *uint          `json:"repairItemId" gorm:"index"`
	RepairOptionID *uint          `json:"repairOptionId" gorm:"index"`
	PartNumber     string         `json:"partNumber" gorm:"size:100"`
	Description    string         `json:"description" gorm:"size:500;not null"`
	Quantity       float64        `json:"quantity" gorm:"not null;default:1"`
	SupplierName   string         `json:"supplierName" gorm:"size:255"`
	CostPrice      float64        `json:"costPrice" gorm:"not null"`
	SellPrice      float64        `json:"sellPrice" gorm:"not null"`
	LineTotal      float64        `json:"lineTotal" gorm:"not null"`
	MarginPercent  float64        `json:"marginPercent"`
	MarkupPercent  float64        `json:"markupPercent"`
	Notes          string         `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// RepairItemCheckResult links a finding to the repair item that owns it. A
// child inside a group owns the link, never the group.
type RepairItemCheckResult struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	RepairItemID  uint      `json:"repairItemId" gorm:"not null;index;uniqueIndex:idx_repair_item_check_result"`
	CheckResultID uint      `json:"checkResultId" gorm:"not null;index;uniqueIndex:idx_repair_item_check_result"`
	CreatedAt     time.Time `json:"createdAt"`
}

type RepairItemRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	IsGroup        bool   `json:"isGroup"`
	CheckResultIDs []uint `json:"checkResultIds"`
}

type RepairItemPatchRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	PriceOverride *float64 `json:"priceOverride"`
	ClearOverride bool     `json:"clearOverride"`
}

type RepairOptionRequest struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	IsRecommended bool   `json:"isRecommended"`
	SortOrder     int    `json:"sortOrder"`
}

type RepairLabourRequest struct {
	LabourCodeID    uint    `json:"labourCodeId" validate:"required"`
	Hours           float64 `json:"hours" validate:"gt=0"`
	DiscountPercent float64 `json:"discountPercent" validate:"gte=0,lte=100"`
	Notes           string  `json:"notes"`
}

type RepairPartsRequest struct {
	PartNumber   string   `json:"partNumber"`
	Description  string   `json:"description" validate:"required"`
	Quantity     float64  `json:"quantity" validate:"gt=0"`
	SupplierName string   `json:"supplierName"`
	CostPrice    *float64 `json:"costPrice" validate:"required"`
	SellPrice    *float64 `json:"sellPrice" validate:"required"`
	Notes        string   `json:"notes"`
}
