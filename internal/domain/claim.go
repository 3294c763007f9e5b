package domain

import (
	"time"

	"gorm.io/datatypes"
)

// InvoiceSent is the invoice_sent value of a claim whose invoice went out.
const InvoiceSent = "Sent"

// Claim is the case-file header. Form records and documents reference it by
// ClaimID only; there is no foreign key, so rows of a hard-deleted claim are
// left in place.
type Claim struct {
	ClaimID             string     `json:"claim_id"              gorm:"type:varchar(64);primaryKey"`
	ClaimantName        string     `json:"claimant_name"         gorm:"type:varchar(255);not null"`
	ClaimType           string     `json:"claim_type"            gorm:"type:varchar(64);not null"`
	Council             string     `json:"council"               gorm:"type:varchar(255);not null;default:''"`
	RecentlyDeleted     bool       `json:"recently_deleted"      gorm:"not null;default:false;index:idx_claims_deleted,priority:1"`
	RecentlyDeletedDate *time.Time `json:"recently_deleted_date" gorm:"index:idx_claims_deleted,priority:2"`
	InvoiceSent         string     `json:"invoice_sent"          gorm:"type:varchar(16);not null;default:''"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TableName implements the GORM tabler interface.
func (Claim) TableName() string { return "claims" }

// ClaimDocuments is the free-form document bag of a claim, a JSON object
// mapping document names to arbitrary values.
type ClaimDocuments struct {
	ID        uint           `json:"-"         gorm:"primaryKey"`
	ClaimID   string         `json:"claim_id"  gorm:"type:varchar(64);not null;uniqueIndex"`
	Documents datatypes.JSON `json:"documents"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
}

// TableName implements the GORM tabler interface.
func (ClaimDocuments) TableName() string { return "claim_documents" }
