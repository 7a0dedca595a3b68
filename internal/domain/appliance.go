package domain

import "time"

type ApplianceStatus string

const (
	ApplianceStatusAvailable   ApplianceStatus = "AVAILABLE"
	ApplianceStatusRented      ApplianceStatus = "RENTED"
	ApplianceStatusMaintenance ApplianceStatus = "MAINTENANCE"
)

// Pricing holds the tiered price table in minor currency units.
type Pricing struct {
	Daily   int64 `json:"daily"`
	Weekly  int64 `json:"weekly"`
	Monthly int64 `json:"monthly"`
	Deposit int64 `json:"deposit"`
}

func (p Pricing) Validate() error {
	if p.Daily < 0 || p.Weekly < 0 || p.Monthly < 0 || p.Deposit < 0 {
		return Validationf("pricing tiers must be non-negative")
	}
	return nil
}

type Specifications struct {
	Brand string            `json:"brand"`
	Model string            `json:"model"`
	Year  int32             `json:"year"`
	Extra map[string]string `json:"extra,omitempty"`
}

type Appliance struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	CategoryID     string          `json:"category_id"`
	Images         []string        `json:"images"`
	ProviderID     string          `json:"provider_id"`
	Specifications Specifications  `json:"specifications"`
	Pricing        Pricing         `json:"pricing"`
	Status         ApplianceStatus `json:"status"`
	Rating         float64         `json:"rating"`
	ReviewCount    int32           `json:"review_count"`
	CreatedOn      time.Time       `json:"created_on"`
	UpdatedOn      time.Time       `json:"updated_on"`
	DeletedOn      *time.Time      `json:"deleted_on,omitempty"`
}

func (a *Appliance) IsAvailable() bool {
	return a.Status == ApplianceStatusAvailable && a.DeletedOn == nil
}

// ProviderSummary is the provider data denormalised into listings.
type ProviderSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	BusinessName string  `json:"business_name"`
	IsVerified   bool    `json:"is_verified"`
	Rating       float64 `json:"rating"`
}

type ApplianceListing struct {
	Appliance
	Provider ProviderSummary `json:"provider"`
}

// ApplianceFilter drives the public listing query.
type ApplianceFilter struct {
	CategoryID string
	Search     string
	MinDaily   *int64
	MaxDaily   *int64
	Brands     []string
	Page       int32
	PageSize   int32
}
