package domain

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	IsActive    bool      `json:"is_active"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

type Review struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	ApplianceID string    `json:"appliance_id"`
	ProviderID  string    `json:"provider_id"`
	RentalID    string    `json:"rental_id"`
	Rating      int32     `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedOn   time.Time `json:"created_on"`
}

type CartItem struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	ApplianceID string     `json:"appliance_id"`
	Appliance   *Appliance `json:"appliance,omitempty"`
	AddedAt     time.Time  `json:"added_at"`
}

type CategoryCount struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Rentals    int32  `json:"rentals"`
}

// PlatformStats feeds the admin dashboard.
type PlatformStats struct {
	Users             int32           `json:"users"`
	Providers         int32           `json:"providers"`
	Appliances        int32           `json:"appliances"`
	Rentals           int32           `json:"rentals"`
	ActiveRentals     int32           `json:"active_rentals"`
	Revenue           int64           `json:"revenue"`
	RecentUsers       []User          `json:"recent_users"`
	RecentRentals     []Rental        `json:"recent_rentals"`
	PopularCategories []CategoryCount `json:"popular_categories"`
}
