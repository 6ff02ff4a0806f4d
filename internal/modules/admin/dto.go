package admin

import "time"

type CreateUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Phone     string `json:"phone"`
	Role      string `json:"role" binding:"required"`
}

type UpdateSettingRequest struct {
	Value     string `json:"value" binding:"required"`
	Encrypted bool   `json:"encrypted"`
}

type CreateSupplyRequest struct {
	PropertyID   int64      `json:"propertyId" binding:"required"`
	Name         string     `json:"name" binding:"required"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	UnitCost     float64    `json:"unitCost"`
	Quantity     int        `json:"quantity"`
	Unit         string     `json:"unit"`
	Supplier     string     `json:"supplier"`
	PurchaseDate *time.Time `json:"purchaseDate"`
	IsRecurring  bool       `json:"isRecurring"`
	Frequency    string     `json:"frequency"`
}

type StatsResponse struct {
	ActiveProperties int64   `json:"activeProperties"`
	TotalBookings    int64   `json:"totalBookings"`
	TotalRevenue     float64 `json:"totalRevenue"`
}
