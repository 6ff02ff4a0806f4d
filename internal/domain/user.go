package domain

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCleaner Role = "cleaner"
	RoleClient  Role = "client"
	RoleOwner   Role = "owner"
)

// Action is a capability gated by role. Handlers go through Role.Allows
// instead of comparing role strings inline.
type Action string

const (
	ActionManageProperties Action = "manage_properties"
	ActionManageUsers      Action = "manage_users"
	ActionManageSettings   Action = "manage_settings"
	ActionManageSupplies   Action = "manage_supplies"
	ActionManageTenants    Action = "manage_tenants"
	ActionRefundPayments   Action = "refund_payments"
	ActionViewAllBookings  Action = "view_all_bookings"
	ActionViewStats        Action = "view_stats"
	ActionViewAdminFeed    Action = "view_admin_feed"
)

var rolePolicy = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionManageProperties: true,
		ActionManageUsers:      true,
		ActionManageSettings:   true,
		ActionManageSupplies:   true,
		ActionManageTenants:    true,
		ActionRefundPayments:   true,
		ActionViewAllBookings:  true,
		ActionViewStats:        true,
		ActionViewAdminFeed:    true,
	},
	RoleOwner: {
		ActionViewAllBookings: true,
	},
	RoleCleaner: {
		ActionViewAllBookings: true,
		ActionManageSupplies:  true,
	},
	RoleClient: {},
}

func (r Role) Allows(a Action) bool {
	perms, ok := rolePolicy[r]
	if !ok {
		return false
	}
	return perms[a]
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCleaner, RoleClient, RoleOwner:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;not null"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role" gorm:"type:varchar(20);default:'client'"`
	Avatar       string    `json:"avatar,omitempty"`
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }
