package booking

type CreateBookingRequest struct {
	PropertyID      int64   `json:"propertyId" binding:"required"`
	CheckIn         string  `json:"checkIn" binding:"required"`
	CheckOut        string  `json:"checkOut" binding:"required"`
	Guests          int     `json:"guests"`
	TotalPrice      float64 `json:"totalPrice"`
	GuestName       string  `json:"guestName"`
	GuestEmail      string  `json:"guestEmail"`
	GuestPhone      string  `json:"guestPhone"`
	SpecialRequests string  `json:"specialRequests"`
}

type AvailabilityRequest struct {
	PropertyID int64  `form:"propertyId" binding:"required"`
	CheckIn    string `form:"checkIn" binding:"required"`
	CheckOut   string `form:"checkOut" binding:"required"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
