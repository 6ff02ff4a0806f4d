package catalog

type CreatePropertyRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	Address       string   `json:"address"`
	Category      string   `json:"category"`
	Guests        int      `json:"guests"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	PricePerNight float64  `json:"pricePerNight" binding:"required,gt=0"`
	Images        []string `json:"images"`
	Amenities     []string `json:"amenities"`
	Featured      bool     `json:"featured"`
	OwnerID       *int64   `json:"ownerId"`
}

type UpdatePropertyRequest struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Location      *string   `json:"location"`
	Address       *string   `json:"address"`
	Category      *string   `json:"category"`
	Guests        *int      `json:"guests"`
	Bedrooms      *int      `json:"bedrooms"`
	Bathrooms     *int      `json:"bathrooms"`
	PricePerNight *float64  `json:"pricePerNight"`
	Images        *[]string `json:"images"`
	Amenities     *[]string `json:"amenities"`
	Featured      *bool     `json:"featured"`
	IsActive      *bool     `json:"isActive"`
	OwnerID       *int64    `json:"ownerId"`
}
