package main

import (
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"staybook/internal/database"
	"staybook/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "staybook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM supplies")
	db.Exec("DELETE FROM settings")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM tenants")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@staybook.app",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		FirstName:    "Site",
		LastName:     "Admin",
		IsActive:     true,
	}
	db.Create(&admin)

	clientHash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
	client := domain.User{
		Email:        "guest@example.com",
		PasswordHash: string(clientHash),
		Role:         domain.RoleClient,
		FirstName:    "Grace",
		LastName:     "Hopper",
		IsActive:     true,
	}
	db.Create(&client)

	log.Println("Creating properties...")
	properties := []domain.Property{
		{
			Title:         "Harbourfront Loft",
			Description:   "Bright loft two blocks from the waterfront.",
			Location:      "Halifax, NS",
			Category:      "apartment",
			Guests:        4,
			Bedrooms:      2,
			Bathrooms:     1,
			PricePerNight: 145,
			Images:        []string{"/img/loft-1.jpg", "/img/loft-2.jpg"},
			Amenities:     []string{"wifi", "kitchen", "washer"},
			Featured:      true,
			IsActive:      true,
		},
		{
			Title:         "Cedar Lake Cabin",
			Description:   "Quiet cabin with a private dock.",
			Location:      "Muskoka, ON",
			Category:      "cabin",
			Guests:        6,
			Bedrooms:      3,
			Bathrooms:     2,
			PricePerNight: 230,
			Images:        []string{"/img/cabin-1.jpg"},
			Amenities:     []string{"wifi", "fireplace", "bbq", "kayaks"},
			IsActive:      true,
		},
	}
	for i := range properties {
		db.Create(&properties[i])
	}

	log.Println("Creating sample booking...")
	checkIn := time.Now().UTC().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	booking := domain.Booking{
		PropertyID: properties[0].ID,
		ClientID:   &client.ID,
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, 4),
		Guests:     2,
		TotalPrice: 580,
		Status:     domain.BookingConfirmed,
		Source:     domain.SourceDirect,
		GuestName:  "Grace Hopper",
		GuestEmail: "guest@example.com",
	}
	db.Create(&booking)

	log.Println("Creating settings...")
	settings := []domain.Setting{
		{Key: "stripe_enabled", Value: "true", Category: "payments", Description: "Show the card payment option"},
		{Key: "paypal_enabled", Value: "false", Category: "payments", Description: "Show the PayPal payment option"},
		{Key: "webpay_enabled", Value: "false", Category: "payments", Description: "Show the WebPay payment option"},
		{Key: "site_name", Value: "StayBook", Category: "general"},
	}
	for i := range settings {
		db.Create(&settings[i])
	}

	log.Println("Seed complete.")
	log.Printf("admin login: admin@staybook.app / admin123")
	log.Printf("client login: guest@example.com / client123")
}
