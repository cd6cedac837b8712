package main

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"parkshare/internal/database"
	"parkshare/internal/domain"
	"parkshare/internal/modules/wallet"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "parkshare.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM wallet_transactions")
	db.Exec("DELETE FROM wallets")
	db.Exec("DELETE FROM ledger_events")
	db.Exec("DELETE FROM rental_agreements")
	db.Exec("DELETE FROM parking_spaces")
	db.Exec("DELETE FROM users")

	hash := func(pw string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		return string(h)
	}

	users := []domain.User{
		{Email: "olga.owner@example.com", PasswordHash: hash("password123"), Name: "Olga Owner"},
		{Email: "rita.renter@example.com", PasswordHash: hash("password123"), Name: "Rita Renter"},
		{Email: "dan.driver@example.com", PasswordHash: hash("password123"), Name: "Dan Driver"},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatal("seed user:", err)
		}
	}

	spaces := []domain.ParkingSpace{
		{OwnerID: users[0].ID, Location: "Abay Ave 12, underground lot, slot B4", PricePerHour: 400, IsAvailable: true},
		{OwnerID: users[0].ID, Location: "Dostyk Plaza rooftop, slot R11", PricePerHour: 600, IsAvailable: true},
		{OwnerID: users[2].ID, Location: "Main St 5, driveway", PricePerHour: 250, IsAvailable: true},
	}
	for i := range spaces {
		if err := db.Create(&spaces[i]).Error; err != nil {
			log.Fatal("seed space:", err)
		}
	}

	for _, u := range users[1:] {
		w := wallet.Wallet{UserID: u.ID, Balance: 10000}
		if err := db.Create(&w).Error; err != nil {
			log.Fatal("seed wallet:", err)
		}
	}

	log.Printf("Seeded %d users, %d spaces", len(users), len(spaces))
}
