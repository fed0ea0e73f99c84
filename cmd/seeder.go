package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUsers := []struct {
			firstName string
			lastName  string
			email     string
			phone     string
			workplace string
			role      string
		}{
			{"Admin", "Korisnik", "admin@company.com", "123-456", "Glavna kancelarija", "admin"},
			{"Marko", "Radnik", "marko@company.com", "123-457", "Prodaja", "worker"},
			{"Ana", "Radnik", "ana@company.com", "123-458", "Marketing", "worker"},
		}

		for _, u := range seedUsers {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.email)
				continue
			}

			if err := db.Exec(
				"INSERT INTO users (first_name, last_name, email, phone, workplace, role, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, true, now(), now())",
				u.firstName, u.lastName, u.email, u.phone, u.workplace, u.role, string(hash),
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.email, err)
			}
			fmt.Println("Seeded user:", u.email)
		}
	},
}
