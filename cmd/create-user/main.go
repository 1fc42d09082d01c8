package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"office_records_go/config"
	"office_records_go/db"
	"office_records_go/models"
	"office_records_go/services"
)

func main() {
	name := flag.String("name", "", "user name")
	email := flag.String("email", "", "user email (unique)")
	password := flag.String("password", "", "user password (min 8 characters)")
	role := flag.String("role", models.RoleViewer, "role: ADMIN, SUPERVISOR, OPERATOR or VIEWER")
	offices := flag.String("offices", "", "comma-separated office names to assign (ignored for ADMIN)")
	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		log.Fatal("name, email and password are required")
	}
	if len(*password) < 8 {
		log.Fatal("Password must be at least 8 characters long")
	}
	if !models.IsValidRole(*role) {
		log.Fatalf("Invalid role %q. Must be one of: ADMIN, SUPERVISOR, OPERATOR, VIEWER", *role)
	}

	cfg := config.Load()

	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.Office{}, &models.User{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Check if user already exists
	var existingUser models.User
	if err := db.DB.Where("email = ?", *email).First(&existingUser).Error; err == nil {
		log.Fatalf("User with email %s already exists", *email)
	}

	hashedPassword, err := services.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     *name,
		Email:    *email,
		Password: hashedPassword,
		Role:     *role,
		IsActive: true,
	}

	// Assign offices, registering any that have never been seen
	for _, officeName := range strings.Split(*offices, ",") {
		if strings.TrimSpace(officeName) == "" {
			continue
		}
		office, err := services.EnsureOffice(db.DB, officeName)
		if err != nil {
			log.Fatalf("Failed to ensure office %q: %v", officeName, err)
		}
		user.Offices = append(user.Offices, *office)
	}

	if err := db.DB.Create(user).Error; err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Println("User created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Role: %s\n", user.Role)
	if len(user.Offices) > 0 {
		keys := make([]string, len(user.Offices))
		for i, o := range user.Offices {
			keys[i] = o.Key
		}
		fmt.Printf("  Offices: %s\n", strings.Join(keys, ", "))
	}
}
