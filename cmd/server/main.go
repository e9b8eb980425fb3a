// Compliance Pro - compliance management platform
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aethra/compliancepro/internal/api"
	"github.com/aethra/compliancepro/internal/auth"
	"github.com/aethra/compliancepro/internal/config"
	"github.com/aethra/compliancepro/internal/database"
	"github.com/aethra/compliancepro/internal/models"
	"gorm.io/gorm"
)

var Version = "1.0.0"

func main() {
	if len(os.Args) > 1 {
		runCLI()
		return
	}
	startServer()
}

func startServer() {
	fmt.Printf("Compliance Pro %s - Starting...\n", Version)

	cfg := config.Load()
	db := connectDB(cfg)
	log.Println("Database connected")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations complete")

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret)
	handler := api.NewHandler(db, tokens, cfg.Server.UploadDir)
	router := api.SetupRouter(handler, cfg)

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func connectDB(cfg *config.Config) *gorm.DB {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	return db
}

// CLI
func runCLI() {
	switch os.Args[1] {
	case "serve":
		startServer()
	case "migrate":
		db := connectDB(config.Load())
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("Migrations complete")
	case "seed":
		runSeed()
	case "user":
		runUserCmd()
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println(`Usage: compliancepro <command>
Commands:
  serve                                    Start server
  migrate                                  Run migrations
  seed                                     Seed default admin and project types
  user create --email= --password= --name= --role=  Create user
  user reset-password --email= --password=          Reset a user's password`)
}

// runSeed creates the default super admin and the engagement catalog. Safe to
// run repeatedly.
func runSeed() {
	db := connectDB(config.Load())
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("role = ?", string(auth.RoleSuperAdmin)).Count(&count)
	if count == 0 {
		password := os.Getenv("SEED_ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
			fmt.Println("SEED_ADMIN_PASSWORD not set, using default (change it immediately)")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalf("Failed: %v", err)
		}
		admin := models.User{
			Email:        "admin@compliancepro.com",
			PasswordHash: hash,
			Name:         "Super Admin",
			Role:         string(auth.RoleSuperAdmin),
			IsActive:     true,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("Failed: %v", err)
		}
		fmt.Printf("Super admin created: %s\n", admin.Email)
	}

	defaults := []models.ProjectType{
		{Name: "PCI DSS Compliance", Code: "PCIDSS", Category: "compliance", IsAuditable: true},
		{Name: "External Penetration Testing", Code: "EPT", Category: "testing", IsAuditable: false},
		{Name: "Internal Vulnerability Assessment", Code: "IVA", Category: "testing", IsAuditable: false},
		{Name: "Application Security Assessment", Code: "ASA", Category: "testing", IsAuditable: false},
		{Name: "Security Process Testing", Code: "SPT", Category: "testing", IsAuditable: false},
	}
	for _, pt := range defaults {
		var existing models.ProjectType
		if db.Where("code = ?", pt.Code).First(&existing).Error == nil {
			continue
		}
		if err := db.Create(&pt).Error; err != nil {
			log.Fatalf("Failed: %v", err)
		}
		fmt.Printf("Project type created: %s\n", pt.Code)
	}
	fmt.Println("Seed complete")
}

func runUserCmd() {
	if len(os.Args) < 3 {
		printUsage()
		return
	}
	db := connectDB(config.Load())

	switch os.Args[2] {
	case "create":
		email := getFlag("--email")
		password := getFlag("--password")
		name := getFlag("--name")
		role := getFlag("--role")
		if email == "" || password == "" || name == "" {
			printUsage()
			return
		}
		if role == "" {
			role = string(auth.RoleClientAdmin)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalf("Failed: %v", err)
		}
		user := models.User{
			Email:        email,
			PasswordHash: hash,
			Name:         name,
			Role:         role,
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed: %v", err)
		}
		fmt.Printf("User created: %s\n", email)
	case "reset-password":
		email := getFlag("--email")
		password := getFlag("--password")
		if email == "" || password == "" {
			printUsage()
			return
		}
		var user models.User
		if db.Where("email = ?", email).First(&user).Error != nil {
			log.Fatal("User not found")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalf("Failed: %v", err)
		}
		if err := db.Model(&user).Update("password", hash).Error; err != nil {
			log.Fatalf("Failed: %v", err)
		}
		fmt.Printf("Password reset for %s\n", email)
	default:
		printUsage()
	}
}

func getFlag(name string) string {
	prefix := name + "="
	for _, arg := range os.Args {
		if len(arg) > len(prefix) && arg[:len(prefix)] == prefix {
			return arg[len(prefix):]
		}
	}
	return ""
}
