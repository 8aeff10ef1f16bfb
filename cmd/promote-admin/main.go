package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/nemanja/arhiva-api/internal/config"
	"github.com/nemanja/arhiva-api/internal/database"
	"github.com/nemanja/arhiva-api/internal/models"
)

// Login reconciliation never assigns the admin role; this is the only
// way a user becomes an admin.
func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: promote-admin <identity-key>")
		os.Exit(1)
	}

	identityKey := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	result, err := db.Pool.Exec(ctx, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE identity_key = $2
	`, string(models.RoleAdmin), identityKey)
	if err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	if result.RowsAffected() == 0 {
		log.Fatalf("No user found with identity key: %s", identityKey)
	}

	fmt.Printf("Successfully promoted %s to admin\n", identityKey)
}
