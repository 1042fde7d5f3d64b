// labadmin is the ops companion to the API server: bootstrap an admin
// account, change roles and seed the site content without going through
// the HTTP surface.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/accounts"
	"github.com/laboissim/laboissim/internal/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "labadmin",
		Short: "Administrative tasks for the laboissim backend",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err == nil {
				log.Println("Loaded .env")
			}
			return connect()
		},
	}

	rootCmd.AddCommand(createAdminCmd(), setRoleCmd(), seedContentCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func connect() error {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		if err := db.ConnectDatabase(dsn); err != nil {
			return err
		}
	} else if path := os.Getenv("SQLITE_PATH"); path != "" {
		if err := db.ConnectSQLite(path); err != nil {
			return err
		}
	} else {
		return fmt.Errorf("set DATABASE_URL or SQLITE_PATH")
	}

	return db.MigrateDatabase()
}

func createAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an account with the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := accounts.Create(db.DB, accounts.CreateParams{
				Username: username,
				Email:    email,
				Password: password,
				Role:     models.RoleAdmin,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created admin %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func setRoleCmd() *cobra.Command {
	var email, role string

	cmd := &cobra.Command{
		Use:   "set-role",
		Short: "Change the role of an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var user models.User
			if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("no account with email %s", email)
				}
				return err
			}

			if err := accounts.ChangeRole(db.DB, user.ID, role); err != nil {
				return err
			}

			fmt.Printf("Set role of %s to %s\n", user.Username, role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&role, "role", "", "member, admin or chef_d_equipe")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("role")

	return cmd
}

func seedContentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-content",
		Short: "Create the site content singleton with default copy",
		RunE: func(cmd *cobra.Command, args []string) error {
			var content models.SiteContent

			err := db.DB.First(&content, models.SiteContentID).Error
			if err == nil {
				fmt.Println("Site content already exists, nothing to do")
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			content = models.SiteContentDefaults()
			if err := db.DB.Create(&content).Error; err != nil {
				return err
			}

			fmt.Println("Seeded site content defaults")
			return nil
		},
	}
}
