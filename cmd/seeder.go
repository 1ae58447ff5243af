package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wofodev/meerkat/internal/auth"
	"github.com/wofodev/meerkat/internal/authz"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the admin group, admin user and stock pages",
	Long:  `Seed the directory with the admin group, an initial administrator and the built-in dashboard pages so the maintenance screens can be reached on a fresh install.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"access_control", "pages", "sections", "groups", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing directory data")
		}

		digester := auth.NewPasswordDigester(cfg.Security.PasswordPepper, cfg.Security.PasswordIterations)
		seedDirectory(db, digester)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}

func seedDirectory(db *gorm.DB, digester *auth.PasswordDigester) {
	adminGroupCode := "GRP_ADMIN"
	var exists int
	if err := db.Raw("SELECT 1 FROM groups WHERE group_code = ?", adminGroupCode).Row().Scan(&exists); err != nil {
		if err := db.Exec("INSERT INTO groups (group_code, group_name, created_at, updated_at) VALUES (?, ?, now(), now())",
			adminGroupCode, authz.AdminGroupName).Error; err != nil {
			log.Fatalf("failed to insert admin group: %v", err)
		}
		fmt.Println("Seeded admin group:", authz.AdminGroupName)
	}

	adminCode := "admin"
	if err := db.Raw("SELECT 1 FROM users WHERE user_code = ?", adminCode).Row().Scan(&exists); err != nil {
		digest := digester.Digest("changeme")
		if err := db.Exec("INSERT INTO users (user_code, user_name, password, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
			adminCode, "Administrator", digest).Error; err != nil {
			log.Fatalf("failed to insert admin user: %v", err)
		}
		fmt.Println("Seeded admin user:", adminCode)
	}

	sections := []struct {
		Code string
		Name string
	}{
		{"SEC_MAINT", "Maintenance"},
		{"SEC_SALES_RET", "Sales Returns"},
	}
	for _, s := range sections {
		if err := db.Raw("SELECT 1 FROM sections WHERE section_code = ?", s.Code).Row().Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO sections (section_code, section_name, created_at, updated_at) VALUES (?, ?, now(), now())",
			s.Code, s.Name).Error; err != nil {
			log.Fatalf("failed to insert section %s: %v", s.Code, err)
		}
	}

	pages := []struct {
		Ref  string
		Name string
	}{
		{"MAC_Users", "User Maintenance"},
		{"MAC_Groups", "Group Maintenance"},
		{"MAC_Sections", "Section Maintenance"},
		{"MAC_Pages", "Page Maintenance"},
		{"MAC_Grants", "Grant Maintenance"},
		{"R_S_ReturnsSummary", "Returns Summary"},
		{"R_S_ReturnsByCustomer", "Returns by Customer"},
		{"R_S_ReturnsByProduct", "Returns by Product"},
		{"R_S_ReturnsTrend", "Returns Trend"},
	}
	for _, p := range pages {
		if err := db.Raw("SELECT 1 FROM pages WHERE page_ref = ?", p.Ref).Row().Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO pages (page_ref, page_name, created_at, updated_at) VALUES (?, ?, now(), now())",
			p.Ref, p.Name).Error; err != nil {
			log.Fatalf("failed to insert page %s: %v", p.Ref, err)
		}
	}

	// The admin grant is inserted directly: service-level grant validation
	// requires an existing user-group link, which cannot exist before the
	// very first grant.
	if err := db.Raw("SELECT 1 FROM access_control WHERE user_code = ? AND group_code = ?",
		adminCode, adminGroupCode).Row().Scan(&exists); err != nil {
		if err := db.Exec("INSERT INTO access_control (user_code, group_code, section_code, page_ref, created_at) VALUES (?, ?, ?, ?, now())",
			adminCode, adminGroupCode, "SEC_MAINT", "MAC_Users").Error; err != nil {
			log.Fatalf("failed to insert admin grant: %v", err)
		}
		fmt.Println("Granted maintenance access to admin user")
	}

	fmt.Println("Seeding complete")
}
