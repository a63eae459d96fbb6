package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-billing/models"
	"hotel-billing/money"
	"hotel-billing/utils"
)

// Connect opens the database selected by cfg.DBDriver ("mysql" or "postgres"),
// migrates the schema and seeds reference data.
func Connect(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql", "":
		dsn, err := resolveMySQLDSN()
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(resolvePostgresDSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		log.Printf("info: cannot get raw sql.DB: %v", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	Seed(db, cfg.DefaultGSTRate)
	return db, nil
}

// Migrate creates or updates every table, parents before children.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.HotelSetting{},
		&models.Role{},
		&models.RolePermission{},
		&models.Staff{},
		&models.RoomType{},
		&models.Room{},
		&models.Booking{},
		&models.FoodItem{},
		&models.FoodOrder{},
		&models.Invoice{},
		&models.Payment{},
	)
}

// Seed inserts roles, the owner account, room types, a starter menu and the
// hotel profile on an empty database. Existing rows are left alone.
func Seed(db *gorm.DB, defaultRate money.Rate) {
	// ---------------- Roles ----------------
	desiredRoles := []models.Role{
		{Name: models.RoleOwner, Description: "System owner with full access"},
		{Name: models.RoleManager, Description: "Manager with elevated access"},
		{Name: models.RoleReceptionist, Description: "Front desk operations and billing"},
		{Name: models.RoleChef, Description: "Kitchen orders and menu"},
	}

	rolesByKey := map[string]models.Role{}
	for i := range desiredRoles {
		role := desiredRoles[i]
		key := strings.ToLower(role.Name)

		var existing models.Role
		err := db.Where("LOWER(name) = ?", key).First(&existing).Error
		if err == nil && existing.ID != 0 {
			rolesByKey[key] = existing
			continue
		}
		if err := db.Omit("Permissions", "Members").Create(&role).Error; err != nil {
			log.Printf("warning: failed to create role %s: %v", role.Name, err)
			continue
		}
		rolesByKey[key] = role
	}

	for key, role := range rolesByKey {
		var permCount int64
		db.Model(&models.RolePermission{}).Where("role_id = ?", role.ID).Count(&permCount)
		if permCount > 0 && key != models.RoleOwner {
			continue
		}
		want := models.DefaultRolePermissions[key]
		if key == models.RoleOwner {
			want = models.AllPermissions()
		}
		ensurePermissions(db, role.ID, want)
	}

	// ---------------- Owner account ----------------
	var staffCount int64
	db.Model(&models.Staff{}).Count(&staffCount)
	if owner, ok := rolesByKey[models.RoleOwner]; ok && staffCount == 0 {
		password := utils.EnvOrDefault("SEED_ADMIN_PASSWORD", "admin123")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.Staff{
				FullName: "Admin User",
				Username: utils.EnvOrDefault("SEED_ADMIN_USERNAME", "admin@hotel.local"),
				Password: string(hash),
				RoleID:   &owner.ID,
			}
			if err := db.Omit("Role").Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	// ---------------- RoomTypes ----------------
	var rtCount int64
	db.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{TypeName: "Standard", Description: "Standard Room", MaxGuests: 2, BaseTariff: money.FromMajor(1500)},
			{TypeName: "Superior", Description: "Superior Room", MaxGuests: 3, BaseTariff: money.FromMajor(2200)},
			{TypeName: "Deluxe", Description: "Deluxe Room", MaxGuests: 4, BaseTariff: money.FromMajor(3000)},
			{TypeName: "Suite", Description: "Suite", MaxGuests: 5, BaseTariff: money.FromMajor(5000)},
		}
		if err := db.Create(&roomTypes).Error; err != nil {
			log.Printf("warning: failed to seed room types: %v", err)
		} else {
			log.Println("RoomTypes seeded")
		}
	}

	// ---------------- Menu ----------------
	var itemCount int64
	db.Model(&models.FoodItem{}).Count(&itemCount)
	if itemCount == 0 {
		items := []models.FoodItem{
			{Name: "Masala Tea", Category: "Beverages", Price: money.FromMajor(40), GSTRate: 500, Enabled: true},
			{Name: "Veg Sandwich", Category: "Snacks", Price: money.FromMajor(120), GSTRate: 500, Enabled: true},
			{Name: "Paneer Butter Masala", Category: "Main Course", Price: money.FromMajor(260), GSTRate: 500, Enabled: true},
			{Name: "Butter Naan", Category: "Breads", Price: money.FromMajor(50), GSTRate: 500, Enabled: true},
		}
		if err := db.Create(&items).Error; err != nil {
			log.Printf("warning: failed to seed menu: %v", err)
		} else {
			log.Println("Menu seeded")
		}
	}

	// ---------------- Hotel profile ----------------
	var settingCount int64
	db.Model(&models.HotelSetting{}).Count(&settingCount)
	if settingCount == 0 {
		hotel := models.HotelSetting{
			Name:           utils.EnvOrDefault("HOTEL_NAME", "Hotel"),
			DefaultGSTRate: defaultRate,
		}
		if err := db.Create(&hotel).Error; err != nil {
			log.Printf("warning: failed to seed hotel settings: %v", err)
		}
	}

	log.Println("Roles ensured")
}

func ensurePermissions(db *gorm.DB, roleID uint, perms []string) {
	var have []string
	db.Model(&models.RolePermission{}).Where("role_id = ?", roleID).Pluck("permission", &have)
	existing := make(map[string]bool, len(have))
	for _, p := range have {
		existing[p] = true
	}
	missing := make([]models.RolePermission, 0, len(perms))
	for _, p := range perms {
		if !existing[p] {
			missing = append(missing, models.RolePermission{RoleID: roleID, Permission: p})
		}
	}
	if len(missing) == 0 {
		return
	}
	if err := db.Create(&missing).Error; err != nil {
		log.Printf("warning: failed to create permissions for role %d: %v", roleID, err)
	}
}

func gormLogLevel() logger.LogLevel {
	switch strings.ToLower(os.Getenv("DB_LOG_LEVEL")) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := os.Getenv("DB_PASS")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "hotel_billing")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func resolvePostgresDSN() string {
	if raw := strings.TrimSpace(os.Getenv("DATABASE_URL")); raw != "" {
		return raw
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		utils.EnvOrDefault("DB_HOST", "127.0.0.1"),
		utils.EnvOrDefault("DB_USER", "postgres"),
		os.Getenv("DB_PASS"),
		utils.EnvOrDefault("DB_NAME", "hotel_billing"),
		utils.EnvOrDefault("DB_PORT", "5432"),
		utils.EnvOrDefault("DB_SSLMODE", "disable"),
	)
}
