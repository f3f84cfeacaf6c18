package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"amazonas-backend/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
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

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "amazonas_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func jsonList(items ...string) datatypes.JSON {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(fmt.Sprintf("%q", it))
	}
	sb.WriteByte(']')
	return datatypes.JSON(sb.String())
}

// SeedCatalog populates the tour and accommodation catalog when empty.
func SeedCatalog() {
	var tourCount int64
	DB.Model(&models.Tour{}).Count(&tourCount)
	if tourCount == 0 {
		tours := []models.Tour{
			{
				ID:          uuid.NewString(),
				Name:        "Avistamiento de Delfines Rosados",
				Category:    "naturaleza",
				Description: "Navegación por el río Amazonas para observar delfines rosados en su hábitat.",
				Detail:      "Incluye transporte fluvial, guía local y refrigerio.",
				Duration:    "4 horas",
				Location:    "puerto-narino",
				PriceFor2:   "180000",
				PriceFor3:   "160000",
				PriceFor4:   "150000",
				PriceFor5:   "140000",
				PriceFor6:   "130000",
				BasePrice:   "150000",
				Ref:         "TOUR-DELFINES",
				Images:      jsonList("/uploads/tours/delfines-1.jpg"),
			},
			{
				ID:          uuid.NewString(),
				Name:        "Isla de los Micos",
				Category:    "aventura",
				Description: "Visita a la isla habitada por cientos de monos ardilla.",
				Detail:      "Salida desde el malecón de Leticia, recorrido guiado por la isla.",
				Duration:    "5 horas",
				Location:    "leticia",
				PriceFor2:   "160000",
				PriceFor4:   "140000",
				PriceFor6:   "120000",
				BasePrice:   "140000",
				Ref:         "TOUR-MICOS",
				Images:      jsonList("/uploads/tours/micos-1.jpg"),
			},
			{
				ID:          uuid.NewString(),
				Name:        "Comunidad Indigena Mocagua",
				Category:    "cultura",
				Description: "Jornada de intercambio cultural con la comunidad de Mocagua.",
				Detail:      "Artesanías, gastronomía local y caminata por senderos de selva.",
				Duration:    "1 día",
				Location:    "mocagua",
				PriceFor2:   "220000",
				PriceFor4:   "190000",
				PriceFor6:   "170000",
				BasePrice:   "190000",
				Ref:         "TOUR-MOCAGUA",
				Images:      jsonList("/uploads/tours/mocagua-1.jpg"),
			},
		}
		if err := DB.Create(&tours).Error; err != nil {
			log.Printf("warning: failed to seed tours: %v", err)
		} else {
			log.Printf("Seeded %d tours", len(tours))
		}
	}

	var accCount int64
	DB.Model(&models.Accommodation{}).Count(&accCount)
	if accCount == 0 {
		accommodations := []models.Accommodation{
			{
				ID:            uuid.NewString(),
				Name:          "Cabana Rio Amazonas",
				Description:   "Cabaña frente al río con hamacas y desayuno incluido.",
				Location:      "leticia",
				PricePerNight: "150000",
				Capacity:      2,
				Images:        jsonList("/uploads/rooms/cabana-1.jpg"),
			},
			{
				ID:            uuid.NewString(),
				Name:          "Maloca Familiar",
				Description:   "Maloca tradicional para grupos, en medio de la selva.",
				Location:      "puerto-narino",
				PricePerNight: "250000",
				Capacity:      6,
				Images:        jsonList("/uploads/rooms/maloca-1.jpg"),
			},
		}
		if err := DB.Create(&accommodations).Error; err != nil {
			log.Printf("warning: failed to seed accommodations: %v", err)
		} else {
			log.Printf("Seeded %d accommodations", len(accommodations))
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.Tour{},
		&models.Accommodation{},
		&models.Booking{},
	); err != nil {
		return err
	}

	SeedCatalog()
	return nil
}
