package testutil

import (
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/barber-desk/internal/db"
	"github.com/BruksfildServices01/barber-desk/internal/models"
)

// NewDB opens a private in-memory sqlite database with every table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Fixture is a barbershop with one admin, two barbers, a client, a service
// catalog and a few inventory items.
type Fixture struct {
	Shop     models.Barbershop
	Admin    models.User
	Barbers  []models.User
	Client   models.Client
	Services []models.Service
	Items    []models.InventoryItem
}

func Seed(t *testing.T, db *gorm.DB) Fixture {
	t.Helper()

	f := Fixture{
		Shop: models.Barbershop{Name: "Navalha de Ouro", Slug: "navalha", Timezone: "America/Sao_Paulo"},
	}
	mustCreate(t, db, &f.Shop)

	f.Admin = models.User{
		BarbershopID: f.Shop.ID, Name: "Dona", Email: "dona@navalha.test",
		PasswordHash: "x", Roles: models.JoinRoles(models.RoleBarbershopAdmin), Active: true,
	}
	mustCreate(t, db, &f.Admin)

	for _, name := range []string{"Rafael", "Tiago"} {
		b := models.User{
			BarbershopID: f.Shop.ID, Name: name, Email: strings.ToLower(name) + "@navalha.test",
			PasswordHash: "x", Roles: models.JoinRoles(models.RoleBarber), Active: true,
		}
		mustCreate(t, db, &b)
		f.Barbers = append(f.Barbers, b)
	}

	f.Client = models.Client{BarbershopID: f.Shop.ID, Name: "João", Phone: "11999990000"}
	mustCreate(t, db, &f.Client)

	f.Services = []models.Service{
		{BarbershopID: f.Shop.ID, Name: "Corte", Price: 30, DurationMin: 30, Active: true},
		{BarbershopID: f.Shop.ID, Name: "Barba", Price: 20, DurationMin: 20, Active: true},
		{BarbershopID: f.Shop.ID, Name: "Sobrancelha", Price: 10, DurationMin: 10, Active: true},
	}
	for i := range f.Services {
		mustCreate(t, db, &f.Services[i])
	}

	pomada, shampoo := 15.0, 25.0
	f.Items = []models.InventoryItem{
		{BarbershopID: f.Shop.ID, Name: "Pomada", Quantity: 5, MinQuantity: 2, UnitPrice: &pomada, Sellable: true},
		{BarbershopID: f.Shop.ID, Name: "Shampoo", Quantity: 0, MinQuantity: 1, UnitPrice: &shampoo, Sellable: true},
		{BarbershopID: f.Shop.ID, Name: "Lâmina", Quantity: 100, MinQuantity: 10},
	}
	for i := range f.Items {
		mustCreate(t, db, &f.Items[i])
	}

	return f
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

// Appointment inserts an appointment for the fixture's client and first
// barber and returns it with Client and Barber populated.
func (f Fixture) Appointment(t *testing.T, db *gorm.DB, service string, at time.Time, status string) models.Appointment {
	t.Helper()

	ap := models.Appointment{
		BarbershopID: f.Shop.ID,
		BarberID:     f.Barbers[0].ID,
		ClientID:     f.Client.ID,
		ServiceText:  service,
		ScheduledAt:  at,
		Status:       status,
	}
	mustCreate(t, db, &ap)

	ap.Client = f.Client
	ap.Barber = f.Barbers[0]
	return ap
}
