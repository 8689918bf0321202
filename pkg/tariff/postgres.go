package tariff

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CityRow is a postal prefix range in tariff_cities.
type CityRow struct {
	ID         uint   `gorm:"primaryKey"`
	PrefixFrom string `gorm:"size:5;not null"`
	PrefixTo   string `gorm:"size:5;not null"`
	Name       string `gorm:"not null"`
	State      string `gorm:"size:2"`
	Region     string `gorm:"not null;index"`
}

func (CityRow) TableName() string { return "tariff_cities" }

// RouteRow is a region pair in tariff_routes.
type RouteRow struct {
	ID                uint   `gorm:"primaryKey"`
	OriginRegion      string `gorm:"not null;uniqueIndex:idx_tariff_route"`
	DestinationRegion string `gorm:"not null;uniqueIndex:idx_tariff_route"`
	Zone              int    `gorm:"not null"`
}

func (RouteRow) TableName() string { return "tariff_routes" }

// ZoneRow is a zone in tariff_zones.
type ZoneRow struct {
	Zone       int             `gorm:"primaryKey;autoIncrement:false"`
	ExtraPerKg decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

func (ZoneRow) TableName() string { return "tariff_zones" }

// BandRow is a weight band in tariff_bands.
type BandRow struct {
	ID     uint            `gorm:"primaryKey"`
	Zone   int             `gorm:"not null;index"`
	UpToKg float64         `gorm:"not null"`
	Price  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

func (BandRow) TableName() string { return "tariff_bands" }

// RemoteAreaRow is a remote destination range in tariff_remote_areas.
type RemoteAreaRow struct {
	ID          uint            `gorm:"primaryKey"`
	PrefixFrom  string          `gorm:"size:5;not null"`
	PrefixTo    string          `gorm:"size:5;not null"`
	Description string          `gorm:"not null"`
	Fee         decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

func (RemoteAreaRow) TableName() string { return "tariff_remote_areas" }

// Models lists the tariff tables for migrations.
func Models() []interface{} {
	return []interface{}{&CityRow{}, &RouteRow{}, &ZoneRow{}, &BandRow{}, &RemoteAreaRow{}}
}

// OpenPostgres connects to the tariff database.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to tariff database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("tariff database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Store reads tariff tables from postgres.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the tariff tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrating tariff tables: %w", err)
	}
	return nil
}

// Load reads every tariff table and builds an in-memory Table from them.
// The result does not track later database changes.
func (s *Store) Load(ctx context.Context) (*Table, error) {
	db := s.db.WithContext(ctx)

	var cities []CityRow
	if err := db.Order("prefix_from").Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("loading tariff cities: %w", err)
	}
	var routes []RouteRow
	if err := db.Find(&routes).Error; err != nil {
		return nil, fmt.Errorf("loading tariff routes: %w", err)
	}
	var zones []ZoneRow
	if err := db.Order("zone").Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("loading tariff zones: %w", err)
	}
	var bands []BandRow
	if err := db.Order("zone, up_to_kg").Find(&bands).Error; err != nil {
		return nil, fmt.Errorf("loading tariff bands: %w", err)
	}
	var remotes []RemoteAreaRow
	if err := db.Find(&remotes).Error; err != nil {
		return nil, fmt.Errorf("loading tariff remote areas: %w", err)
	}

	t := &Table{
		Cities:  make([]PrefixRange, 0, len(cities)),
		Routes:  make([]Route, 0, len(routes)),
		Zones:   make([]Zone, 0, len(zones)),
		Remotes: make([]Remote, 0, len(remotes)),
	}
	for _, c := range cities {
		t.Cities = append(t.Cities, PrefixRange{From: c.PrefixFrom, To: c.PrefixTo, Name: c.Name, State: c.State, Region: c.Region})
	}
	for _, r := range routes {
		t.Routes = append(t.Routes, Route{Origin: r.OriginRegion, Destination: r.DestinationRegion, Zone: r.Zone})
	}

	byZone := make(map[int][]Band, len(zones))
	for _, b := range bands {
		byZone[b.Zone] = append(byZone[b.Zone], Band{UpToKg: b.UpToKg, Price: b.Price})
	}
	for _, z := range zones {
		t.Zones = append(t.Zones, Zone{Zone: z.Zone, ExtraPerKg: z.ExtraPerKg, Bands: byZone[z.Zone]})
	}
	for _, r := range remotes {
		t.Remotes = append(t.Remotes, Remote{From: r.PrefixFrom, To: r.PrefixTo, Description: r.Description, Fee: r.Fee})
	}

	if err := t.Build(); err != nil {
		return nil, fmt.Errorf("invalid tariff table: %w", err)
	}
	return t, nil
}
