package tariff_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/dhlquote/pkg/tariff"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestStore_Load(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := tariff.NewStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tariff_cities"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "prefix_from", "prefix_to", "name", "state", "region"}).
			AddRow(1, "06700", "06729", "COTIA", "SP", "SP-METRO").
			AddRow(2, "20000", "23799", "RIO DE JANEIRO", "RJ", "SUDESTE"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tariff_routes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin_region", "destination_region", "zone"}).
			AddRow(1, "SP-METRO", "SUDESTE", 2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tariff_zones"`)).
		WillReturnRows(sqlmock.NewRows([]string{"zone", "extra_per_kg"}).
			AddRow(2, "3.00"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tariff_bands"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "zone", "up_to_kg", "price"}).
			AddRow(1, 2, 1.0, "15.00").
			AddRow(2, 2, 5.0, "25.00"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tariff_remote_areas"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "prefix_from", "prefix_to", "description", "fee"}).
			AddRow(1, "23700", "23799", "COSTA VERDE", "12.50"))

	table, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, tariff.Stats{Cities: 2, Routes: 1, Zones: 1, Remotes: 1}, table.Stats())

	res, err := table.Calc(tariff.Input{OriginPrefix: "06710", DestinationPrefix: "23750", Packages: []tariff.Package{{Weight: 3}}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Zone)
	assert.True(t, res.RemoteArea.Status)
	assert.Equal(t, "37.50", res.Total.StringFixed(2))
}

func TestStore_Load_QueryError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := tariff.NewStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tariff_cities"`)).
		WillReturnError(errors.New("connection refused"))

	table, err := store.Load(context.Background())
	assert.Nil(t, table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading tariff cities")
}

func TestStore_Load_InvalidTable(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := tariff.NewStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tariff_cities"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "prefix_from", "prefix_to", "name", "state", "region"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tariff_routes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin_region", "destination_region", "zone"}).
			AddRow(1, "SP-METRO", "SUDESTE", 4))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tariff_zones"`)).
		WillReturnRows(sqlmock.NewRows([]string{"zone", "extra_per_kg"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tariff_bands"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "zone", "up_to_kg", "price"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tariff_remote_areas"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "prefix_from", "prefix_to", "description", "fee"}))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, tariff.ErrUnknownZone)
}

func TestModels_TableNames(t *testing.T) {
	var names []string
	for _, model := range tariff.Models() {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)
		names = append(names, s.Table)
	}

	assert.Equal(t, []string{
		"tariff_cities", "tariff_routes", "tariff_zones", "tariff_bands", "tariff_remote_areas",
	}, names)
}

func TestStore_Migrate_Error(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	store := tariff.NewStore(gormDB)

	// No expectations registered: the first migration query fails.
	err := store.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrating tariff tables")
}
