package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "document", cfg.Storage.Backend)
	assert.Equal(t, "data/data.json", cfg.Storage.DocumentPath)
	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout())
	assert.Equal(t, "file", cfg.Session.Backend)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Server.IsDevelopment())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "bookings")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("TYPESENSE_URL", "http://test-typesense:8108")
	t.Setenv("BOOKING_KAYAK_FEE", "7.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
	assert.Equal(t, 7.5, cfg.Booking.KayakFee)
	assert.Contains(t, cfg.Database.DatabaseDSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.DatabaseDSN(), "dbname=bookings")
}

func TestLoad_RejectsNegativeFees(t *testing.T) {
	t.Setenv("BOOKING_PARKING_FEE", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestBookingConfig_Fees(t *testing.T) {
	cfg := BookingConfig{KayakFee: 5, ParkingFee: 5}

	fees := cfg.Fees()
	require.Len(t, fees, 2)
	assert.Equal(t, "Kayak fee", fees[0].Name)
	assert.Equal(t, 5.0, fees[1].Amount)
}
