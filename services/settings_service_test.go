package services

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"hotel-billing/models"
)

func TestSettingsDefaultsWhenEmpty(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	settings := NewSettingsService(db, nil, models.HotelSetting{DefaultGSTRate: 1200})

	hotel := settings.Profile(ctx)
	if hotel.Name != "Hotel" || hotel.DefaultGSTRate != 1200 {
		t.Fatalf("profile = %+v", hotel)
	}
	if got := settings.DefaultRate(ctx); got != 1200 {
		t.Fatalf("default rate = %s", got)
	}

	var nilService *SettingsService
	if got := nilService.Profile(ctx); got.DefaultGSTRate != 500 {
		t.Fatalf("nil service profile = %+v", got)
	}
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	settings := NewSettingsService(db, nil, DefaultHotelProfile())

	updated, err := settings.Update(ctx, ownerIdentity(), UpdateHotelSettingsRequest{
		Name:       " Lake View ",
		GSTIN:      " 29abcde1234f1z5 ",
		GSTPercent: rate(1800),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Lake View" || updated.GSTIN != "29ABCDE1234F1Z5" || updated.DefaultGSTRate != 1800 {
		t.Fatalf("updated = %+v", updated)
	}

	// A second update keeps the single row and the previous rate.
	if _, err := settings.Update(ctx, ownerIdentity(), UpdateHotelSettingsRequest{Name: "Lake View Inn"}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	var rows int64
	db.Model(&models.HotelSetting{}).Count(&rows)
	if rows != 1 {
		t.Fatalf("settings rows = %d", rows)
	}
	got, err := settings.Get(ctx, ownerIdentity())
	if err != nil || got.Name != "Lake View Inn" || got.DefaultGSTRate != 1800 {
		t.Fatalf("get = %+v, %v", got, err)
	}

	if _, err := settings.Update(ctx, ownerIdentity(), UpdateHotelSettingsRequest{Name: "x", GSTPercent: rate(10001)}); KindOf(err) != KindValidation {
		t.Fatalf("rate over 100%%: %v", err)
	}
	if _, err := settings.Update(ctx, ownerIdentity(), UpdateHotelSettingsRequest{Name: " "}); KindOf(err) != KindValidation {
		t.Fatalf("blank name: %v", err)
	}
	_, err = settings.Update(ctx, roleIdentity(models.RoleReceptionist), UpdateHotelSettingsRequest{Name: "x"})
	wantErr(t, err, ErrForbidden)
}

func TestSettingsSurviveCacheOutage(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cache := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = cache.Close() })
	settings := NewSettingsService(db, cache, DefaultHotelProfile())

	if _, err := settings.Update(ctx, ownerIdentity(), UpdateHotelSettingsRequest{Name: "Cliff House"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := settings.Profile(ctx); got.Name != "Cliff House" {
		t.Fatalf("profile = %+v", got)
	}
}
