package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hotel-billing/models"
	"hotel-billing/money"
)

const hotelSettingsCacheKey = "settings:hotel"

// SettingsService serves the hotel profile used on invoices and as the source
// of the default GST rate. Reads go through Redis when a client is configured;
// a nil Cache simply reads the database every time.
type SettingsService struct {
	DB       *gorm.DB
	Cache    *redis.Client
	TTL      time.Duration
	Defaults models.HotelSetting
}

func NewSettingsService(db *gorm.DB, cache *redis.Client, defaults models.HotelSetting) *SettingsService {
	return &SettingsService{DB: db, Cache: cache, TTL: 10 * time.Minute, Defaults: defaults}
}

// DefaultHotelProfile is the fallback when nothing is stored or configured.
func DefaultHotelProfile() models.HotelSetting {
	return models.HotelSetting{
		Name:           "Hotel",
		DefaultGSTRate: 500,
	}
}

func (s *SettingsService) Get(ctx context.Context, id Identity) (models.HotelSetting, error) {
	if err := id.Require(models.PermSettingsView); err != nil {
		return models.HotelSetting{}, err
	}
	return s.Profile(ctx), nil
}

// Profile never fails: missing rows or store errors yield the defaults.
func (s *SettingsService) Profile(ctx context.Context) models.HotelSetting {
	if s == nil {
		return DefaultHotelProfile()
	}
	if cached, ok := s.cached(ctx); ok {
		return cached
	}

	var hotel models.HotelSetting
	err := s.DB.WithContext(ctx).Order("id").First(&hotel).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️  load hotel settings: %v", err)
		}
		return s.defaults()
	}
	if strings.TrimSpace(hotel.Name) == "" {
		hotel.Name = s.defaults().Name
	}
	s.store(ctx, hotel)
	return hotel
}

// DefaultRate is the GST rate settlements use when the caller gives none.
func (s *SettingsService) DefaultRate(ctx context.Context) money.Rate {
	return s.Profile(ctx).DefaultGSTRate
}

type UpdateHotelSettingsRequest struct {
	Name       string      `json:"name" binding:"required"`
	Address    string      `json:"address"`
	Phone      string      `json:"phone"`
	Email      string      `json:"email"`
	GSTIN      string      `json:"gstin"`
	GSTPercent *money.Rate `json:"defaultGstPercent"`
}

// Update upserts the single settings row and drops the cached copy.
func (s *SettingsService) Update(ctx context.Context, id Identity, req UpdateHotelSettingsRequest) (models.HotelSetting, error) {
	if err := id.Require(models.PermSettingsEdit); err != nil {
		return models.HotelSetting{}, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return models.HotelSetting{}, Validation("settings.nameRequired", "hotel name is required")
	}
	if req.GSTPercent != nil {
		if err := validateRate(*req.GSTPercent); err != nil {
			return models.HotelSetting{}, err
		}
	}

	var hotel models.HotelSetting
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Order("id").First(&hotel).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hotel = models.HotelSetting{DefaultGSTRate: s.defaults().DefaultGSTRate}
		}

		hotel.Name = strings.TrimSpace(req.Name)
		hotel.Address = strings.TrimSpace(req.Address)
		hotel.Phone = strings.TrimSpace(req.Phone)
		hotel.Email = strings.TrimSpace(req.Email)
		hotel.GSTIN = strings.ToUpper(strings.TrimSpace(req.GSTIN))
		if req.GSTPercent != nil {
			hotel.DefaultGSTRate = *req.GSTPercent
		}
		return tx.Save(&hotel).Error
	})
	if err != nil {
		return models.HotelSetting{}, err
	}

	s.invalidate(ctx)
	return hotel, nil
}

func (s *SettingsService) defaults() models.HotelSetting {
	d := s.Defaults
	if strings.TrimSpace(d.Name) == "" {
		d.Name = DefaultHotelProfile().Name
	}
	return d
}

func (s *SettingsService) cached(ctx context.Context) (models.HotelSetting, bool) {
	if s.Cache == nil {
		return models.HotelSetting{}, false
	}
	raw, err := s.Cache.Get(ctx, hotelSettingsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("⚠️  settings cache read: %v", err)
		}
		return models.HotelSetting{}, false
	}
	var hotel models.HotelSetting
	if err := json.Unmarshal(raw, &hotel); err != nil {
		return models.HotelSetting{}, false
	}
	return hotel, true
}

func (s *SettingsService) store(ctx context.Context, hotel models.HotelSetting) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(hotel)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, hotelSettingsCacheKey, raw, s.TTL).Err(); err != nil {
		log.Printf("⚠️  settings cache write: %v", err)
	}
}

func (s *SettingsService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, hotelSettingsCacheKey).Err(); err != nil {
		log.Printf("⚠️  settings cache invalidate: %v", err)
	}
}
