package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"hotel-billing/models"
	"hotel-billing/money"
)

type RoomTypeService struct {
	DB *gorm.DB
}

func NewRoomTypeService(db *gorm.DB) *RoomTypeService {
	return &RoomTypeService{DB: db}
}

type CreateRoomTypeRequest struct {
	TypeName    string      `json:"typeName" binding:"required"`
	Description string      `json:"description"`
	MaxGuests   uint        `json:"maxGuests"`
	BaseTariff  money.Money `json:"baseTariff"`
}

func (s *RoomTypeService) Create(ctx context.Context, id Identity, req CreateRoomTypeRequest) (*models.RoomType, error) {
	if err := id.Require(models.PermRoomCreate); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.TypeName)
	if name == "" {
		return nil, Validation("roomType.nameRequired", "type name is required")
	}
	if req.BaseTariff.IsNegative() {
		return nil, Validation("roomType.invalidTariff", "base tariff cannot be negative")
	}
	rt := models.RoomType{
		TypeName:    name,
		Description: req.Description,
		MaxGuests:   req.MaxGuests,
		BaseTariff:  req.BaseTariff,
	}
	if err := s.DB.WithContext(ctx).Create(&rt).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, &Error{KindConflict, "roomType.duplicateName", "room type already exists"}
		}
		return nil, err
	}
	return &rt, nil
}

func (s *RoomTypeService) List(ctx context.Context, id Identity) ([]models.RoomType, error) {
	if err := id.Require(models.PermRoomView); err != nil {
		return nil, err
	}
	var types []models.RoomType
	err := s.DB.WithContext(ctx).Order("type_name").Find(&types).Error
	return types, err
}

func (s *RoomTypeService) Delete(ctx context.Context, id Identity, typeID uint) error {
	if err := id.Require(models.PermRoomDelete); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rt models.RoomType
		if err := tx.First(&rt, typeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomTypeNotFound
			}
			return err
		}
		var inUse int64
		if err := tx.Model(&models.Room{}).Where("room_type_id = ?", typeID).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return ErrRoomTypeInUse
		}
		return tx.Delete(&rt).Error
	})
}
