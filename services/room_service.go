package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-billing/models"
)

// RoomService is the room registry. Status changes only through claimRoom and
// releaseRoom, which run inside booking transactions.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

type CreateRoomRequest struct {
	RoomNumber  string `json:"roomNumber" binding:"required"`
	RoomTypeID  *uint  `json:"roomTypeId"`
	Floor       string `json:"floor"`
	Description string `json:"description"`
}

func (s *RoomService) Create(ctx context.Context, id Identity, req CreateRoomRequest) (*models.Room, error) {
	if err := id.Require(models.PermRoomCreate); err != nil {
		return nil, err
	}
	number := strings.TrimSpace(req.RoomNumber)
	if number == "" {
		return nil, Validation("room.numberRequired", "room number is required")
	}

	db := s.DB.WithContext(ctx)
	if req.RoomTypeID != nil {
		if err := db.First(&models.RoomType{}, *req.RoomTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomTypeNotFound
			}
			return nil, err
		}
	}

	room := models.Room{
		RoomNumber:  number,
		RoomTypeID:  req.RoomTypeID,
		Floor:       strings.TrimSpace(req.Floor),
		Description: req.Description,
		Status:      models.RoomAvailable,
	}
	if err := db.Create(&room).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("room %q: %w", number, ErrRoomNumberTaken)
		}
		return nil, err
	}
	return &room, nil
}

// List returns rooms ordered by number, optionally narrowed to one status.
func (s *RoomService) List(ctx context.Context, id Identity, status string) ([]models.Room, error) {
	if err := id.Require(models.PermRoomView); err != nil {
		return nil, err
	}
	q := s.DB.WithContext(ctx).Preload("RoomType").Order("room_number")
	if status != "" {
		status = strings.ToUpper(status)
		if status != models.RoomAvailable && status != models.RoomOccupied {
			return nil, Validation("room.invalidStatus", "status must be AVAILABLE or OCCUPIED")
		}
		q = q.Where("status = ?", status)
	}
	var rooms []models.Room
	err := q.Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) Get(ctx context.Context, id Identity, roomID uint) (*models.Room, error) {
	if err := id.Require(models.PermRoomView); err != nil {
		return nil, err
	}
	var room models.Room
	if err := s.DB.WithContext(ctx).Preload("RoomType").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Update applies an edit through the allow-list. Status is never editable here.
func (s *RoomService) Update(ctx context.Context, id Identity, roomID uint, fields map[string]any) (*models.Room, error) {
	if err := id.Require(models.PermRoomEdit); err != nil {
		return nil, err
	}
	if _, ok := fields["status"]; ok {
		return nil, Validation("room.statusReadOnly", "room status follows bookings and cannot be edited")
	}

	updates := map[string]any{}
	for key, v := range fields {
		switch key {
		case "roomNumber":
			number, err := stringField(key, v)
			if err != nil {
				return nil, err
			}
			if number == "" {
				return nil, Validation("room.numberRequired", "room number is required")
			}
			updates["room_number"] = number
		case "roomTypeId":
			typeID, err := optionalIDField(key, v)
			if err != nil {
				return nil, err
			}
			updates["room_type_id"] = typeID
		case "floor":
			floor, err := stringField(key, v)
			if err != nil {
				return nil, err
			}
			updates["floor"] = floor
		case "description":
			desc, err := stringField(key, v)
			if err != nil {
				return nil, err
			}
			updates["description"] = desc
		}
	}
	if len(updates) == 0 {
		return nil, Validation("room.noChanges", "no editable fields supplied (roomNumber, roomTypeId, floor, description)")
	}

	db := s.DB.WithContext(ctx)
	var room models.Room
	if err := db.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if typeID, ok := updates["room_type_id"].(*uint); ok && typeID != nil {
		if err := db.First(&models.RoomType{}, *typeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomTypeNotFound
			}
			return nil, err
		}
	}
	if err := db.Model(&room).Updates(updates).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrRoomNumberTaken
		}
		return nil, err
	}
	if err := db.Preload("RoomType").First(&room, roomID).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// Delete removes a room that no booking references.
func (s *RoomService) Delete(ctx context.Context, id Identity, roomID uint) error {
	if err := id.Require(models.PermRoomDelete); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		var active int64
		if err := tx.Model(&models.Booking{}).
			Where("room_id = ? AND status = ?", roomID, models.BookingActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("room %s: %w", room.RoomNumber, ErrRoomInUse)
		}

		var past int64
		if err := tx.Model(&models.Booking{}).Where("room_id = ?", roomID).Count(&past).Error; err != nil {
			return err
		}
		if past > 0 {
			return fmt.Errorf("room %s: %w", room.RoomNumber, ErrRoomHasHistory)
		}

		if err := tx.Delete(&room).Error; err != nil {
			if isForeignKeyViolation(err) {
				return ErrRoomHasHistory
			}
			return err
		}
		return nil
	})
}

// claimRoom flips an AVAILABLE room to OCCUPIED. The conditional update makes
// two concurrent claims on one room resolve to exactly one winner.
func claimRoom(tx *gorm.DB, roomID uint) (*models.Room, error) {
	res := tx.Model(&models.Room{}).
		Where("id = ? AND status = ?", roomID, models.RoomAvailable).
		Update("status", models.RoomOccupied)
	if res.Error != nil {
		return nil, res.Error
	}

	var room models.Room
	if err := tx.Preload("RoomType").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("room %s is %s: %w", room.RoomNumber, room.Status, ErrRoomNotAvailable)
	}
	return &room, nil
}

func releaseRoom(tx *gorm.DB, roomID uint) error {
	return tx.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("status", models.RoomAvailable).Error
}
