package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"hotel-billing/models"
	"hotel-billing/money"
)

// FoodService manages the menu and the food order ledger.
type FoodService struct {
	DB *gorm.DB
}

func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{DB: db}
}

type CreateFoodItemRequest struct {
	Name     string      `json:"name" binding:"required"`
	Category string      `json:"category"`
	Price    money.Money `json:"price"`
	GSTRate  money.Rate  `json:"gstPercent"`
	Enabled  *bool       `json:"enabled"`
}

func (s *FoodService) CreateItem(ctx context.Context, id Identity, req CreateFoodItemRequest) (*models.FoodItem, error) {
	if err := id.Require(models.PermMenuEdit); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, Validation("foodItem.nameRequired", "name is required")
	}
	if req.Price.IsNegative() {
		return nil, Validation("foodItem.invalidPrice", "price cannot be negative")
	}
	if req.GSTRate < 0 || req.GSTRate > money.BasisPoints {
		return nil, Validation("foodItem.invalidGst", "gstPercent must be between 0 and 100")
	}
	item := models.FoodItem{
		Name:     name,
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		GSTRate:  req.GSTRate,
		Enabled:  req.Enabled == nil || *req.Enabled,
	}
	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *FoodService) ListItems(ctx context.Context, id Identity, enabledOnly bool) ([]models.FoodItem, error) {
	if err := id.Require(models.PermMenuView); err != nil {
		return nil, err
	}
	q := s.DB.WithContext(ctx).Order("category, name")
	if enabledOnly {
		q = q.Where("enabled = ?", true)
	}
	var items []models.FoodItem
	err := q.Find(&items).Error
	return items, err
}

// UpdateItem edits name, category, price, gstPercent or enabled. Price changes
// never touch existing invoices; they only affect orders settled afterwards.
func (s *FoodService) UpdateItem(ctx context.Context, id Identity, itemID uint, fields map[string]any) (*models.FoodItem, error) {
	if err := id.Require(models.PermMenuEdit); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	for key, v := range fields {
		switch key {
		case "name", "category":
			str, err := stringField(key, v)
			if err != nil {
				return nil, err
			}
			if key == "name" && str == "" {
				return nil, Validation("foodItem.nameRequired", "name is required")
			}
			updates[key] = str
		case "price":
			price, err := moneyField(key, v)
			if err != nil {
				return nil, err
			}
			if price.IsNegative() {
				return nil, Validation("foodItem.invalidPrice", "price cannot be negative")
			}
			updates["price"] = price
		case "gstPercent":
			rate, err := rateField(key, v)
			if err != nil {
				return nil, err
			}
			if rate < 0 || rate > money.BasisPoints {
				return nil, Validation("foodItem.invalidGst", "gstPercent must be between 0 and 100")
			}
			updates["gst_rate"] = rate
		case "enabled":
			enabled, err := boolField(key, v)
			if err != nil {
				return nil, err
			}
			updates["enabled"] = enabled
		}
	}
	if len(updates) == 0 {
		return nil, Validation("foodItem.noChanges", "no editable fields supplied (name, category, price, gstPercent, enabled)")
	}

	db := s.DB.WithContext(ctx)
	var item models.FoodItem
	if err := db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodItemNotFound
		}
		return nil, err
	}
	if err := db.Model(&item).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := db.First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

type AddOrderRequest struct {
	FoodItemID uint  `json:"foodItemId"`
	Quantity   int   `json:"quantity"`
	ChefID     *uint `json:"chefId"`
}

// AddOrder records an unbilled order on an ACTIVE booking.
func (s *FoodService) AddOrder(ctx context.Context, id Identity, bookingID uint, req AddOrderRequest) (*models.FoodOrder, error) {
	if err := id.Require(models.PermOrderCreate); err != nil {
		return nil, err
	}
	if req.FoodItemID == 0 {
		return nil, Validation("order.foodItemRequired", "foodItemId is required")
	}
	if err := checkQuantity(req.Quantity); err != nil {
		return nil, err
	}

	var order models.FoodOrder
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if !booking.IsActive() {
			return fmt.Errorf("booking %d is %s: %w", booking.ID, booking.Status, ErrBookingNotActive)
		}

		var item models.FoodItem
		if err := tx.First(&item, req.FoodItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFoodItemNotFound
			}
			return err
		}
		if !item.Enabled {
			return fmt.Errorf("%s: %w", item.Name, ErrItemDisabled)
		}

		if req.ChefID != nil {
			if err := tx.First(&models.Staff{}, *req.ChefID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrStaffNotFound
				}
				return err
			}
		}

		order = models.FoodOrder{
			BookingID:  booking.ID,
			FoodItemID: item.ID,
			Quantity:   req.Quantity,
			ChefID:     req.ChefID,
		}
		if err := tx.Omit("FoodItem").Create(&order).Error; err != nil {
			return err
		}
		order.FoodItem = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// RemoveOrder deletes an unbilled order of an ACTIVE booking.
func (s *FoodService) RemoveOrder(ctx context.Context, id Identity, orderID uint) error {
	if err := id.Require(models.PermOrderDelete); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.FoodOrder
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		booking, err := lockBooking(tx, order.BookingID)
		if err != nil {
			return err
		}
		if !booking.IsActive() {
			return fmt.Errorf("order %d: %w", orderID, ErrBookingNotActive)
		}

		res := tx.Where("id = ? AND invoice_id IS NULL", orderID).Delete(&models.FoodOrder{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %d: %w", orderID, ErrAlreadyInvoiced)
		}
		return nil
	})
}

// ListUnbilled returns the booking's orders with no invoice, optionally narrowed
// to orderIDs.
func (s *FoodService) ListUnbilled(ctx context.Context, id Identity, bookingID uint, orderIDs []uint) ([]models.FoodOrder, error) {
	if err := id.Require(models.PermOrderView); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := ensureBooking(db, bookingID); err != nil {
		return nil, err
	}
	return listUnbilled(db, bookingID, orderIDs)
}

// ListOrders returns every order of the booking, billed or not.
func (s *FoodService) ListOrders(ctx context.Context, id Identity, bookingID uint) ([]models.FoodOrder, error) {
	if err := id.Require(models.PermOrderView); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := ensureBooking(db, bookingID); err != nil {
		return nil, err
	}
	var orders []models.FoodOrder
	err := db.Preload("FoodItem").Where("booking_id = ?", bookingID).Order("id").Find(&orders).Error
	return orders, err
}

func listUnbilled(db *gorm.DB, bookingID uint, orderIDs []uint) ([]models.FoodOrder, error) {
	q := db.Preload("FoodItem").Where("booking_id = ? AND invoice_id IS NULL", bookingID)
	if len(orderIDs) > 0 {
		q = q.Where("id IN ?", orderIDs)
	}
	var orders []models.FoodOrder
	err := q.Order("id").Find(&orders).Error
	return orders, err
}

func ensureBooking(db *gorm.DB, bookingID uint) error {
	var count int64
	if err := db.Model(&models.Booking{}).Where("id = ?", bookingID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrBookingNotFound
	}
	return nil
}
