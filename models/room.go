package models

import "time"

const (
	RoomAvailable = "AVAILABLE"
	RoomOccupied  = "OCCUPIED"
)

// Room status is owned by the booking lifecycle: it flips to OCCUPIED when a
// booking claims it and back to AVAILABLE on checkout.
type Room struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RoomNumber  string    `gorm:"column:room_number;uniqueIndex;type:varchar(50)" json:"roomNumber"`
	RoomTypeID  *uint     `gorm:"column:room_type_id" json:"roomTypeId,omitempty"`
	RoomType    *RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
	Floor       string    `gorm:"type:varchar(10)" json:"floor"`
	Status      string    `gorm:"size:20;index;not null" json:"status"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TypeName returns the room type label or "" when no type is attached.
func (r Room) TypeName() string {
	if r.RoomType == nil {
		return ""
	}
	return r.RoomType.TypeName
}
