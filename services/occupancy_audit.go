package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"hotel-billing/models"
)

// OccupancyAuditor checks that a room is OCCUPIED exactly when an ACTIVE
// booking references it, and repairs rooms whose status drifted.
type OccupancyAuditor struct {
	DB     *gorm.DB
	Events EventPublisher
}

func NewOccupancyAuditor(db *gorm.DB, events EventPublisher) *OccupancyAuditor {
	return &OccupancyAuditor{DB: db, Events: events}
}

type RoomRepair struct {
	RoomID     uint   `json:"roomId"`
	RoomNumber string `json:"roomNumber"`
	From       string `json:"from"`
	To         string `json:"to"`
}

type OccupancyReport struct {
	RoomsChecked int          `json:"roomsChecked"`
	Repairs      []RoomRepair `json:"repairs"`
	// DoubleBooked lists rooms with more than one ACTIVE booking. These
	// need a human; the auditor only reports them.
	DoubleBooked []uint    `json:"doubleBooked"`
	RanAt        time.Time `json:"ranAt"`
}

type activeCount struct {
	RoomID uint
	Active int64
}

func (a *OccupancyAuditor) Run(ctx context.Context) (*OccupancyReport, error) {
	report := &OccupancyReport{RanAt: time.Now().UTC()}

	err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counts []activeCount
		if err := tx.Model(&models.Booking{}).
			Select("room_id, COUNT(*) AS active").
			Where("status = ?", models.BookingActive).
			Group("room_id").
			Scan(&counts).Error; err != nil {
			return err
		}
		active := make(map[uint]int64, len(counts))
		for _, c := range counts {
			active[c.RoomID] = c.Active
		}

		var rooms []models.Room
		if err := tx.Order("id").Find(&rooms).Error; err != nil {
			return err
		}
		report.RoomsChecked = len(rooms)

		for _, room := range rooms {
			n := active[room.ID]
			if n > 1 {
				report.DoubleBooked = append(report.DoubleBooked, room.ID)
			}
			want := models.RoomAvailable
			if n > 0 {
				want = models.RoomOccupied
			}
			if room.Status == want {
				continue
			}
			res := tx.Model(&models.Room{}).
				Where("id = ? AND status = ?", room.ID, room.Status).
				Update("status", want)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				report.Repairs = append(report.Repairs, RoomRepair{
					RoomID:     room.ID,
					RoomNumber: room.RoomNumber,
					From:       room.Status,
					To:         want,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, r := range report.Repairs {
		log.Printf("🔧 occupancy audit: room %s %s -> %s", r.RoomNumber, r.From, r.To)
	}
	for _, roomID := range report.DoubleBooked {
		log.Printf("❌ occupancy audit: room %d has more than one active booking", roomID)
	}
	if len(report.Repairs) > 0 {
		publish(ctx, a.Events, EventOccupancyRepaired, report)
	}
	return report, nil
}

// Schedule runs the audit on a cron spec ("@every 15m", "0 3 * * *").
// The caller stops the returned scheduler on shutdown.
func (a *OccupancyAuditor) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := a.Run(ctx); err != nil {
			log.Printf("⚠️  occupancy audit failed: %v", err)
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("Occupancy audit scheduled (%s)", spec)
	return c, nil
}
