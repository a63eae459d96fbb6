package services

import (
	"context"
	"testing"

	"hotel-billing/models"
	"hotel-billing/money"
)

func TestOccupancyAuditRepairsDrift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.open(t, "601", money.FromMajor(1000))
	idle := f.room(t, "602")
	f.room(t, "603")

	// Drift both ways.
	f.db.Model(&models.Room{}).Where("id = ?", b.RoomID).Update("status", models.RoomAvailable)
	f.db.Model(&models.Room{}).Where("id = ?", idle.ID).Update("status", models.RoomOccupied)

	auditor := NewOccupancyAuditor(f.db, f.events)
	report, err := auditor.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.RoomsChecked != 3 || len(report.Repairs) != 2 || len(report.DoubleBooked) != 0 {
		t.Fatalf("report = %+v", report)
	}
	if got := f.roomStatus(t, b.RoomID); got != models.RoomOccupied {
		t.Fatalf("booked room = %s", got)
	}
	if got := f.roomStatus(t, idle.ID); got != models.RoomAvailable {
		t.Fatalf("idle room = %s", got)
	}
	types := f.events.types()
	if types[len(types)-1] != EventOccupancyRepaired {
		t.Fatalf("events = %v", types)
	}

	again, err := auditor.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(again.Repairs) != 0 {
		t.Fatalf("second run repaired %+v", again.Repairs)
	}
	if len(f.events.types()) != len(types) {
		t.Fatal("a clean audit should not publish")
	}
}

func TestOccupancyAuditScheduleRejectsBadSpec(t *testing.T) {
	auditor := NewOccupancyAuditor(nil, nil)
	if _, err := auditor.Schedule("every now and then"); err == nil {
		t.Fatal("expected a cron parse error")
	}
}
