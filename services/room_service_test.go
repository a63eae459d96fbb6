package services

import (
	"context"
	"testing"

	"hotel-billing/models"
	"hotel-billing/money"
)

func TestCreateRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	room, err := f.rooms.Create(ctx, ownerIdentity(), CreateRoomRequest{RoomNumber: " 101 ", Floor: "1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if room.RoomNumber != "101" || room.Status != models.RoomAvailable {
		t.Fatalf("room = %+v", room)
	}

	_, err = f.rooms.Create(ctx, ownerIdentity(), CreateRoomRequest{RoomNumber: "101"})
	wantErr(t, err, ErrRoomNumberTaken)

	missing := uint(42)
	_, err = f.rooms.Create(ctx, ownerIdentity(), CreateRoomRequest{RoomNumber: "102", RoomTypeID: &missing})
	wantErr(t, err, ErrRoomTypeNotFound)

	_, err = f.rooms.Create(ctx, roleIdentity(models.RoleReceptionist), CreateRoomRequest{RoomNumber: "103"})
	wantErr(t, err, ErrForbidden)
}

func TestUpdateRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.room(t, "110")
	f.room(t, "111")

	_, err := f.rooms.Update(ctx, ownerIdentity(), room.ID, map[string]any{"status": models.RoomOccupied})
	if KindOf(err) != KindValidation {
		t.Fatalf("status edit: %v", err)
	}
	_, err = f.rooms.Update(ctx, ownerIdentity(), room.ID, map[string]any{"roomNumber": "111"})
	wantErr(t, err, ErrRoomNumberTaken)
	_, err = f.rooms.Update(ctx, ownerIdentity(), room.ID, map[string]any{"nothing": 1})
	if KindOf(err) != KindValidation {
		t.Fatalf("empty edit: %v", err)
	}

	updated, err := f.rooms.Update(ctx, ownerIdentity(), room.ID, map[string]any{"floor": "2", "description": "sea view"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Floor != "2" || updated.Description != "sea view" || updated.Status != models.RoomAvailable {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestDeleteRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b := f.open(t, "120", money.FromMajor(1000))
	wantErr(t, f.rooms.Delete(ctx, ownerIdentity(), b.RoomID), ErrRoomInUse)

	if _, err := f.billing.SettleRoom(ctx, ownerIdentity(), b.ID, SettleRoomRequest{}); err != nil {
		t.Fatalf("settle: %v", err)
	}
	wantErr(t, f.rooms.Delete(ctx, ownerIdentity(), b.RoomID), ErrRoomHasHistory)

	spare := f.room(t, "121")
	if err := f.rooms.Delete(ctx, ownerIdentity(), spare.ID); err != nil {
		t.Fatalf("delete spare: %v", err)
	}
	wantErr(t, f.rooms.Delete(ctx, ownerIdentity(), spare.ID), ErrRoomNotFound)
}

func TestListRoomsByStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.open(t, "130", money.FromMajor(1000))
	f.room(t, "131")

	occupied, err := f.rooms.List(ctx, ownerIdentity(), "occupied")
	if err != nil || len(occupied) != 1 || occupied[0].RoomNumber != "130" {
		t.Fatalf("occupied = %+v, %v", occupied, err)
	}
	if _, err := f.rooms.List(ctx, ownerIdentity(), "CLEANING"); KindOf(err) != KindValidation {
		t.Fatalf("bad status filter: %v", err)
	}
}

func TestRoomTypes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	types := NewRoomTypeService(f.db)

	rt, err := types.Create(ctx, ownerIdentity(), CreateRoomTypeRequest{TypeName: "Suite", BaseTariff: money.FromMajor(5000)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = types.Create(ctx, ownerIdentity(), CreateRoomTypeRequest{TypeName: "Suite"})
	if KindOf(err) != KindConflict {
		t.Fatalf("duplicate type: %v", err)
	}

	if _, err := f.rooms.Create(ctx, ownerIdentity(), CreateRoomRequest{RoomNumber: "140", RoomTypeID: &rt.ID}); err != nil {
		t.Fatalf("room: %v", err)
	}
	wantErr(t, types.Delete(ctx, ownerIdentity(), rt.ID), ErrRoomTypeInUse)

	unused, err := types.Create(ctx, ownerIdentity(), CreateRoomTypeRequest{TypeName: "Dorm"})
	if err != nil {
		t.Fatalf("create dorm: %v", err)
	}
	if err := types.Delete(ctx, ownerIdentity(), unused.ID); err != nil {
		t.Fatalf("delete unused: %v", err)
	}
	list, err := types.List(ctx, ownerIdentity())
	if err != nil || len(list) != 1 {
		t.Fatalf("types = %+v, %v", list, err)
	}
}
