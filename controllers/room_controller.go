package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-billing/services"
)

type RoomController struct {
	Rooms     *services.RoomService
	RoomTypes *services.RoomTypeService
}

func NewRoomController(rooms *services.RoomService, roomTypes *services.RoomTypeService) *RoomController {
	return &RoomController{Rooms: rooms, RoomTypes: roomTypes}
}

// ----------------------------------------------------
// Rooms
// ----------------------------------------------------

// GET /api/rooms?status=AVAILABLE
func (rc *RoomController) List(c *gin.Context) {
	rooms, err := rc.Rooms.List(c.Request.Context(), identity(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (rc *RoomController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.Get(c.Request.Context(), identity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) Create(c *gin.Context) {
	var req services.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	room, err := rc.Rooms.Create(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// PATCH /api/rooms/:id accepts roomNumber, roomTypeId, floor and description.
// Status is owned by bookings and cannot be edited here.
func (rc *RoomController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		badPayload(c, err)
		return
	}
	room, err := rc.Rooms.Update(c.Request.Context(), identity(c), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rc.Rooms.Delete(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
}

// ----------------------------------------------------
// Room types
// ----------------------------------------------------

func (rc *RoomController) ListTypes(c *gin.Context) {
	types, err := rc.RoomTypes.List(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (rc *RoomController) CreateType(c *gin.Context) {
	var req services.CreateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	rt, err := rc.RoomTypes.Create(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

func (rc *RoomController) DeleteType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rc.RoomTypes.Delete(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room type deleted"})
}
