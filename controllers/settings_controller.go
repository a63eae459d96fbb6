package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-billing/services"
)

type SettingsController struct {
	Settings *services.SettingsService
}

func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{Settings: settings}
}

func (sc *SettingsController) GetHotel(c *gin.Context) {
	hotel, err := sc.Settings.Get(c.Request.Context(), identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hotel": hotel})
}

func (sc *SettingsController) UpdateHotel(c *gin.Context) {
	var req services.UpdateHotelSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	hotel, err := sc.Settings.Update(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hotel": hotel})
}
