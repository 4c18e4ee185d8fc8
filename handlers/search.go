package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JaneshKapoor/nayraa/services"
)

// SearchHandler backs the location search bar: free text in, first geocode
// match plus viewport region and summary text out.
type SearchHandler struct {
	geocoder *services.GeocoderClient
}

func NewSearchHandler(geocoder *services.GeocoderClient) *SearchHandler {
	return &SearchHandler{geocoder: geocoder}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")

	result, err := h.geocoder.Search(c.Request.Context(), query)
	switch {
	case errors.Is(err, services.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a location"})
		return
	case errors.Is(err, services.ErrNoResults):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Location not found",
			"message": "Please try a different search term",
		})
		return
	case err != nil:
		log.Printf("[search] geocode lookup failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to search location. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"region":  services.RegionAround(result.Coordinates),
		"summary": services.SearchSummary(result),
	})
}
