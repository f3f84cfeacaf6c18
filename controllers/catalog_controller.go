package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"amazonas-backend/store"
)

// CatalogController serves the read-only tour/accommodation catalog.
type CatalogController struct {
	Catalog store.CatalogStore
}

func NewCatalogController(catalog store.CatalogStore) *CatalogController {
	return &CatalogController{Catalog: catalog}
}

func (ctrl *CatalogController) GetTours(c *gin.Context) {
	tours, err := ctrl.Catalog.ListTours(store.TourFilters{
		Location: c.Query("location"),
		Category: c.Query("category"),
	})
	if err != nil {
		log.Printf("GetTours error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tours"})
		return
	}
	c.JSON(http.StatusOK, tours)
}

func (ctrl *CatalogController) GetTourByID(c *gin.Context) {
	tour, err := ctrl.Catalog.GetTour(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tour not found"})
			return
		}
		log.Printf("GetTourByID error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tour"})
		return
	}
	c.JSON(http.StatusOK, tour)
}

func (ctrl *CatalogController) GetAccommodations(c *gin.Context) {
	list, err := ctrl.Catalog.ListAccommodations()
	if err != nil {
		log.Printf("GetAccommodations error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accommodations"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctrl *CatalogController) GetAccommodationByID(c *gin.Context) {
	acc, err := ctrl.Catalog.GetAccommodation(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Accommodation not found"})
			return
		}
		log.Printf("GetAccommodationByID error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accommodation"})
		return
	}
	c.JSON(http.StatusOK, acc)
}
