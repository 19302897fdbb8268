package api

import (
	"errors"
	"net/http" // HTTP status codes
	"strconv"

	"tourism_system/internal/domain"
	"tourism_system/internal/middleware"
	"tourism_system/internal/utils"

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// requireHotelPage enforces the hotel role on GET pages.
func requireHotelPage(c *gin.Context) *domain.User {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return nil
	}
	if user.Role != domain.RoleHotel {
		utils.SetFlash(c, "danger", "Unauthorized")
		c.Redirect(http.StatusFound, user.Role.DashboardPath())
		c.Abort()
		return nil
	}
	return user
}

// ownedHotel returns the caller's hotel listing.
func ownedHotel(db *gorm.DB, userID uint) (*domain.Hotel, error) {
	var hotel domain.Hotel
	if err := db.Where("user_id = ?", userID).First(&hotel).Error; err != nil {
		return nil, err
	}
	return &hotel, nil
}

// ownsHotel reports whether the hotel row belongs to the user.
func ownsHotel(hotel *domain.Hotel, userID uint) bool {
	return hotel.UserID != nil && *hotel.UserID == userID
}

// hotelPackageForOwner loads a hotel package and checks, via its parent
// hotel, that it belongs to the caller. Splits not-found from wrong-owner so
// callers can answer 404 versus 403.
func hotelPackageForOwner(db *gorm.DB, packageID int, userID uint) (*domain.HotelPackage, bool, error) {
	var pkg domain.HotelPackage
	if err := db.First(&pkg, packageID).Error; err != nil {
		return nil, false, err
	}
	var hotel domain.Hotel
	if err := db.First(&hotel, pkg.HotelID).Error; err != nil {
		return nil, false, err
	}
	return &pkg, ownsHotel(&hotel, userID), nil
}

// HotelDashboardHandler shows the caller's hotel and its packages,
// auto-provisioning an empty listing on the first visit so every hotel user
// always has exactly one Hotel row.
func HotelDashboardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireHotelPage(c)
		if user == nil {
			return
		}
		hotel, err := ownedHotel(db, user.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hotel = &domain.Hotel{
				UserID:    &user.ID,
				Name:      user.Username + "'s Hotel",
				Amenities: amenitiesJSON(""),
			}
			if err := db.Create(hotel).Error; err != nil {
				logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to auto-provision hotel")
				c.HTML(http.StatusInternalServerError, "hotel_dashboard.html", pageData(c, nil))
				return
			}
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "hotel_id": hotel.ID}).Info("Auto-provisioned hotel listing")
		} else if err != nil {
			c.HTML(http.StatusInternalServerError, "hotel_dashboard.html", pageData(c, nil))
			return
		}
		var packages []domain.HotelPackage
		db.Where("hotel_id = ?", hotel.ID).Find(&packages)
		c.HTML(http.StatusOK, "hotel_dashboard.html", pageData(c, gin.H{
			"Hotel":            hotel,
			"Packages":         packages,
			"AmenitiesDisplay": amenitiesDisplay(hotel.Amenities),
		}))
	}
}

// HotelPackagesHandler lists the caller's hotel packages without provisioning.
func HotelPackagesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireHotelPage(c)
		if user == nil {
			return
		}
		var packages []domain.HotelPackage
		hotel, err := ownedHotel(db, user.ID)
		if err == nil {
			db.Where("hotel_id = ?", hotel.ID).Find(&packages)
		}
		c.HTML(http.StatusOK, "hotel_dashboard.html", pageData(c, gin.H{
			"Hotel":    hotel,
			"Packages": packages,
		}))
	}
}

// CreateHotelHandler creates a hotel listing owned by the caller.
func CreateHotelHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		data := payload(c)
		hotel := domain.Hotel{
			UserID:      &user.ID,
			Name:        data["name"],
			Location:    data["location"],
			Description: data["description"],
			ContactInfo: data["contact_info"],
			Amenities:   amenitiesJSON(data["amenities"]),
		}
		if err := db.Create(&hotel).Error; err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to create hotel")
			if isJSONRequest(c) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create hotel"})
				return
			}
			utils.SetFlash(c, "danger", "Failed to create hotel.")
			c.Redirect(http.StatusFound, "/hotel/dashboard")
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "hotel_id": hotel.ID}).Info("Hotel created")
		if isJSONRequest(c) {
			c.JSON(http.StatusCreated, gin.H{"message": "Hotel created", "hotel": hotel})
			return
		}
		utils.SetFlash(c, "success", "Hotel created.")
		c.Redirect(http.StatusFound, "/hotel/dashboard")
	}
}

// UpdateHotelHandler partially updates the caller's hotel: only submitted
// fields are written.
func UpdateHotelHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
			return
		}
		var hotel domain.Hotel
		if err := db.First(&hotel, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
			return
		}
		if !ownsHotel(&hotel, user.ID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}
		data := payload(c)
		updates := map[string]any{}
		for _, field := range []string{"name", "location", "description", "contact_info"} {
			if v, ok := data[field]; ok {
				updates[field] = v
			}
		}
		if v, ok := data["amenities"]; ok {
			updates["amenities"] = amenitiesJSON(v)
		}
		if len(updates) > 0 {
			if err := db.Model(&hotel).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update hotel"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Hotel updated"})
	}
}

// DeleteHotelHandler deletes the caller's hotel and, in the same transaction,
// its packages.
func DeleteHotelHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
			return
		}
		var hotel domain.Hotel
		if err := db.First(&hotel, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
			return
		}
		if !ownsHotel(&hotel, user.ID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("hotel_id = ?", hotel.ID).Delete(&domain.HotelPackage{}).Error; err != nil {
				return err
			}
			return tx.Delete(&hotel).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"hotel_id": hotel.ID, "error": err.Error()}).Error("Failed to delete hotel")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete hotel"})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "hotel_id": hotel.ID}).Info("Hotel deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Hotel deleted"})
	}
}

// CreateHotelPackageHandler creates a package under the caller's hotel. A
// submitted hotel_id is honored only when that hotel belongs to the caller.
func CreateHotelPackageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		data := payload(c)

		var hotel *domain.Hotel
		if hidStr, ok := data["hotel_id"]; ok && hidStr != "" {
			hid, err := strconv.Atoi(hidStr)
			if err != nil {
				hotelPackageFail(c, http.StatusNotFound, "Hotel not found.")
				return
			}
			var h domain.Hotel
			if err := db.First(&h, hid).Error; err != nil {
				hotelPackageFail(c, http.StatusNotFound, "Hotel not found.")
				return
			}
			if !ownsHotel(&h, user.ID) {
				hotelPackageFail(c, http.StatusForbidden, "Unauthorized")
				return
			}
			hotel = &h
		} else {
			h, err := ownedHotel(db, user.ID)
			if err != nil {
				hotelPackageFail(c, http.StatusNotFound, "Create your hotel first.")
				return
			}
			hotel = h
		}

		price, _ := parsePrice(data["price"])
		pkg := domain.HotelPackage{
			HotelID:     hotel.ID,
			Title:       data["title"],
			Description: data["description"],
			Price:       price,
			Amenities:   amenitiesJSON(data["amenities"]),
		}
		if err := db.Create(&pkg).Error; err != nil {
			logrus.WithFields(logrus.Fields{"hotel_id": hotel.ID, "error": err.Error()}).Error("Failed to create hotel package")
			hotelPackageFail(c, http.StatusInternalServerError, "Failed to create hotel package.")
			return
		}
		logrus.WithFields(logrus.Fields{"hotel_id": hotel.ID, "package_id": pkg.ID}).Info("Hotel package created")
		if isJSONRequest(c) {
			c.JSON(http.StatusCreated, gin.H{"message": "Hotel package created", "package": pkg})
			return
		}
		utils.SetFlash(c, "success", "Hotel package created.")
		c.Redirect(http.StatusFound, "/hotel/dashboard")
	}
}

func hotelPackageFail(c *gin.Context, status int, message string) {
	if isJSONRequest(c) {
		if status == http.StatusForbidden {
			c.JSON(status, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(status, gin.H{"error": message})
		return
	}
	utils.SetFlash(c, "danger", message)
	c.Redirect(http.StatusFound, "/hotel/dashboard")
}

// UpdateHotelPackageHandler partially updates a package scoped to the
// caller's hotel.
func UpdateHotelPackageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel package not found"})
			return
		}
		pkg, owned, err := hotelPackageForOwner(db, id, user.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel package not found"})
			return
		}
		if !owned {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}
		data := payload(c)
		updates := map[string]any{}
		for _, field := range []string{"title", "description"} {
			if v, ok := data[field]; ok {
				updates[field] = v
			}
		}
		if v, ok := data["price"]; ok {
			price, valid := parsePrice(v)
			if !valid {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			updates["price"] = price
		}
		if v, ok := data["amenities"]; ok {
			updates["amenities"] = amenitiesJSON(v)
		}
		if len(updates) > 0 {
			if err := db.Model(pkg).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update hotel package"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Hotel package updated"})
	}
}

// DeleteHotelPackageHandler deletes a package scoped to the caller's hotel.
func DeleteHotelPackageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel package not found"})
			return
		}
		pkg, owned, err := hotelPackageForOwner(db, id, user.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel package not found"})
			return
		}
		if !owned {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}
		if err := db.Delete(pkg).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete hotel package"})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "package_id": pkg.ID}).Info("Hotel package deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Hotel package deleted"})
	}
}

// HotelAddPackagePage renders the add-package form.
func HotelAddPackagePage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireHotelPage(c)
		if user == nil {
			return
		}
		hotel, _ := ownedHotel(db, user.ID)
		c.HTML(http.StatusOK, "hotel_add_package.html", pageData(c, gin.H{"Hotel": hotel}))
	}
}

// HotelEditPackagePage renders the edit form for one of the caller's packages.
func HotelEditPackagePage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireHotelPage(c)
		if user == nil {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			hotelPageNotFound(c, "Package not found.")
			return
		}
		pkg, owned, err := hotelPackageForOwner(db, id, user.ID)
		if err != nil {
			hotelPageNotFound(c, "Package not found.")
			return
		}
		if !owned {
			hotelPageNotFound(c, "Unauthorized")
			return
		}
		c.HTML(http.StatusOK, "hotel_edit_package.html", pageData(c, gin.H{
			"Package":          pkg,
			"AmenitiesDisplay": amenitiesDisplay(pkg.Amenities),
		}))
	}
}

// HotelDeletePackagePage is the template-facing GET alias for package
// deletion; page transport, so failures flash and redirect.
func HotelDeletePackagePage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireHotelPage(c)
		if user == nil {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			hotelPageNotFound(c, "Package not found.")
			return
		}
		pkg, owned, err := hotelPackageForOwner(db, id, user.ID)
		if err != nil {
			hotelPageNotFound(c, "Package not found.")
			return
		}
		if !owned {
			hotelPageNotFound(c, "Unauthorized")
			return
		}
		if err := db.Delete(pkg).Error; err != nil {
			hotelPageNotFound(c, "Failed to delete package.")
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "package_id": pkg.ID}).Info("Hotel package deleted")
		utils.SetFlash(c, "success", "Hotel package deleted.")
		c.Redirect(http.StatusFound, "/hotel/dashboard")
	}
}

func hotelPageNotFound(c *gin.Context, message string) {
	utils.SetFlash(c, "danger", message)
	c.Redirect(http.StatusFound, "/hotel/dashboard")
}
