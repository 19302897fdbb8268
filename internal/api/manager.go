package api

import (
	"net/http" // HTTP status codes
	"strconv"

	"tourism_system/internal/domain"
	"tourism_system/internal/middleware"
	"tourism_system/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// requireManagerPage enforces the package_manager role on GET pages.
func requireManagerPage(c *gin.Context) *domain.User {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return nil
	}
	if user.Role != domain.RolePackageManager {
		utils.SetFlash(c, "danger", "Unauthorized")
		c.Redirect(http.StatusFound, user.Role.DashboardPath())
		c.Abort()
		return nil
	}
	return user
}

// tourismPackageForCreator loads a tourism package and checks it was created
// by the caller, distinguishing not-found from wrong-creator.
func tourismPackageForCreator(db *gorm.DB, packageID int, userID uint) (*domain.TourismPackage, bool, error) {
	var pkg domain.TourismPackage
	if err := db.First(&pkg, packageID).Error; err != nil {
		return nil, false, err
	}
	owned := pkg.CreatedBy != nil && *pkg.CreatedBy == userID
	return &pkg, owned, nil
}

// invalidatePackageCache drops the cached unfiltered listing after a package
// write. Filtered search results simply age out via their TTL.
func invalidatePackageCache(c *gin.Context, rdb *redis.Client) {
	_ = utils.CacheDel(c.Request.Context(), rdb, packageListCacheKey)
}

// ManagerDashboardHandler shows the caller's packages and the shared guide directory.
func ManagerDashboardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireManagerPage(c)
		if user == nil {
			return
		}
		var packages []domain.TourismPackage
		db.Where("created_by = ?", user.ID).Order("created_at desc").Find(&packages)
		var guides []domain.TouristGuide
		db.Order("created_at desc").Find(&guides)
		c.HTML(http.StatusOK, "manager_dashboard.html", pageData(c, gin.H{
			"Packages": packages,
			"Guides":   guides,
		}))
	}
}

// CreateTourismPackageHandler creates a package curated by the caller,
// optionally attaching guides from a guide_ids checkbox list. Non-integer
// guide ids are silently skipped.
func CreateTourismPackageHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		var guideIDs []string
		if !isJSONRequest(c) {
			guideIDs = c.PostFormArray("guide_ids")
		}
		data := payload(c)
		price, _ := parsePrice(data["price"])
		duration, _ := strconv.Atoi(data["duration_days"])
		pkg := domain.TourismPackage{
			Title:        data["title"],
			Destination:  data["destination"],
			Description:  data["description"],
			Price:        price,
			DurationDays: duration,
			CreatedBy:    &user.ID,
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&pkg).Error; err != nil {
				return err
			}
			for _, raw := range guideIDs {
				gid, err := strconv.Atoi(raw)
				if err != nil {
					continue // Skip malformed checkbox values
				}
				assoc := domain.PackageGuide{PackageID: pkg.ID, GuideID: uint(gid)}
				if err := tx.Create(&assoc).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to create package")
			managerFail(c, http.StatusInternalServerError, "Failed to create package.")
			return
		}
		invalidatePackageCache(c, rdb)
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "package_id": pkg.ID}).Info("Tourism package created")
		if isJSONRequest(c) {
			c.JSON(http.StatusCreated, gin.H{"message": "Package created", "package": pkg})
			return
		}
		utils.SetFlash(c, "success", "Package created.")
		c.Redirect(http.StatusFound, "/manager/dashboard")
	}
}

func managerFail(c *gin.Context, status int, message string) {
	if isJSONRequest(c) {
		c.JSON(status, gin.H{"error": message})
		return
	}
	utils.SetFlash(c, "danger", message)
	c.Redirect(http.StatusFound, "/manager/dashboard")
}

// UpdateTourismPackageHandler partially updates a package the caller created.
func UpdateTourismPackageHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		pkg, owned, err := tourismPackageForCreator(db, id, user.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		if !owned {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}
		data := payload(c)
		updates := map[string]any{}
		for _, field := range []string{"title", "destination", "description"} {
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
		if v, ok := data["duration_days"]; ok {
			if duration, err := strconv.Atoi(v); err == nil {
				updates["duration_days"] = duration
			}
		}
		if len(updates) > 0 {
			if err := db.Model(pkg).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update package"})
				return
			}
		}
		invalidatePackageCache(c, rdb)
		c.JSON(http.StatusOK, gin.H{"message": "Package updated"})
	}
}

// deleteTourismPackage removes a package with its guide associations and
// bookings in one transaction.
func deleteTourismPackage(db *gorm.DB, pkg *domain.TourismPackage) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("package_id = ?", pkg.ID).Delete(&domain.PackageGuide{}).Error; err != nil {
			return err
		}
		if err := tx.Where("package_id = ?", pkg.ID).Delete(&domain.Booking{}).Error; err != nil {
			return err
		}
		return tx.Delete(pkg).Error
	})
}

// DeleteTourismPackageHandler deletes a package the caller created, cascading
// to its guide associations and bookings.
func DeleteTourismPackageHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		pkg, owned, err := tourismPackageForCreator(db, id, user.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		if !owned {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}
		if err := deleteTourismPackage(db, pkg); err != nil {
			logrus.WithFields(logrus.Fields{"package_id": pkg.ID, "error": err.Error()}).Error("Failed to delete package")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete package"})
			return
		}
		invalidatePackageCache(c, rdb)
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "package_id": pkg.ID}).Info("Tourism package deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Package deleted"})
	}
}

// CreateGuideHandler adds a guide to the shared directory.
func CreateGuideHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		data := payload(c)
		rate, _ := parsePrice(data["rate_per_day"])
		years, _ := strconv.Atoi(data["experience_years"])
		guide := domain.TouristGuide{
			Name:            data["name"],
			ContactInfo:     data["contact_info"],
			RatePerDay:      rate,
			Specialization:  data["specialization"],
			ExperienceYears: years,
		}
		if err := db.Create(&guide).Error; err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to create guide")
			managerFail(c, http.StatusInternalServerError, "Failed to create guide.")
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "guide_id": guide.ID}).Info("Guide created")
		if isJSONRequest(c) {
			c.JSON(http.StatusCreated, gin.H{"message": "Guide created", "guide": guide})
			return
		}
		utils.SetFlash(c, "success", "Guide created.")
		c.Redirect(http.StatusFound, "/manager/dashboard")
	}
}

// UpdateGuideHandler partially updates a guide. Guides are a shared
// directory: any package manager may edit any guide.
func UpdateGuideHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
			return
		}
		var guide domain.TouristGuide
		if err := db.First(&guide, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
			return
		}
		data := payload(c)
		updates := map[string]any{}
		for _, field := range []string{"name", "contact_info", "specialization"} {
			if v, ok := data[field]; ok {
				updates[field] = v
			}
		}
		if v, ok := data["rate_per_day"]; ok {
			rate, valid := parsePrice(v)
			if !valid {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rate"})
				return
			}
			updates["rate_per_day"] = rate
		}
		if v, ok := data["experience_years"]; ok {
			if years, err := strconv.Atoi(v); err == nil {
				updates["experience_years"] = years
			}
		}
		if len(updates) > 0 {
			if err := db.Model(&guide).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update guide"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Guide updated"})
	}
}

// DeleteGuideHandler removes a guide and its package associations.
func DeleteGuideHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
			return
		}
		var guide domain.TouristGuide
		if err := db.First(&guide, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
			return
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("guide_id = ?", guide.ID).Delete(&domain.PackageGuide{}).Error; err != nil {
				return err
			}
			return tx.Delete(&guide).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"guide_id": guide.ID, "error": err.Error()}).Error("Failed to delete guide")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete guide"})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "guide_id": guide.ID}).Info("Guide deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Guide deleted"})
	}
}

// AttachGuideHandler links a guide to a package the caller created.
func AttachGuideHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		pkg, owned, err := tourismPackageForCreator(db, id, user.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		if !owned {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}
		data := payload(c)
		gidStr, ok := data["guide_id"]
		if !ok || gidStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guide_id required"})
			return
		}
		gid, err := strconv.Atoi(gidStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guide_id required"})
			return
		}
		var guide domain.TouristGuide
		if err := db.First(&guide, gid).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
			return
		}
		assoc := domain.PackageGuide{PackageID: pkg.ID, GuideID: guide.ID}
		if err := db.Create(&assoc).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach guide"})
			return
		}
		logrus.WithFields(logrus.Fields{"package_id": pkg.ID, "guide_id": guide.ID}).Info("Guide attached")
		c.JSON(http.StatusOK, gin.H{"message": "Guide attached"})
	}
}

// DetachGuideHandler removes a specific (package, guide) association; absent
// pairs are a not-found.
func DetachGuideHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		gid, err := strconv.Atoi(c.Param("guide_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Association not found"})
			return
		}
		pkg, owned, err := tourismPackageForCreator(db, id, user.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		if !owned {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}
		var assoc domain.PackageGuide
		if err := db.Where("package_id = ? AND guide_id = ?", pkg.ID, gid).First(&assoc).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Association not found"})
			return
		}
		if err := db.Delete(&assoc).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detach guide"})
			return
		}
		logrus.WithFields(logrus.Fields{"package_id": pkg.ID, "guide_id": gid}).Info("Guide detached")
		c.JSON(http.StatusOK, gin.H{"message": "Guide detached"})
	}
}

// ManagerAddPackagePage renders the add-package form with the guide checklist.
func ManagerAddPackagePage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireManagerPage(c)
		if user == nil {
			return
		}
		var guides []domain.TouristGuide
		db.Order("created_at desc").Find(&guides)
		c.HTML(http.StatusOK, "manager_add_package.html", pageData(c, gin.H{"Guides": guides}))
	}
}

// ManagerAddGuidePage renders the add-guide form.
func ManagerAddGuidePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := requireManagerPage(c); user == nil {
			return
		}
		c.HTML(http.StatusOK, "manager_add_guide.html", pageData(c, nil))
	}
}

// ManagerEditPackagePage renders the edit form for one of the caller's packages.
func ManagerEditPackagePage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireManagerPage(c)
		if user == nil {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			managerPageNotFound(c, "Package not found.")
			return
		}
		pkg, owned, err := tourismPackageForCreator(db, id, user.ID)
		if err != nil {
			managerPageNotFound(c, "Package not found.")
			return
		}
		if !owned {
			managerPageNotFound(c, "Unauthorized")
			return
		}
		c.HTML(http.StatusOK, "manager_edit_package.html", pageData(c, gin.H{"Package": pkg}))
	}
}

// ManagerEditGuidePage renders the edit form for a guide.
func ManagerEditGuidePage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := requireManagerPage(c); user == nil {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			managerPageNotFound(c, "Guide not found.")
			return
		}
		var guide domain.TouristGuide
		if err := db.First(&guide, id).Error; err != nil {
			managerPageNotFound(c, "Guide not found.")
			return
		}
		c.HTML(http.StatusOK, "manager_edit_guide.html", pageData(c, gin.H{"Guide": guide}))
	}
}

// ManagerDeletePackagePage is the template-facing GET alias for package deletion.
func ManagerDeletePackagePage(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireManagerPage(c)
		if user == nil {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			managerPageNotFound(c, "Package not found.")
			return
		}
		pkg, owned, err := tourismPackageForCreator(db, id, user.ID)
		if err != nil {
			managerPageNotFound(c, "Package not found.")
			return
		}
		if !owned {
			managerPageNotFound(c, "Unauthorized")
			return
		}
		if err := deleteTourismPackage(db, pkg); err != nil {
			managerPageNotFound(c, "Failed to delete package.")
			return
		}
		invalidatePackageCache(c, rdb)
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "package_id": pkg.ID}).Info("Tourism package deleted")
		utils.SetFlash(c, "success", "Package deleted.")
		c.Redirect(http.StatusFound, "/manager/dashboard")
	}
}

// ManagerDeleteGuidePage is the template-facing GET alias for guide deletion.
func ManagerDeleteGuidePage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireManagerPage(c)
		if user == nil {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			managerPageNotFound(c, "Guide not found.")
			return
		}
		var guide domain.TouristGuide
		if err := db.First(&guide, id).Error; err != nil {
			managerPageNotFound(c, "Guide not found.")
			return
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("guide_id = ?", guide.ID).Delete(&domain.PackageGuide{}).Error; err != nil {
				return err
			}
			return tx.Delete(&guide).Error
		})
		if err != nil {
			managerPageNotFound(c, "Failed to delete guide.")
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "guide_id": guide.ID}).Info("Guide deleted")
		utils.SetFlash(c, "success", "Guide deleted.")
		c.Redirect(http.StatusFound, "/manager/dashboard")
	}
}

func managerPageNotFound(c *gin.Context, message string) {
	utils.SetFlash(c, "danger", message)
	c.Redirect(http.StatusFound, "/manager/dashboard")
}
