package api

import (
	"encoding/json"
	"fmt"
	"net/http" // HTTP status codes
	"strconv"
	"strings"
	"time"

	"tourism_system/internal/domain"
	"tourism_system/internal/middleware"
	"tourism_system/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

const (
	packageListCacheKey = "packages:all" // Unfiltered listing; invalidated on package writes
	packageListCacheTTL = 60 * time.Second
	dashboardWindow     = 6 // Newest rows shown per section on the dashboard
)

// PackageResponse is the JSON shape served by /customer/api/packages.
type PackageResponse struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	Destination  string  `json:"destination"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days"`
}

// packageView decorates a package with display strings for the HTML pages.
type packageView struct {
	domain.TourismPackage
	CreatorName   string
	GuideNames    string
	GuideContacts string
	GuideRates    string
}

// hotelView decorates a hotel with a readable amenities string.
type hotelView struct {
	domain.Hotel
	AmenitiesDisplay string
}

// requireCustomerPage enforces the customer role on GET pages, redirecting
// other roles to their own dashboard.
func requireCustomerPage(c *gin.Context) *domain.User {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return nil
	}
	if user.Role != domain.RoleCustomer {
		utils.SetFlash(c, "danger", "Unauthorized")
		c.Redirect(http.StatusFound, user.Role.DashboardPath())
		c.Abort()
		return nil
	}
	return user
}

// filteredPackages applies the case-insensitive substring search over title,
// destination and description, newest first.
func filteredPackages(db *gorm.DB, q string) ([]domain.TourismPackage, error) {
	query := db.Model(&domain.TourismPackage{})
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(destination) LIKE ? OR LOWER(description) LIKE ?",
			like, like, like,
		)
	}
	var packages []domain.TourismPackage
	err := query.Order("created_at desc").Find(&packages).Error
	return packages, err
}

// creatorNames resolves package creator ids to usernames, best-effort: a
// missing creator simply yields an empty string.
func creatorNames(db *gorm.DB, packages []domain.TourismPackage) map[uint]string {
	ids := make([]uint, 0, len(packages))
	for _, p := range packages {
		if p.CreatedBy != nil {
			ids = append(ids, *p.CreatedBy)
		}
	}
	names := map[uint]string{}
	if len(ids) == 0 {
		return names
	}
	var users []domain.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return names
	}
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names
}

// packageGuides loads the guides attached to a package through the join table.
func packageGuides(db *gorm.DB, packageID uint) []domain.TouristGuide {
	var guides []domain.TouristGuide
	db.Joins("JOIN package_guides ON package_guides.guide_id = tourist_guides.id").
		Where("package_guides.package_id = ?", packageID).
		Find(&guides)
	return guides
}

func packageViews(db *gorm.DB, packages []domain.TourismPackage) []packageView {
	names := creatorNames(db, packages)
	views := make([]packageView, 0, len(packages))
	for _, p := range packages {
		v := packageView{TourismPackage: p}
		if p.CreatedBy != nil {
			v.CreatorName = names[*p.CreatedBy]
		}
		var guideNames, contacts, rates []string
		for _, g := range packageGuides(db, p.ID) {
			guideNames = append(guideNames, g.Name)
			contacts = append(contacts, g.ContactInfo)
			rates = append(rates, fmt.Sprintf("%.2f/day", g.RatePerDay))
		}
		v.GuideNames = strings.Join(guideNames, ", ")
		v.GuideContacts = strings.Join(contacts, ", ")
		v.GuideRates = strings.Join(rates, ", ")
		views = append(views, v)
	}
	return views
}

// CustomerDashboardHandler shows a bounded window of the newest packages and hotels.
func CustomerDashboardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireCustomerPage(c)
		if user == nil {
			return
		}
		var packages []domain.TourismPackage
		db.Order("created_at desc").Limit(dashboardWindow).Find(&packages)
		var hotels []domain.Hotel
		db.Order("created_at desc").Limit(dashboardWindow).Find(&hotels)

		hotelViews := make([]hotelView, 0, len(hotels))
		for _, h := range hotels {
			hotelViews = append(hotelViews, hotelView{Hotel: h, AmenitiesDisplay: amenitiesDisplay(h.Amenities)})
		}
		c.HTML(http.StatusOK, "customer_dashboard.html", pageData(c, gin.H{
			"Packages": packageViews(db, packages),
			"Hotels":   hotelViews,
		}))
	}
}

// CustomerPackagesHandler lists (optionally filtered) packages with their
// attached guides for the browse page.
func CustomerPackagesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireCustomerPage(c)
		if user == nil {
			return
		}
		q := c.Query("q")
		packages, err := filteredPackages(db, q)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "customer_packages.html", pageData(c, gin.H{"Packages": nil, "Query": q}))
			return
		}
		c.HTML(http.StatusOK, "customer_packages.html", pageData(c, gin.H{
			"Packages": packageViews(db, packages),
			"Query":    q,
		}))
	}
}

// CustomerAPIPackagesHandler serves the package listing as a JSON array,
// cached in Redis for the unfiltered case.
func CustomerAPIPackagesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		ctx := c.Request.Context()
		cacheKey := packageListCacheKey
		if q != "" {
			cacheKey = "packages:q:" + strings.ToLower(q)
		}
		var cached []PackageResponse
		if found, err := utils.CacheGet(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		packages, err := filteredPackages(db, q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch packages"})
			return
		}
		resp := make([]PackageResponse, 0, len(packages))
		for _, p := range packages {
			resp = append(resp, PackageResponse{
				ID:           p.ID,
				Title:        p.Title,
				Destination:  p.Destination,
				Description:  p.Description,
				Price:        p.Price,
				DurationDays: p.DurationDays,
			})
		}
		_ = utils.CacheSet(ctx, rdb, cacheKey, resp, packageListCacheTTL)
		c.JSON(http.StatusOK, resp)
	}
}

// BookPackageHandler records a pending booking for the current user.
// Accepts package_id as a form field or JSON body.
func BookPackageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		pidStr := c.PostForm("package_id")
		if pidStr == "" && isJSONRequest(c) {
			var body struct {
				PackageID json.Number `json:"package_id"`
			}
			if err := c.ShouldBindJSON(&body); err == nil {
				pidStr = body.PackageID.String()
			}
		}
		if pidStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "package_id is required"})
			return
		}
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		var pkg domain.TourismPackage
		if err := db.First(&pkg, pid).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		booking := domain.Booking{UserID: user.ID, PackageID: pkg.ID, Status: domain.BookingStatusPending}
		if err := db.Create(&booking).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":    user.ID,
				"package_id": pkg.ID,
				"error":      err.Error(),
			}).Error("Booking failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking failed"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"package_id": pkg.ID,
			"booking_id": booking.ID,
		}).Info("Package booked")
		c.JSON(http.StatusOK, gin.H{"message": "Booked successfully", "booking_id": booking.ID})
	}
}

// SearchHotelsHandler lists hotels matching a location substring. A blank
// location yields an empty result set rather than the full directory.
func SearchHotelsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireCustomerPage(c)
		if user == nil {
			return
		}
		location := c.Query("location")
		var hotels []domain.Hotel
		if location != "" {
			like := "%" + strings.ToLower(location) + "%"
			db.Where("LOWER(location) LIKE ?", like).Order("created_at desc").Find(&hotels)
		}
		views := make([]hotelView, 0, len(hotels))
		for _, h := range hotels {
			views = append(views, hotelView{Hotel: h, AmenitiesDisplay: amenitiesDisplay(h.Amenities)})
		}
		c.HTML(http.StatusOK, "customer_search_hotels.html", pageData(c, gin.H{
			"Hotels":         views,
			"SearchLocation": location,
		}))
	}
}

// CustomerProfileHandler renders the profile page.
func CustomerProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := requireCustomerPage(c)
		if user == nil {
			return
		}
		c.HTML(http.StatusOK, "customer_profile.html", pageData(c, nil))
	}
}
