package routes

import (
	"net/http"

	"tourism_system/internal/api"
	"tourism_system/internal/config"
	"tourism_system/internal/domain"
	"tourism_system/internal/middleware"

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// SetupRouter builds the full route table. Every path, including the
// template-facing aliases, is bound to its handler here at startup.
// templatesGlob may be empty when no HTML rendering is needed (tests).
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config, templatesGlob string) *gin.Engine {
	r := gin.Default()
	if templatesGlob != "" {
		r.LoadHTMLGlob(templatesGlob)
	}
	r.Static("/static", "./static")

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public auth surface
	r.GET("/", api.IndexHandler(db, rdb, cfg.SecretKey))
	r.GET("/landing", api.LandingAliasHandler())
	r.POST("/select-role", api.SelectRoleHandler())
	r.GET("/login", api.LoginHandler(db, rdb, cfg.SecretKey))
	r.POST("/login", api.LoginHandler(db, rdb, cfg.SecretKey))
	r.GET("/signup", api.SignupHandler(db))
	r.POST("/signup", api.SignupHandler(db))
	r.GET("/logout", api.LogoutHandler(rdb, cfg.SecretKey))

	// Role-specific login/signup variants
	for _, route := range []struct {
		role     domain.Role
		path     string
		template string
	}{
		{domain.RoleCustomer, "customer", "customer_login.html"},
		{domain.RoleHotel, "hotel", "hotel_login.html"},
		{domain.RolePackageManager, "manager", "manager_login.html"},
	} {
		login := api.RoleLoginHandler(db, rdb, cfg.SecretKey, route.role, route.template, "/login/"+route.path)
		r.GET("/login/"+route.path, login)
		r.POST("/login/"+route.path, login)
	}
	customerSignup := api.RoleSignupHandler(db, domain.RoleCustomer, "customer_signup.html", "/signup/customer")
	r.GET("/signup/customer", customerSignup)
	r.POST("/signup/customer", customerSignup)
	hotelSignup := api.HotelSignupHandler(db)
	r.GET("/signup/hotel", hotelSignup)
	r.POST("/signup/hotel", hotelSignup)
	managerSignup := api.RoleSignupHandler(db, domain.RolePackageManager, "manager_signup.html", "/signup/manager")
	r.GET("/signup/manager", managerSignup)
	r.POST("/signup/manager", managerSignup)

	sessionAuth := middleware.SessionAuth(db, rdb, cfg.SecretKey)
	r.GET("/post-login", sessionAuth, api.PostLoginHandler())

	// Customer surface: session required; GETs verify the role per-handler
	customer := r.Group("/customer", sessionAuth)
	customer.GET("/dashboard", api.CustomerDashboardHandler(db))
	customer.GET("/packages", api.CustomerPackagesHandler(db))
	customer.GET("/api/packages", api.CustomerAPIPackagesHandler(db, rdb))
	customer.POST("/book", api.BookPackageHandler(db))
	customer.GET("/search-hotels", api.SearchHotelsHandler(db))
	customer.GET("/profile", api.CustomerProfileHandler())

	// Hotel surface: writes additionally require the hotel role
	hotel := r.Group("/hotel", sessionAuth, middleware.RequireRoleForWrites(domain.RoleHotel))
	hotel.GET("/dashboard", api.HotelDashboardHandler(db))
	hotel.POST("/hotel", api.CreateHotelHandler(db))
	hotel.PUT("/hotel/:id", api.UpdateHotelHandler(db))
	hotel.PATCH("/hotel/:id", api.UpdateHotelHandler(db))
	hotel.DELETE("/hotel/:id", api.DeleteHotelHandler(db))
	hotel.GET("/packages", api.HotelPackagesHandler(db))
	hotel.POST("/package", api.CreateHotelPackageHandler(db))
	hotel.PUT("/package/:id", api.UpdateHotelPackageHandler(db))
	hotel.PATCH("/package/:id", api.UpdateHotelPackageHandler(db))
	hotel.DELETE("/package/:id", api.DeleteHotelPackageHandler(db))
	hotel.GET("/add-package", api.HotelAddPackagePage(db))
	hotel.GET("/edit-package/:id", api.HotelEditPackagePage(db))
	hotel.GET("/delete-package/:id", api.HotelDeletePackagePage(db))

	// Package-manager surface
	manager := r.Group("/manager", sessionAuth, middleware.RequireRoleForWrites(domain.RolePackageManager))
	manager.GET("/dashboard", api.ManagerDashboardHandler(db))
	manager.POST("/package", api.CreateTourismPackageHandler(db, rdb))
	manager.PUT("/package/:id", api.UpdateTourismPackageHandler(db, rdb))
	manager.PATCH("/package/:id", api.UpdateTourismPackageHandler(db, rdb))
	manager.DELETE("/package/:id", api.DeleteTourismPackageHandler(db, rdb))
	manager.POST("/guide", api.CreateGuideHandler(db))
	manager.PUT("/guide/:id", api.UpdateGuideHandler(db))
	manager.PATCH("/guide/:id", api.UpdateGuideHandler(db))
	manager.DELETE("/guide/:id", api.DeleteGuideHandler(db))
	manager.POST("/package/:id/guides", api.AttachGuideHandler(db))
	manager.DELETE("/package/:id/guides/:guide_id", api.DetachGuideHandler(db))
	manager.GET("/add-package", api.ManagerAddPackagePage(db))
	manager.GET("/add-guide", api.ManagerAddGuidePage())
	manager.GET("/edit-package/:id", api.ManagerEditPackagePage(db))
	manager.GET("/edit-guide/:id", api.ManagerEditGuidePage(db))
	manager.GET("/delete-package/:id", api.ManagerDeletePackagePage(db, rdb))
	manager.GET("/delete-guide/:id", api.ManagerDeleteGuidePage(db))

	return r
}
