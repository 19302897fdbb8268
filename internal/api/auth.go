package api

import (
	"net/http" // HTTP status codes

	"tourism_system/internal/domain"
	"tourism_system/internal/middleware"
	"tourism_system/internal/utils"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// establishSession mints a session token for the user, records the revocable
// session id in Redis and sets the session cookie.
func establishSession(c *gin.Context, rdb *redis.Client, user *domain.User, secret string) (string, error) {
	token, sessionID, err := utils.GenerateSessionToken(user, secret)
	if err != nil {
		return "", err
	}
	if err := utils.CacheSet(c.Request.Context(), rdb, utils.SessionKeyPrefix+sessionID, user.ID, utils.SessionTTL); err != nil {
		return "", err
	}
	c.SetCookie(middleware.SessionCookie, token, int(utils.SessionTTL.Seconds()), "/", "", false, true)
	return token, nil
}

// IndexHandler serves the landing page, or sends an authenticated user
// straight to their dashboard.
func IndexHandler(db *gorm.DB, rdb *redis.Client, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := middleware.LookupSession(c, db, rdb, secret); user != nil {
			c.Redirect(http.StatusFound, user.Role.DashboardPath())
			return
		}
		c.HTML(http.StatusOK, "landing.html", pageData(c, nil))
	}
}

// LandingAliasHandler keeps the template-facing /landing path working.
func LandingAliasHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	}
}

// SelectRoleHandler routes the landing-page role picker to the matching login page.
func SelectRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := domain.ParseRole(c.PostForm("role"))
		if !ok {
			utils.SetFlash(c, "danger", "Invalid role selected.")
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.Redirect(http.StatusFound, role.LoginPath())
	}
}

// signupFlow creates a user account. When fixedRole is empty the role comes
// from the submitted form (defaulting to customer).
func signupFlow(c *gin.Context, db *gorm.DB, fixedRole domain.Role, backPath, loginPath string) {
	data := payload(c)
	username := data["username"]
	email := data["email"]
	password := data["password"]

	role := fixedRole
	if role == "" {
		submitted := data["role"]
		if submitted == "" {
			submitted = string(domain.RoleCustomer)
		}
		parsed, ok := domain.ParseRole(submitted)
		if !ok {
			signupFail(c, http.StatusBadRequest, "danger", "Invalid input.", backPath)
			return
		}
		role = parsed
	}
	if username == "" || email == "" || password == "" {
		signupFail(c, http.StatusBadRequest, "danger", "Invalid input.", backPath)
		return
	}

	// Uniqueness across both username and email; no partial write on conflict
	var existing domain.User
	if err := db.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
		signupFail(c, http.StatusConflict, "warning", "Username or email already exists.", backPath)
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		signupFail(c, http.StatusInternalServerError, "danger", "Signup failed.", backPath)
		return
	}
	user := domain.User{Username: username, Email: email, Password: hash, Role: role}
	if err := db.Create(&user).Error; err != nil {
		// Unique index race loses here; same outward behavior as the pre-check
		signupFail(c, http.StatusConflict, "warning", "Username or email already exists.", backPath)
		return
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("User signed up")

	if isJSONRequest(c) {
		c.JSON(http.StatusCreated, gin.H{"message": "Signup successful. Please log in.", "id": user.ID})
		return
	}
	utils.SetFlash(c, "success", "Signup successful. Please log in.")
	c.Redirect(http.StatusFound, loginPath)
}

func signupFail(c *gin.Context, status int, category, message, backPath string) {
	if isJSONRequest(c) {
		c.JSON(status, gin.H{"error": message})
		return
	}
	utils.SetFlash(c, category, message)
	c.Redirect(http.StatusFound, backPath)
}

// SignupHandler is the generic signup page; the form may carry a role field.
func SignupHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.HTML(http.StatusOK, "customer_signup.html", pageData(c, nil))
			return
		}
		signupFlow(c, db, "", "/signup", "/login")
	}
}

// RoleSignupHandler serves the customer and manager signup variants.
func RoleSignupHandler(db *gorm.DB, role domain.Role, template, backPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.HTML(http.StatusOK, template, pageData(c, nil))
			return
		}
		signupFlow(c, db, role, backPath, role.LoginPath())
	}
}

// HotelSignupHandler creates the hotel-operator account together with its
// Hotel listing in one transaction.
func HotelSignupHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.HTML(http.StatusOK, "hotel_signup.html", pageData(c, nil))
			return
		}
		data := payload(c)
		username := data["username"]
		email := data["email"]
		password := data["password"]
		if username == "" || email == "" || password == "" {
			signupFail(c, http.StatusBadRequest, "danger", "Invalid input.", "/signup/hotel")
			return
		}
		var existing domain.User
		if err := db.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
			signupFail(c, http.StatusConflict, "warning", "Username or email already exists.", "/signup/hotel")
			return
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			signupFail(c, http.StatusInternalServerError, "danger", "Signup failed.", "/signup/hotel")
			return
		}

		hotelName := data["hotel_name"]
		if hotelName == "" {
			hotelName = username + "'s Hotel"
		}
		user := domain.User{Username: username, Email: email, Password: hash, Role: domain.RoleHotel}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			hotel := domain.Hotel{
				UserID:      &user.ID,
				Name:        hotelName,
				Location:    data["location"],
				Description: data["description"],
				ContactInfo: data["contact_info"],
				Amenities:   amenitiesJSON(data["amenities"]),
			}
			return tx.Create(&hotel).Error
		})
		if err != nil {
			signupFail(c, http.StatusConflict, "warning", "Username or email already exists.", "/signup/hotel")
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": domain.RoleHotel}).Info("Hotel account signed up")

		if isJSONRequest(c) {
			c.JSON(http.StatusCreated, gin.H{"message": "Hotel account created. Please log in.", "id": user.ID})
			return
		}
		utils.SetFlash(c, "success", "Hotel account created. Please log in.")
		c.Redirect(http.StatusFound, "/login/hotel")
	}
}

// loginFlow authenticates by username or email. Unknown identifier and wrong
// password fail identically so the response never leaks whether the account
// exists. Legacy rows holding a plaintext password are accepted once and
// rewritten as a bcrypt hash.
func loginFlow(c *gin.Context, db *gorm.DB, rdb *redis.Client, secret string, expected domain.Role, backPath string) {
	data := payload(c)
	identifier := data["username"]
	if identifier == "" {
		identifier = data["email"]
	}
	password := data["password"]

	fail := func(status int, message string) {
		if isJSONRequest(c) {
			c.JSON(status, gin.H{"error": message})
			return
		}
		utils.SetFlash(c, "danger", message)
		c.Redirect(http.StatusFound, backPath)
	}

	var user domain.User
	if err := db.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error; err != nil {
		fail(http.StatusUnauthorized, "Invalid credentials.")
		return
	}
	if !utils.CheckPassword(user.Password, password) {
		// Legacy plaintext row: accept and upgrade the stored value
		if user.Password != password || password == "" {
			fail(http.StatusUnauthorized, "Invalid credentials.")
			return
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			fail(http.StatusInternalServerError, "Login failed.")
			return
		}
		if err := db.Model(&user).Update("password", hash).Error; err != nil {
			fail(http.StatusInternalServerError, "Login failed.")
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Upgraded legacy plaintext password")
	}
	if expected != "" && user.Role != expected {
		fail(http.StatusForbidden, "Invalid role for this login page.")
		return
	}

	token, err := establishSession(c, rdb, &user, secret)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to establish session")
		fail(http.StatusInternalServerError, "Login failed.")
		return
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User logged in")

	if isJSONRequest(c) {
		c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role})
		return
	}
	c.Redirect(http.StatusFound, "/post-login")
}

// LoginHandler is the generic role-agnostic login page.
func LoginHandler(db *gorm.DB, rdb *redis.Client, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.HTML(http.StatusOK, "customer_login.html", pageData(c, nil))
			return
		}
		loginFlow(c, db, rdb, secret, "", "/login")
	}
}

// RoleLoginHandler serves the per-role login pages, which additionally verify
// that the authenticated account carries the page's role.
func RoleLoginHandler(db *gorm.DB, rdb *redis.Client, secret string, role domain.Role, template, backPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.HTML(http.StatusOK, template, pageData(c, nil))
			return
		}
		loginFlow(c, db, rdb, secret, role, backPath)
	}
}

// LogoutHandler revokes the session record and clears the cookie. Safe to
// call without a live session.
func LogoutHandler(rdb *redis.Client, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, err := c.Cookie(middleware.SessionCookie); err == nil && tokenStr != "" {
			if claims, err := utils.ParseSessionToken(tokenStr, secret); err == nil {
				_ = utils.CacheDel(c.Request.Context(), rdb, utils.SessionKeyPrefix+claims.ID)
			}
		}
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
		c.Redirect(http.StatusFound, "/login")
	}
}

// PostLoginHandler forwards an authenticated user to the dashboard for their role.
func PostLoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		c.Redirect(http.StatusFound, user.Role.DashboardPath())
	}
}
