package domain

// Role determines which surface of the application a user may write to.
type Role string

const (
	RoleCustomer       Role = "customer"
	RoleHotel          Role = "hotel"
	RolePackageManager Role = "package_manager"
)

// ParseRole maps a submitted string to a Role, reporting whether it is one of
// the three known values.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleHotel, RolePackageManager:
		return Role(s), true
	}
	return "", false
}

// LoginPath returns the login page that serves this role.
func (r Role) LoginPath() string {
	switch r {
	case RoleHotel:
		return "/login/hotel"
	case RolePackageManager:
		return "/login/manager"
	default:
		return "/login/customer"
	}
}

// DashboardPath returns the landing page for an authenticated user of this role.
func (r Role) DashboardPath() string {
	switch r {
	case RoleHotel:
		return "/hotel/dashboard"
	case RolePackageManager:
		return "/manager/dashboard"
	default:
		return "/customer/dashboard"
	}
}
