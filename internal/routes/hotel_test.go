package routes_test

import (
	"fmt"
	"net/http"
	"testing"

	"tourism_system/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) seedHotel(owner *domain.User, name string) *domain.Hotel {
	e.t.Helper()
	hotel := &domain.Hotel{UserID: &owner.ID, Name: name, Location: "Vienna", Amenities: []byte(`[]`)}
	require.NoError(e.t, e.db.Create(hotel).Error)
	return hotel
}

func (e *testEnv) seedHotelPackage(hotel *domain.Hotel, title string) *domain.HotelPackage {
	e.t.Helper()
	pkg := &domain.HotelPackage{HotelID: hotel.ID, Title: title, Price: 199.99, Amenities: []byte(`[]`)}
	require.NoError(e.t, e.db.Create(pkg).Error)
	return pkg
}

func TestHotelDashboardAutoProvisionsListing(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser("grandpalace", domain.RoleHotel)
	cookie := e.login("grandpalace")

	w := e.doForm(http.MethodGet, "/hotel/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var hotel domain.Hotel
	require.NoError(t, e.db.Where("user_id = ?", user.ID).First(&hotel).Error)
	assert.Equal(t, "grandpalace's Hotel", hotel.Name)

	// Second visit reuses the listing
	w = e.doForm(http.MethodGet, "/hotel/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var count int64
	e.db.Model(&domain.Hotel{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateHotelScopedToOwner(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser("grandpalace", domain.RoleHotel)
	e.createUser("rival", domain.RoleHotel)
	hotel := e.seedHotel(owner, "Grand Palace Hotel")
	rival := e.login("rival")

	w := e.doJSON(http.MethodPatch, fmt.Sprintf("/hotel/hotel/%d", hotel.ID), map[string]any{"name": "Hijacked"}, rival)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "unauthorized", decodeJSON(t, w)["error"])

	var reloaded domain.Hotel
	require.NoError(t, e.db.First(&reloaded, hotel.ID).Error)
	assert.Equal(t, "Grand Palace Hotel", reloaded.Name)

	ownerCookie := e.login("grandpalace")
	w = e.doJSON(http.MethodPatch, fmt.Sprintf("/hotel/hotel/%d", hotel.ID), map[string]any{
		"name":      "Grand Palace Resort",
		"amenities": "wifi, spa",
	}, ownerCookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, e.db.First(&reloaded, hotel.ID).Error)
	assert.Equal(t, "Grand Palace Resort", reloaded.Name)
	assert.JSONEq(t, `["wifi","spa"]`, string(reloaded.Amenities))
}

func TestDeleteHotelCascadesToPackages(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser("grandpalace", domain.RoleHotel)
	hotel := e.seedHotel(owner, "Grand Palace Hotel")
	e.seedHotelPackage(hotel, "Weekend Getaway")
	cookie := e.login("grandpalace")

	w := e.doJSON(http.MethodDelete, fmt.Sprintf("/hotel/hotel/%d", hotel.ID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var hotels, packages int64
	e.db.Model(&domain.Hotel{}).Count(&hotels)
	e.db.Model(&domain.HotelPackage{}).Count(&packages)
	assert.Zero(t, hotels)
	assert.Zero(t, packages)
}

func TestHotelPackageWrongOwner(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser("grandpalace", domain.RoleHotel)
	rivalUser := e.createUser("rival", domain.RoleHotel)
	hotel := e.seedHotel(owner, "Grand Palace Hotel")
	e.seedHotel(rivalUser, "Rival Inn")
	pkg := e.seedHotelPackage(hotel, "Weekend Getaway")
	rival := e.login("rival")

	w := e.doJSON(http.MethodPatch, fmt.Sprintf("/hotel/package/%d", pkg.ID), map[string]any{"title": "Hacked"}, rival)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "unauthorized", decodeJSON(t, w)["error"])

	w = e.doJSON(http.MethodDelete, fmt.Sprintf("/hotel/package/%d", pkg.ID), nil, rival)
	require.Equal(t, http.StatusForbidden, w.Code)

	var reloaded domain.HotelPackage
	require.NoError(t, e.db.First(&reloaded, pkg.ID).Error)
	assert.Equal(t, "Weekend Getaway", reloaded.Title)

	// Missing rows are a 404, not a 403
	w = e.doJSON(http.MethodPatch, "/hotel/package/9999", map[string]any{"title": "X"}, rival)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Hotel package not found", decodeJSON(t, w)["error"])
}

func TestUpdateHotelPackageRejectsInvalidPrice(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser("grandpalace", domain.RoleHotel)
	hotel := e.seedHotel(owner, "Grand Palace Hotel")
	pkg := e.seedHotelPackage(hotel, "Weekend Getaway")
	cookie := e.login("grandpalace")

	for _, price := range []string{"-5", "abc"} {
		w := e.doJSON(http.MethodPatch, fmt.Sprintf("/hotel/package/%d", pkg.ID), map[string]any{"price": price}, cookie)
		require.Equal(t, http.StatusBadRequest, w.Code, price)
		assert.Equal(t, "Invalid price", decodeJSON(t, w)["error"])
	}

	var reloaded domain.HotelPackage
	require.NoError(t, e.db.First(&reloaded, pkg.ID).Error)
	assert.Equal(t, 199.99, reloaded.Price)
}

func TestCreateHotelPackageRequiresListing(t *testing.T) {
	e := newTestEnv(t)
	e.createUser("grandpalace", domain.RoleHotel)
	cookie := e.login("grandpalace")

	w := e.doJSON(http.MethodPost, "/hotel/package", map[string]any{"title": "Weekend Getaway", "price": 199.99}, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Create your hotel first.", decodeJSON(t, w)["error"])
}

func TestCreateHotelPackageIgnoresForeignHotelID(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser("grandpalace", domain.RoleHotel)
	rivalUser := e.createUser("rival", domain.RoleHotel)
	e.seedHotel(owner, "Grand Palace Hotel")
	rivalHotel := e.seedHotel(rivalUser, "Rival Inn")
	cookie := e.login("grandpalace")

	// Naming someone else's hotel is refused outright
	w := e.doJSON(http.MethodPost, "/hotel/package", map[string]any{
		"hotel_id": rivalHotel.ID,
		"title":    "Weekend Getaway",
		"price":    199.99,
	}, cookie)
	require.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	e.db.Model(&domain.HotelPackage{}).Count(&count)
	assert.Zero(t, count)
}

func TestHotelDeletePackagePageAlias(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser("grandpalace", domain.RoleHotel)
	hotel := e.seedHotel(owner, "Grand Palace Hotel")
	pkg := e.seedHotelPackage(hotel, "Weekend Getaway")
	cookie := e.login("grandpalace")

	w := e.doForm(http.MethodGet, fmt.Sprintf("/hotel/delete-package/%d", pkg.ID), nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/hotel/dashboard", w.Header().Get("Location"))

	var count int64
	e.db.Model(&domain.HotelPackage{}).Count(&count)
	assert.Zero(t, count)
}
