package constants

// Shared route and cookie names
const (
	APIBasePath = "/api/v1"

	// AdminCookieName carries the legacy shared admin secret; the
	// session-based login is the preferred mechanism but existing
	// admin clients still send this cookie.
	AdminCookieName = "roamly_admin"

	// SessionKeyIsAdmin marks an authenticated admin session.
	SessionKeyIsAdmin = "is_admin"

	// StorefrontCachePrefix namespaces all cached public listing
	// responses so they can be invalidated with one pattern delete.
	StorefrontCachePrefix = "storefront:packages"
)
