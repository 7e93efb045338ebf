package server

// Route path constants
// All console routes are defined here to ensure consistency and prevent typos
const (
	// Session routes, never guarded
	RouteIndex  = "/"
	RouteLogin  = "/login"
	RouteLogout = "/logout"

	// Screens, guarded by the permitted screen list
	RouteDashboard = "/dashboard"
	RouteProducts  = "/products"
	RouteReviews   = "/products/{id}/reviews"
	RouteProfile   = "/profile"

	// Profile actions, guarded as part of the profile screen
	RouteProfileOTP       = "/profile/otp"
	RouteProfileOTPVerify = "/profile/otp/verify"
	RouteProfileEdit      = "/profile/edit"
	RouteProfilePassword  = "/profile/password"

	RouteMetrics = "/metrics"
)
