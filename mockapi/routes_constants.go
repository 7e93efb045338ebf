package mockapi

// Backend route paths, relative to the API root.
const (
	RouteAuthLogin   = "/auth/login"
	RouteAuthRefresh = "/auth/refresh"

	RouteProductCount     = "/dash/getProductCount"
	RouteProductSalesUnit = "/dash/getProductSalesUnit"
	RouteProductRevenue   = "/dash/getProductRevenue"
	RouteUnitSold         = "/dash/getUnitSold"

	RouteProducts = "/users/products"
	RouteReview   = "/users/review"

	RouteGenerateOTP    = "/users/generateOtp"
	RouteVerifyOTP      = "/users/verifyOTP"
	RouteEditProfile    = "/users/editProfile"
	RouteChangePassword = "/users/changePassword"
)
