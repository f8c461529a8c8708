package models

// Role identifies which dashboard a user belongs to.
type Role string

const (
	RoleFarmer      Role = "farmer"
	RoleDistributor Role = "distributor"
	RoleConsumer    Role = "consumer"
)

// Routes users land on after sign-in.
const (
	RouteHome                 = "/"
	RouteSelectRole           = "/set-role"
	RouteFarmerDashboard      = "/farmer-dashboard"
	RouteDistributorDashboard = "/distributor-dashboard"
	RouteConsumerDashboard    = "/consumer-dashboard"
)

var dashboardRoutes = map[Role]string{
	RoleFarmer:      RouteFarmerDashboard,
	RoleDistributor: RouteDistributorDashboard,
	RoleConsumer:    RouteConsumerDashboard,
}

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, bool) {
	switch r := Role(raw); r {
	case RoleFarmer, RoleDistributor, RoleConsumer:
		return r, true
	default:
		return "", false
	}
}

// RouteFor maps an authentication state and role claim to a navigation
// target. Unauthenticated sessions stay on the home route; authenticated
// sessions without a recognized role are sent to role selection.
func RouteFor(isAuthenticated bool, role Role) string {
	if !isAuthenticated {
		return RouteHome
	}
	if route, ok := dashboardRoutes[role]; ok {
		return route
	}
	return RouteSelectRole
}
