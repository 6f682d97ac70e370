package server

const (
	RouteSignup  = "/signup"
	RouteSignin  = "/signin"
	RouteSignout = "/signout"
	RouteMe      = "/me"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSignin, ChainMiddleware(s.SigninHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSignout, ChainMiddleware(s.SignoutHandler(), s.APIMiddleware()...))

	// Protected routes go through the boundary guard
	s.RegisterRouteHandler("GET "+RouteMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireSession())...))
}
