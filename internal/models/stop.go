package models

// Stop represents a shuttle stop on campus
type Stop struct {
	StopID       string    `json:"stop_id" firestore:"stopId"`
	StopName     string    `json:"stop_name" firestore:"stopName"`
	Description  string    `json:"description,omitempty" firestore:"description"`
	Location     *GeoPoint `json:"location" firestore:"location"`
	Routes       []string  `json:"routes" firestore:"routes"`
	IsActive     bool      `json:"is_active" firestore:"isActive"`
	OrderInRoute int       `json:"order_in_route" firestore:"orderInRoute"`
	Landmark     string    `json:"landmark,omitempty" firestore:"landmark"`
}

// ServesRoute reports whether the stop is on the named route
func (s *Stop) ServesRoute(routeName string) bool {
	for _, r := range s.Routes {
		if r == routeName {
			return true
		}
	}
	return false
}

// AddRoute adds a route name if not already present
func (s *Stop) AddRoute(routeName string) {
	if !s.ServesRoute(routeName) {
		s.Routes = append(s.Routes, routeName)
	}
}

// RemoveRoute removes a route name if present
func (s *Stop) RemoveRoute(routeName string) {
	for i, r := range s.Routes {
		if r == routeName {
			s.Routes = append(s.Routes[:i], s.Routes[i+1:]...)
			return
		}
	}
}

// RouteCount returns the number of routes serving this stop
func (s *Stop) RouteCount() int {
	return len(s.Routes)
}

// HasLocation reports whether the stop has a usable coordinate
func (s *Stop) HasLocation() bool {
	return s.Location != nil
}
