package geocode

// Coordinates is the geolocation a postal code resolves to.
// Timezone is the shift in seconds from UTC reported by the provider.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  int     `json:"timezone"`
}

// weatherResponse is the subset of the OpenWeather current-weather payload
// this client reads. Documentation: https://openweathermap.org/current
type weatherResponse struct {
	Coord struct {
		// City geo location, longitude
		Lon float64 `json:"lon"`
		// City geo location, latitude
		Lat float64 `json:"lat"`
	} `json:"coord"`
	// Shift in seconds from UTC
	Timezone int `json:"timezone"`
}
