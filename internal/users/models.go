package users

// User represents a directory entry enriched with geolocation data derived
// from its zip code. Latitude, longitude and timezone are never supplied by
// the caller; they are recomputed from the zip code on every write.
type User struct {
	ID        string  `json:"id" bson:"_id"`
	Name      string  `json:"name" bson:"name"`
	ZipCode   string  `json:"zip_code" bson:"zip_code"`
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	// Timezone is the shift in seconds from UTC at the zip code's location
	Timezone int `json:"timezone" bson:"timezone"`
}

// UserInput is the validated create/update payload. Create and update share
// the same shape.
type UserInput struct {
	Name    string `json:"name" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
}
