package model

// ProfileData is the accumulated profile draft written to the User row in a
// single terminal update. Optional fields are pointers so a skip clears the
// column instead of leaving a stale value.
type ProfileData struct {
	Name           string
	Surname        string
	Gender         *string
	Age            *int
	Region         string
	Interests      []string
	PhotoFileID    *string
	DocumentFileID *string
	LocationLat    *float64
	LocationLon    *float64
}
