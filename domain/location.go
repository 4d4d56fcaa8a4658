package domain

const LocationStatusPublished = "published"

type Point struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

type Coordinates struct {
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

func (c Coordinates) Point() (Point, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return Point{}, false
	}
	return Point{Lat: *c.Latitude, Lng: *c.Longitude}, true
}

type Location struct {
	Id          string      `bson:"_id" json:"id"`
	Name        string      `bson:"name" json:"name"`
	Slug        string      `bson:"slug,omitempty" json:"slug,omitempty"`
	Status      string      `bson:"status" json:"status"`
	Categories  []string    `bson:"categories,omitempty" json:"categories,omitempty"`
	Address     string      `bson:"address,omitempty" json:"address,omitempty"`
	Coordinates Coordinates `bson:"coordinates" json:"coordinates"`
}
