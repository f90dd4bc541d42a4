package dataset

// CityRecord is one row of the cities/provinces join.
type CityRecord struct {
	ID             int64
	PostalCode     string
	CityName       string
	Latitude       float64
	Longitude      float64
	ProvinceNameNL string
	ProvinceNameFR string
	ProvinceNameDE string
}

// ToFeature maps the record to a GeoJSON feature with [longitude, latitude] coordinates.
func (c CityRecord) ToFeature() Feature {
	return Feature{
		ID:       c.ID,
		Type:     TypeFeature,
		Geometry: NewPoint(c.Latitude, c.Longitude),
		Properties: Properties{
			Name:       c.CityName,
			PostalCode: NewScalar(c.PostalCode),
		},
	}
}
