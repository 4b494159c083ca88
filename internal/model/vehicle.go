package model

// Vehicle is reference data: which filters and battery fit a given model.
type Vehicle struct {
	BaseModel
	Brand      string `gorm:"type:varchar(100);not null;index" json:"brand"`
	Model      string `gorm:"type:varchar(100);not null" json:"model"`
	Year       int    `gorm:"not null" json:"year"`
	AirFilter  string `gorm:"type:varchar(100)" json:"air_filter"`
	OilFilter  string `gorm:"type:varchar(100)" json:"oil_filter"`
	FuelFilter string `gorm:"type:varchar(100)" json:"fuel_filter"`
	Battery    string `gorm:"type:varchar(100)" json:"battery"`
	Position   string `gorm:"type:varchar(100)" json:"position"`
}
