package entity

// FarmerCropCount is one row of the top-farmers ranking.
type FarmerCropCount struct {
	FarmerID  string
	FirstName string
	LastName  string
	Count     int
}

// MonthCount is a year-month creation bucket, e.g. "2025-03".
type MonthCount struct {
	Month string
	Count int
}
