package entity

import "time"

type CropType string

const (
	CropCereals    CropType = "cereals"
	CropLegumes    CropType = "legumes"
	CropVegetables CropType = "vegetables"
	CropFruits     CropType = "fruits"
	CropCashCrops  CropType = "cash_crops"
	CropOther      CropType = "other"
)

var cropTypeLabels = map[CropType]string{
	CropCereals:    "Cereals",
	CropLegumes:    "Legumes",
	CropVegetables: "Vegetables",
	CropFruits:     "Fruits",
	CropCashCrops:  "Cash Crops",
	CropOther:      "Other",
}

// CropTypes lists every crop type in declaration order.
var CropTypes = []CropType{CropCereals, CropLegumes, CropVegetables, CropFruits, CropCashCrops, CropOther}

func (t CropType) Valid() bool {
	_, ok := cropTypeLabels[t]
	return ok
}

func (t CropType) Display() string { return cropTypeLabels[t] }

type CropStatus string

const (
	StatusPlanted   CropStatus = "planted"
	StatusGrowing   CropStatus = "growing"
	StatusHarvested CropStatus = "harvested"
	StatusSold      CropStatus = "sold"
)

var cropStatusLabels = map[CropStatus]string{
	StatusPlanted:   "Planted",
	StatusGrowing:   "Growing",
	StatusHarvested: "Harvested",
	StatusSold:      "Sold",
}

var CropStatuses = []CropStatus{StatusPlanted, StatusGrowing, StatusHarvested, StatusSold}

func (s CropStatus) Valid() bool {
	_, ok := cropStatusLabels[s]
	return ok
}

func (s CropStatus) Display() string { return cropStatusLabels[s] }

const DefaultCropUnit = "kg"

// Crop belongs to exactly one FarmerProfile.
// FarmerUserID and FarmerName are resolved by a join on read.
type Crop struct {
	ID                  string
	FarmerID            string
	Name                string
	Type                CropType
	Quantity            float64
	Unit                string
	PlantingDate        *time.Time
	ExpectedHarvestDate *time.Time
	Status              CropStatus
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	FarmerUserID string
	FarmerName   string
}

func (c *Crop) OwnerUserID() string { return c.FarmerUserID }
