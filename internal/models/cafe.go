package models

// Coordinates is a WGS84 position. GeoJSON order is (lon, lat) but fields are named.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Cafe represents one physical cafe location after ingestion.
// Boolean-ish amenity fields are normalized once when the dataset is decoded,
// free-text fields keep their original spelling.
type Cafe struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Address string `json:"address" db:"address"`

	// Nil when the source record has no usable position.
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Rating      *float64     `json:"rating,omitempty" db:"rating"`

	OperationalHours string `json:"operationalHours,omitempty" db:"operational_hours"`

	// Connectivity, free text such as "45 Mbps"
	Connection    string `json:"connection,omitempty" db:"connection"`
	WifiSpeed     string `json:"wifiSpeed,omitempty" db:"wifi_speed"`
	DownloadSpeed string `json:"downloadSpeed,omitempty" db:"download_speed"`
	UploadSpeed   string `json:"uploadSpeed,omitempty" db:"upload_speed"`

	// Amenities
	Musala           bool   `json:"musala" db:"musala"`
	ParkingMotor     bool   `json:"parkingMotor" db:"parking_motor"`
	ParkingCar       bool   `json:"parkingCar" db:"parking_car"`
	ParkingPaid      bool   `json:"parkingPaid" db:"parking_paid"`
	CashAccepted     bool   `json:"cashAccepted" db:"cash_accepted"`
	CashlessAccepted bool   `json:"cashlessAccepted" db:"cashless_accepted"`
	ServiceTax       string `json:"serviceTax,omitempty" db:"service_tax"`

	// Pricing, free text such as "Rp 25k"
	ReferencePrice  string `json:"referencePrice,omitempty" db:"reference_price"`
	PriceRange      string `json:"priceRange,omitempty" db:"price_range"`
	LattePrice      string `json:"lattePrice,omitempty" db:"latte_price"`
	IcedCoffeePrice string `json:"icedCoffeePrice,omitempty" db:"iced_coffee_price"`
	AfternoonTeaSet string `json:"afternoonTeaSet,omitempty" db:"afternoon_tea_set"`

	// Links and notes
	MenuLink    string `json:"menuLink,omitempty" db:"menu_link"`
	Instagram   string `json:"instagram,omitempty" db:"instagram"`
	MapURL      string `json:"mapUrl,omitempty" db:"map_url"`
	KeyTakeaway string `json:"keyTakeaway,omitempty" db:"key_takeaway"`
	Notes       string `json:"notes,omitempty" db:"notes"`
	Comment     string `json:"comment,omitempty" db:"comment"`
	Image       string `json:"image,omitempty" db:"image"`
}

// UserLocation is the viewer's position, obtained once per detail view.
type UserLocation struct {
	Latitude  float64 `json:"latitude" form:"lat"`
	Longitude float64 `json:"longitude" form:"lon"`
}

// CafeView is a cafe as returned by the API, with an optional distance badge.
type CafeView struct {
	Cafe
	DistanceKm   *float64 `json:"distanceKm,omitempty"`
	DistanceText string   `json:"distanceText,omitempty"`
}

// CafeListResponse represents a filtered, optionally paged list of cafes
type CafeListResponse struct {
	Data          []CafeView `json:"data"`
	Total         int        `json:"total"`
	ActiveFilters int        `json:"activeFilters"`
	Limit         int        `json:"limit,omitempty"`
	Offset        int        `json:"offset,omitempty"`
}
