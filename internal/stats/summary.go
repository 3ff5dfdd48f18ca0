package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ngopidibandung/cafe-map-backend/internal/filter"
	"github.com/ngopidibandung/cafe-map-backend/internal/models"
	"github.com/ngopidibandung/cafe-map-backend/internal/spatial"
)

// Summarize computes dataset statistics for the stats endpoint
func Summarize(cafes []models.Cafe) models.CafeStats {
	s := models.CafeStats{
		Total:     len(cafes),
		Amenities: make(map[string]int),
	}

	var ratings, downloads []float64
	for _, c := range cafes {
		if spatial.ValidCoordinates(c.Coordinates) {
			s.WithCoordinates++
		}
		if c.Rating != nil {
			ratings = append(ratings, *c.Rating)
		}
		if d, ok := filter.DownloadMbps(c); ok {
			downloads = append(downloads, d)
		}

		countIf(s.Amenities, "musala", c.Musala)
		countIf(s.Amenities, "parkingMotor", c.ParkingMotor)
		countIf(s.Amenities, "parkingCar", c.ParkingCar)
		countIf(s.Amenities, "cash", c.CashAccepted)
		countIf(s.Amenities, "cashless", c.CashlessAccepted)
		countIf(s.Amenities, "serviceTax", c.ServiceTax != "" && c.ServiceTax != "-")
		countIf(s.Amenities, "menu", c.MenuLink != "")
		countIf(s.Amenities, "instagram", c.Instagram != "")
		countIf(s.Amenities, "takeaway", c.KeyTakeaway != "")
	}

	s.Rated = len(ratings)
	if len(ratings) > 0 {
		s.MeanRating = stat.Mean(ratings, nil)
	}

	s.WithDownload = len(downloads)
	if len(downloads) > 0 {
		sort.Float64s(downloads)
		s.MedianDownload = Quantile(downloads, 0.5)
		s.P90Download = Quantile(downloads, 0.9)
	}

	return s
}

// Quantile returns the empirical q-quantile (0-1) of sorted values
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	return stat.Quantile(q, stat.Empirical, sorted, nil)
}

func countIf(m map[string]int, key string, ok bool) {
	if ok {
		m[key]++
	}
}
