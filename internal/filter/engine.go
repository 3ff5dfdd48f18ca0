// Package filter narrows the cafe dataset by free-text query and filter toggles.
// Everything here is pure: no state, no errors, malformed fields simply fail
// the predicate that needs them.
package filter

import (
	"strings"

	"github.com/ngopidibandung/cafe-map-backend/internal/models"
)

// FastWifiMbps is the download speed behind the "fast WiFi" toggle
const FastWifiMbps = 40.0

// NormalizeQuery trims and lower-cases a search query
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// DownloadMbps returns the parsed download speed, falling back to the
// generic wifi speed column when the download column is empty.
func DownloadMbps(c models.Cafe) (float64, bool) {
	raw := c.DownloadSpeed
	if raw == "" {
		raw = c.WifiSpeed
	}
	return ParseFirstNumber(raw)
}

// UploadMbps returns the parsed upload speed
func UploadMbps(c models.Cafe) (float64, bool) {
	return ParseFirstNumber(c.UploadSpeed)
}

// Price returns the parsed reference price, trying the reference price,
// price range and latte price columns in that order.
func Price(c models.Cafe) (float64, bool) {
	for _, raw := range []string{c.ReferencePrice, c.PriceRange, c.LattePrice} {
		if raw != "" {
			return ParsePrice(raw)
		}
	}
	return 0, false
}

// Matches reports whether a cafe passes the query and every active filter.
// Predicates run in a fixed order and the first failure rejects.
func Matches(c models.Cafe, f models.FilterState, query string) bool {
	query = NormalizeQuery(query)
	if query != "" {
		text := strings.ToLower(c.Name + " " + c.Address)
		if !strings.Contains(text, query) {
			return false
		}
	}

	download, hasDownload := DownloadMbps(c)

	if f.FastWifi && (!hasDownload || download < FastWifiMbps) {
		return false
	}
	if f.MinDownload != nil && (!hasDownload || download < *f.MinDownload) {
		return false
	}
	if f.MinRating != nil && (c.Rating == nil || *c.Rating < *f.MinRating) {
		return false
	}

	if f.HasMusala && !c.Musala {
		return false
	}
	if f.ParkingMotor && !c.ParkingMotor {
		return false
	}
	if f.ParkingCar && !c.ParkingCar {
		return false
	}

	if f.Cashless && !c.CashlessAccepted {
		return false
	}
	if f.Cash && !c.CashAccepted {
		return false
	}

	if f.HasServiceTax && (c.ServiceTax == "" || c.ServiceTax == "-") {
		return false
	}

	// A cafe without a parseable price is kept.
	if f.MaxPrice != nil {
		if price, ok := Price(c); ok && price > *f.MaxPrice {
			return false
		}
	}

	if f.HasMenu && c.MenuLink == "" {
		return false
	}
	if f.HasInstagram && c.Instagram == "" {
		return false
	}
	if f.HasTakeaway && c.KeyTakeaway == "" {
		return false
	}

	return true
}

// CountActive counts the non-default fields of a filter state
func CountActive(f models.FilterState) int {
	count := 0
	for _, on := range []bool{
		f.FastWifi,
		f.HasMusala,
		f.ParkingMotor,
		f.ParkingCar,
		f.Cashless,
		f.Cash,
		f.HasServiceTax,
		f.HasMenu,
		f.HasInstagram,
		f.HasTakeaway,
		f.MinDownload != nil,
		f.MinRating != nil,
		f.MaxPrice != nil,
	} {
		if on {
			count++
		}
	}
	return count
}

// Apply returns the cafes that match, preserving input order.
// The input slice is never modified.
func Apply(cafes []models.Cafe, f models.FilterState, query string) []models.Cafe {
	query = NormalizeQuery(query)
	out := make([]models.Cafe, 0, len(cafes))
	for _, c := range cafes {
		if Matches(c, f, query) {
			out = append(out, c)
		}
	}
	return out
}
