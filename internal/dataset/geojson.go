// Package dataset decodes the cafe GeoJSON export and normalizes its
// heterogeneous fields into models.Cafe.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ngopidibandung/cafe-map-backend/internal/filter"
	"github.com/ngopidibandung/cafe-map-backend/internal/models"
)

// featureCollection mirrors the GeoJSON export
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string     `json:"type"`
	Properties properties `json:"properties"`
	Geometry   struct {
		Type        string `json:"type"`
		Coordinates []any  `json:"coordinates"`
	} `json:"geometry"`
}

// properties holds the raw, loosely typed columns of the spreadsheet export
type properties struct {
	ID               json.RawMessage `json:"id"`
	Name             text            `json:"name"`
	Address          text            `json:"address"`
	Rating           json.RawMessage `json:"rating"`
	OperationalHours text            `json:"operationalHours"`
	PriceRange       text            `json:"priceRange"`
	MenuLink         text            `json:"menuLink"`
	CashAccepted     any             `json:"cashAccepted"`
	CashlessAccepted any             `json:"cashlessAccepted"`
	ServiceTax       text            `json:"serviceTax"`
	Connection       text            `json:"connection"`
	WifiSpeed        text            `json:"wifiSpeed"`
	DownloadSpeed    text            `json:"downloadSpeed"`
	UploadSpeed      text            `json:"uploadSpeed"`
	Musala           any             `json:"musala"`
	ParkingMotor     any             `json:"parkingMotor"`
	ParkingCar       any             `json:"parkingCar"`
	ParkingPaid      any             `json:"parkingPaid"`
	Notes            text            `json:"notes"`
	KeyTakeaway      text            `json:"keyTakeaway"`
	MapURL           text            `json:"mapUrl"`
	Instagram        text            `json:"instagram"`
	ReferencePrice   text            `json:"referencePrice"`
	LattePrice       text            `json:"lattePrice"`
	IcedCoffeePrice  text            `json:"icedCoffeePrice"`
	AfternoonTeaSet  text            `json:"afternoonTeaSet"`
	Comment          text            `json:"comment"`
	Image            text            `json:"image"`
}

// text accepts a JSON string, number or boolean and keeps it as trimmed text.
// null and unknown shapes become "".
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(strings.TrimSpace(s))
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		*t = ""
		return nil
	}
	*t = text(b)
	return nil
}

// Decode reads a GeoJSON FeatureCollection and returns cafes in input order.
// Only malformed JSON is an error; malformed fields degrade to empty values.
func Decode(r io.Reader) ([]models.Cafe, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode cafe dataset: %w", err)
	}

	ids := assignIDs(fc.Features)
	cafes := make([]models.Cafe, 0, len(fc.Features))
	for i, f := range fc.Features {
		cafes = append(cafes, normalize(f, ids[i]))
	}
	return cafes, nil
}

// assignIDs returns one unique id per feature. Explicit ids win in input
// order; features without one, or repeating an earlier one, get their
// 1-based position when free and otherwise the next id above every id in use.
func assignIDs(features []feature) []int64 {
	explicit := make([]int64, len(features))
	has := make([]bool, len(features))
	reserved := make(map[int64]bool, len(features))
	var maxID int64
	for i, f := range features {
		if id, ok := parseID(f.Properties.ID); ok {
			explicit[i], has[i] = id, true
			reserved[id] = true
			if id > maxID {
				maxID = id
			}
		}
	}

	ids := make([]int64, len(features))
	used := make(map[int64]bool, len(features))
	next := maxID
	for i := range features {
		if has[i] && !used[explicit[i]] {
			ids[i] = explicit[i]
			used[ids[i]] = true
			continue
		}
		id := int64(i + 1)
		if reserved[id] || used[id] {
			for next++; reserved[next] || used[next]; next++ {
			}
			id = next
		}
		ids[i] = id
		used[id] = true
	}
	return ids
}

// LoadFile opens and decodes a dataset file
func LoadFile(path string) ([]models.Cafe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cafe dataset: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// normalize converts one feature under the id picked by assignIDs
func normalize(f feature, id int64) models.Cafe {
	p := f.Properties

	c := models.Cafe{
		ID:               id,
		Name:             string(p.Name),
		Address:          string(p.Address),
		Coordinates:      parseCoordinates(f.Geometry.Coordinates),
		Rating:           parseRating(p.Rating),
		OperationalHours: string(p.OperationalHours),
		Connection:       string(p.Connection),
		WifiSpeed:        string(p.WifiSpeed),
		DownloadSpeed:    string(p.DownloadSpeed),
		UploadSpeed:      string(p.UploadSpeed),
		Musala:           filter.IsTruthyValue(p.Musala),
		ParkingMotor:     filter.IsTruthyValue(p.ParkingMotor),
		ParkingCar:       filter.IsTruthyValue(p.ParkingCar),
		ParkingPaid:      filter.IsTruthyValue(p.ParkingPaid),
		CashAccepted:     isTrue(p.CashAccepted),
		CashlessAccepted: isTrue(p.CashlessAccepted),
		ServiceTax:       string(p.ServiceTax),
		ReferencePrice:   string(p.ReferencePrice),
		PriceRange:       string(p.PriceRange),
		LattePrice:       string(p.LattePrice),
		IcedCoffeePrice:  string(p.IcedCoffeePrice),
		AfternoonTeaSet:  string(p.AfternoonTeaSet),
		MenuLink:         string(p.MenuLink),
		Instagram:        string(p.Instagram),
		MapURL:           string(p.MapURL),
		KeyTakeaway:      string(p.KeyTakeaway),
		Notes:            string(p.Notes),
		Comment:          string(p.Comment),
		Image:            string(p.Image),
	}
	return c
}

// isTrue accepts only a native JSON true. Payment columns are real booleans
// in the export and a string there is treated as missing.
func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func parseID(raw json.RawMessage) (int64, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if id, err := n.Int64(); err == nil {
			return id, true
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

func parseRating(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil && !math.IsNaN(v) {
		return &v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, ok := filter.ParseFirstNumber(s); ok {
			return &v
		}
	}
	return nil
}

// parseCoordinates reads a GeoJSON [lon, lat] pair. Anything other than two
// finite numbers leaves the cafe without a position.
func parseCoordinates(coords []any) *models.Coordinates {
	if len(coords) < 2 {
		return nil
	}
	lon, ok := coords[0].(float64)
	if !ok {
		return nil
	}
	lat, ok := coords[1].(float64)
	if !ok {
		return nil
	}
	if math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return nil
	}
	return &models.Coordinates{Longitude: lon, Latitude: lat}
}
