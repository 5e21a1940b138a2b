package feature

import (
	"fmt"
	"strconv"
	"strings"
)

// Changepoint is a hinge in the trend slope starting at a position on the scaled training window
type Changepoint struct {
	Name     string  `json:"name"`
	Position float64 `json:"position"`
}

func NewChangepoint(name string, position float64) *Changepoint {
	return &Changepoint{name, position}
}

func (c Changepoint) String() string {
	return fmt.Sprintf("chpnt_%s", c.Name)
}

func (c Changepoint) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return c.Name, true
	case "position":
		return strconv.FormatFloat(c.Position, 'g', -1, 64), true
	}
	return "", false
}

func (c Changepoint) Type() FeatureType {
	return FeatureTypeChangepoint
}

func (c Changepoint) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = c.Name
	res["position"] = strconv.FormatFloat(c.Position, 'g', -1, 64)
	return res
}

// Generate returns max(0, t - position) for each scaled time point
func (c Changepoint) Generate(scaled []float64) []float64 {
	res := make([]float64, len(scaled))
	for i, s := range scaled {
		if s > c.Position {
			res[i] = s - c.Position
		}
	}
	return res
}
