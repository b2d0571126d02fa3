package kitshop

import (
	"time"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
)

// FilterTimeLayout is the dd.MM.yyyy HH:mm:ss layout of the GetSales filter
const FilterTimeLayout = "02.01.2006 15:04:05"

var vendorTimeLayouts = []string{
	FilterTimeLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// DefaultSalesWindow returns yesterday 00:00:00 to today 23:59:59 in now's location
func DefaultSalesWindow(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	from := today.AddDate(0, 0, -1)
	to := today.Add(24*time.Hour - time.Second)
	return from, to
}

// ParseVendorTime parses a timestamp in any of the layouts the vendor emits.
// Layouts without a zone are read as UTC.
func ParseVendorTime(s string) (time.Time, error) {
	for _, layout := range vendorTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognised vendor time %q", s)
}

func formatFilterTime(t time.Time) string {
	return t.Format(FilterTimeLayout)
}
