package amadeus

import (
	"cmp"
	"slices"

	"github.com/farewatch/farewatch/schema"
)

func sortDates(dates []schema.DatePrice) {
	slices.SortStableFunc(dates, func(a, b schema.DatePrice) int {
		return cmp.Compare(a.Price, b.Price)
	})
}
