package core

import (
	"context"
	"errors"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
)

// RollingAverage computes the mean of the most recent observations for key.
// A key without history yields the zero Baseline. Read failures are returned
// as *schema.StoreError so callers can tell them apart from "no history".
func RollingAverage(ctx context.Context, reader contract.PriceReader, key schema.BaselineKey) (schema.Baseline, error) {
	prices, err := reader.RecentPrices(ctx, key, schema.BaselineWindow)
	if err != nil {
		return schema.Baseline{}, asStoreError("baseline read", err)
	}
	if len(prices) > schema.BaselineWindow {
		prices = prices[:schema.BaselineWindow]
	}
	if len(prices) == 0 {
		return schema.Baseline{}, nil
	}

	var sum float64
	for _, p := range prices {
		sum += p
	}
	return schema.Baseline{Mean: sum / float64(len(prices)), Samples: len(prices)}, nil
}

func asStoreError(op string, err error) error {
	var storeErr *schema.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &schema.StoreError{Op: op, Err: err}
}
