package impl

import (
	"io"
	"log/slog"

	"storefront/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost: 12,
		},
		Cart: &config.CartConfig{
			MaxLines:           50,
			MaxQuantityPerLine: 99,
		},
		Checkout: &config.CheckoutConfig{
			TaxRatePercent:        18,
			ShippingFlatFee:       500,
			FreeShippingThreshold: 100000,
			DiscountPercent:       10,
			DiscountThreshold:     200000,
		},
	}
}
