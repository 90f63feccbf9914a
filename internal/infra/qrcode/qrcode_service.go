// Package qrcode generates PNG QR codes for order pickup and tracking.
package qrcode

import (
	"fmt"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size := defaultSize
	level := qrcode.Medium

	if cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		level = recoveryLevel(cfg.QRCode.ErrorCorrectionLevel)
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

func recoveryLevel(name string) qrcode.RecoveryLevel {
	switch name {
	case "L":
		return qrcode.Low
	case "M":
		return qrcode.Medium
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// GenerateOrderQR generates a PNG QR code encoding the order number.
// The payload is the bare order number so handheld scanners at pickup
// points can match it against the order lookup endpoint directly.
func (s *qrcodeService) GenerateOrderQR(orderNumber string) ([]byte, error) {
	if orderNumber == "" {
		return nil, fmt.Errorf("order number is required")
	}

	qrCode, err := qrcode.New(orderNumber, s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}
