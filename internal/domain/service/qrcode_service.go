package service

// QRCodeService defines the interface for QR code generation services.
type QRCodeService interface {
	// GenerateOrderQR generates a PNG QR code encoding the order number,
	// used by pickup points and delivery tracking.
	GenerateOrderQR(orderNumber string) ([]byte, error)
}
