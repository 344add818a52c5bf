package order

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRGenerator renders a pickup code for a confirmed order.
type QRGenerator interface {
	Generate(orderNumber string) ([]byte, error)
}

// DefaultQRGenerator encodes the public order-status URL as a 256px PNG.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderNumber string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/order-status.html?order=%s", g.BaseURL, orderNumber)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
