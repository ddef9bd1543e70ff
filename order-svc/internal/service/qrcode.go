package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID int64) ([]byte, error)
}

// ReceiptQRGenerator encodes a link to the order page as a PNG.
type ReceiptQRGenerator struct {
	BaseURL string
}

func (g ReceiptQRGenerator) Link(orderID int64) string {
	return fmt.Sprintf("%s/orders/%d", strings.TrimRight(g.BaseURL, "/"), orderID)
}

func (g ReceiptQRGenerator) Generate(orderID int64) ([]byte, error) {
	return qrcode.Encode(g.Link(orderID), qrcode.Medium, 256)
}
