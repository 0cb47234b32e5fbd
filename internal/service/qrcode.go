package service

import (
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

type DefaultQRGenerator struct {
	BaseURL string
}

// Link is the review page the QR code points at.
func (g DefaultQRGenerator) Link(bookingID string) string {
	return fmt.Sprintf("%s/review.html?booking_id=%s", g.BaseURL, url.QueryEscape(bookingID))
}

func (g DefaultQRGenerator) Generate(bookingID string) ([]byte, error) {
	return qrcode.Encode(g.Link(bookingID), qrcode.Medium, 256)
}
