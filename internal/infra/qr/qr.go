package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const imageSize = 256

// PNG renders the given link as a QR code image.
func PNG(link string) ([]byte, error) {
	code, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("build qr code: %w", err)
	}

	png, err := code.PNG(imageSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}

	return png, nil
}
