package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// QRCodePNG returns the QR code of content as a base64 encoded PNG
func QRCodePNG(content string) (string, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(qrSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// QRCodeText renders content as a terminal QR code
func QRCodeText(content string) (string, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	return qr.ToSmallString(false), nil
}
