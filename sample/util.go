package main

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	fprint "github.com/iafilatov/libfprint-sub001"
)

// decodeBase64Image accepts a raw base64 payload or a data: URL and decodes
// the embedded fingerprint image.
func decodeBase64Image(payload string) (*fprint.Image, error) {
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid data URL")
		}
		payload = parts[1]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to decode base64: "+err.Error())
	}
	return fprint.DecodeImage(raw)
}
