package qr

import "errors"

// TokenView is the API shape for a token: the stored row plus the rendered
// PNG as a data URL, ready for the dashboard to display.
type TokenView struct {
	*Token
	QRImage string `json:"qr_image,omitempty"`
}

// ValidateDTO is the payload for explicit QR validation requests.
type ValidateDTO struct {
	QRCode string `json:"qr_code"`
}

func (dto ValidateDTO) Validate() error {
	if dto.QRCode == "" {
		return errors.New("qr_code is required")
	}
	return nil
}
