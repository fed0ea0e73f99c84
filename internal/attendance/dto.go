package attendance

import "errors"

// ScanDTO is the request payload for every QR-gated transition.
type ScanDTO struct {
	QRCode string `json:"qr_code"`
}

func (dto ScanDTO) Validate() error {
	if dto.QRCode == "" {
		return errors.New("qr_code is required")
	}
	return nil
}

// HistoryEntry is a record annotated with the derived hour metrics,
// rounded for display.
type HistoryEntry struct {
	*Record
	TotalHours     float64 `json:"total_hours"`
	BreakHours     float64 `json:"break_hours"`
	EffectiveHours float64 `json:"effective_hours"`
}

// Annotate computes the display metrics for a record snapshot.
func Annotate(rec *Record) HistoryEntry {
	total, _ := TotalHours(rec.CheckInTime, rec.CheckOutTime)
	breaks := BreakHours(rec.Breaks)
	return HistoryEntry{
		Record:         rec,
		TotalHours:     Round2(total),
		BreakHours:     Round2(breaks),
		EffectiveHours: Round2(EffectiveHours(total, breaks)),
	}
}
