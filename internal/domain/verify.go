package domain

// VerificationRecord is the assessment of a disaster image's authenticity.
// Every field is always populated; callers never see a partial record.
type VerificationRecord struct {
	Verified             bool    `json:"verified"`
	Confidence           float64 `json:"confidence"` // 0.0–1.0
	Reason               string  `json:"reason"`
	ManipulationDetected bool    `json:"manipulation_detected"`
}

// UnverifiedRecord builds the degraded record used on every verification
// failure path.
func UnverifiedRecord(reason string) VerificationRecord {
	return VerificationRecord{Reason: reason}
}
