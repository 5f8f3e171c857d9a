package constants

// ParseStatus is the canonical status for stored parse results.
type ParseStatus string

// Stable values (store these exact strings in DB).
const (
	ParseStatusParsed ParseStatus = "PARSED" // record assembled
	ParseStatusFailed ParseStatus = "FAILED" // document could not be read
)
