package constants

const (
	// Tones understood by the responder
	ToneGentle = "gentle"
	ToneDirect = "direct"
	ToneFirm   = "firm"

	// Default configuration values
	DefaultTone     = ToneDirect
	DefaultTimezone = "Local" // Use system local timezone by default
	DefaultUser     = "local"
)
