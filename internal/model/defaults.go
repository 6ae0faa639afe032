package model

// Shared defaults used by both the server and CLI binaries.
const (
	DefaultRegion     = "AU"
	DefaultSkin       = "default"
	FallbackImagePath = "/static/no_image.png"
	SavedExpiryDays   = 7
	PricesPerGradeCap = 3
)

// Grades lists the recognized grading buckets in display order.
var Grades = []string{"raw", "PSA", "CGC", "BGS"}
