package parsing

// FallbackRecord returns the fixed sentinel record used whenever
// extraction or structuring cannot produce usable output. The shape is
// identical to a real record so downstream forms can always be filled.
func FallbackRecord() Record {
	return Record{
		ItemName:    "Unable to extract",
		Price:       0,
		Date:        "",
		Vendor:      "Unable to extract",
		ModelNumber: nil,
		Description: "Manual entry required",
		Category:    CategoryOther,
	}
}
