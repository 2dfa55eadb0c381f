package models

// Country is one marketplace country option.
type Country struct {
	Code string
	Name string
}

// Countries lists the Southeast Asian markets the platform operates in,
// in display order.
var Countries = []Country{
	{"MY", "Malaysia"},
	{"SG", "Singapore"},
	{"TH", "Thailand"},
	{"ID", "Indonesia"},
	{"PH", "Philippines"},
	{"VN", "Vietnam"},
	{"BN", "Brunei"},
	{"KH", "Cambodia"},
	{"LA", "Laos"},
	{"MM", "Myanmar"},
	{"TL", "Timor-Leste"},
}

// IsKnownCountry reports whether code is one of the marketplace countries.
func IsKnownCountry(code string) bool {
	for _, c := range Countries {
		if c.Code == code {
			return true
		}
	}
	return false
}
