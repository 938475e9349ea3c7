package domain

import "sort"

// ManufacturerCountries is the fixed list of countries a manufacturer may be registered in
var ManufacturerCountries = map[string]string{
	"CA": "Canada",
	"CN": "China",
	"EG": "Egypt",
	"FR": "France",
	"DE": "Germany",
	"IT": "Italy",
	"JP": "Japan",
	"LB": "Lebanon",
	"RU": "Russia",
	"SA": "Saudi Arabia",
	"SG": "Singapore",
	"ZA": "South Africa",
	"ES": "Spain",
	"SE": "Sweden",
	"CH": "Switzerland",
	"AE": "United Arab Emirates",
	"GB": "United Kingdom",
	"US": "United States",
}

// IsValidCountry reports whether code is a supported manufacturer country
func IsValidCountry(code string) bool {
	_, ok := ManufacturerCountries[code]
	return ok
}

// CountryName returns the display name for a code, or the code itself
func CountryName(code string) string {
	if name, ok := ManufacturerCountries[code]; ok {
		return name
	}
	return code
}

// Countries returns the supported countries sorted by name
func Countries() []CountryDTO {
	out := make([]CountryDTO, 0, len(ManufacturerCountries))
	for code, name := range ManufacturerCountries {
		out = append(out, CountryDTO{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
