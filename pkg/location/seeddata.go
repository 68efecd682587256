package location

// Countries returns the fixed country reference set. Pure data, no shared
// mutable state: each call builds a fresh slice.
func Countries() []Country {
	return []Country{
		{ID: 1, Name: "United States", Iso2Code: "US", Iso3Code: "USA"},
		{ID: 2, Name: "Canada", Iso2Code: "CA", Iso3Code: "CAN"},
		{ID: 3, Name: "United Kingdom", Iso2Code: "GB", Iso3Code: "GBR"},
	}
}

// StateProvinces returns the fixed state/province reference set. Every
// CountryID references a row returned by Countries.
func StateProvinces() []StateProvince {
	return []StateProvince{
		// United States - states
		{ID: 1, CountryID: 1, Name: "Alabama", Abbreviation: "AL"},
		{ID: 2, CountryID: 1, Name: "Alaska", Abbreviation: "AK"},
		{ID: 3, CountryID: 1, Name: "Arizona", Abbreviation: "AZ"},
		{ID: 4, CountryID: 1, Name: "Arkansas", Abbreviation: "AR"},
		{ID: 5, CountryID: 1, Name: "California", Abbreviation: "CA"},
		{ID: 6, CountryID: 1, Name: "Colorado", Abbreviation: "CO"},
		{ID: 7, CountryID: 1, Name: "Connecticut", Abbreviation: "CT"},
		{ID: 8, CountryID: 1, Name: "Delaware", Abbreviation: "DE"},
		{ID: 9, CountryID: 1, Name: "Florida", Abbreviation: "FL"},
		{ID: 10, CountryID: 1, Name: "Georgia", Abbreviation: "GA"},
		{ID: 11, CountryID: 1, Name: "Hawaii", Abbreviation: "HI"},
		{ID: 12, CountryID: 1, Name: "Idaho", Abbreviation: "ID"},
		{ID: 13, CountryID: 1, Name: "Illinois", Abbreviation: "IL"},
		{ID: 14, CountryID: 1, Name: "Indiana", Abbreviation: "IN"},
		{ID: 15, CountryID: 1, Name: "Iowa", Abbreviation: "IA"},
		{ID: 16, CountryID: 1, Name: "Kansas", Abbreviation: "KS"},
		{ID: 17, CountryID: 1, Name: "Kentucky", Abbreviation: "KY"},
		{ID: 18, CountryID: 1, Name: "Louisiana", Abbreviation: "LA"},
		{ID: 19, CountryID: 1, Name: "Maine", Abbreviation: "ME"},
		{ID: 20, CountryID: 1, Name: "Maryland", Abbreviation: "MD"},
		{ID: 21, CountryID: 1, Name: "Massachusetts", Abbreviation: "MA"},
		{ID: 22, CountryID: 1, Name: "Michigan", Abbreviation: "MI"},
		{ID: 23, CountryID: 1, Name: "Minnesota", Abbreviation: "MN"},
		{ID: 24, CountryID: 1, Name: "Mississippi", Abbreviation: "MS"},
		{ID: 25, CountryID: 1, Name: "Missouri", Abbreviation: "MO"},
		{ID: 26, CountryID: 1, Name: "Montana", Abbreviation: "MT"},
		{ID: 27, CountryID: 1, Name: "Nebraska", Abbreviation: "NE"},
		{ID: 28, CountryID: 1, Name: "Nevada", Abbreviation: "NV"},
		{ID: 29, CountryID: 1, Name: "New Hampshire", Abbreviation: "NH"},
		{ID: 30, CountryID: 1, Name: "New Jersey", Abbreviation: "NJ"},
		{ID: 31, CountryID: 1, Name: "New Mexico", Abbreviation: "NM"},
		{ID: 32, CountryID: 1, Name: "New York", Abbreviation: "NY"},
		{ID: 33, CountryID: 1, Name: "North Carolina", Abbreviation: "NC"},
		{ID: 34, CountryID: 1, Name: "North Dakota", Abbreviation: "ND"},
		{ID: 35, CountryID: 1, Name: "Ohio", Abbreviation: "OH"},
		{ID: 36, CountryID: 1, Name: "Oklahoma", Abbreviation: "OK"},
		{ID: 37, CountryID: 1, Name: "Oregon", Abbreviation: "OR"},
		{ID: 38, CountryID: 1, Name: "Pennsylvania", Abbreviation: "PA"},
		{ID: 39, CountryID: 1, Name: "Rhode Island", Abbreviation: "RI"},
		{ID: 40, CountryID: 1, Name: "South Carolina", Abbreviation: "SC"},
		{ID: 41, CountryID: 1, Name: "South Dakota", Abbreviation: "SD"},
		{ID: 42, CountryID: 1, Name: "Tennessee", Abbreviation: "TN"},
		{ID: 43, CountryID: 1, Name: "Texas", Abbreviation: "TX"},
		{ID: 44, CountryID: 1, Name: "Utah", Abbreviation: "UT"},
		{ID: 45, CountryID: 1, Name: "Vermont", Abbreviation: "VT"},
		{ID: 46, CountryID: 1, Name: "Virginia", Abbreviation: "VA"},
		{ID: 47, CountryID: 1, Name: "Washington", Abbreviation: "WA"},
		{ID: 48, CountryID: 1, Name: "West Virginia", Abbreviation: "WV"},
		{ID: 49, CountryID: 1, Name: "Wisconsin", Abbreviation: "WI"},
		{ID: 50, CountryID: 1, Name: "Wyoming", Abbreviation: "WY"},
		{ID: 51, CountryID: 1, Name: "District of Columbia", Abbreviation: "DC"},

		// Canada
		{ID: 52, CountryID: 2, Name: "Alberta", Abbreviation: "AB"},
		{ID: 53, CountryID: 2, Name: "British Columbia", Abbreviation: "BC"},
		{ID: 54, CountryID: 2, Name: "Manitoba", Abbreviation: "MB"},
		{ID: 55, CountryID: 2, Name: "New Brunswick", Abbreviation: "NB"},
		{ID: 56, CountryID: 2, Name: "Newfoundland and Labrador", Abbreviation: "NL"},
		{ID: 57, CountryID: 2, Name: "Nova Scotia", Abbreviation: "NS"},
		{ID: 58, CountryID: 2, Name: "Ontario", Abbreviation: "ON"},
		{ID: 59, CountryID: 2, Name: "Prince Edward Island", Abbreviation: "PE"},
		{ID: 60, CountryID: 2, Name: "Quebec", Abbreviation: "QC"},
		{ID: 61, CountryID: 2, Name: "Saskatchewan", Abbreviation: "SK"},
		{ID: 62, CountryID: 2, Name: "Northwest Territories", Abbreviation: "NT"},
		{ID: 63, CountryID: 2, Name: "Nunavut", Abbreviation: "NU"},
		{ID: 64, CountryID: 2, Name: "Yukon", Abbreviation: "YT"},

		// United Kingdom - constituent countries
		{ID: 65, CountryID: 3, Name: "England", Abbreviation: "ENG"},
		{ID: 66, CountryID: 3, Name: "Scotland", Abbreviation: "SCT"},
		{ID: 67, CountryID: 3, Name: "Wales", Abbreviation: "WLS"},
		{ID: 68, CountryID: 3, Name: "Northern Ireland", Abbreviation: "NIR"},

		// United States - territories
		{ID: 69, CountryID: 1, Name: "Puerto Rico", Abbreviation: "PR"},
		{ID: 70, CountryID: 1, Name: "Guam", Abbreviation: "GU"},
		{ID: 71, CountryID: 1, Name: "U.S. Virgin Islands", Abbreviation: "VI"},
		{ID: 72, CountryID: 1, Name: "American Samoa", Abbreviation: "AS"},
		{ID: 73, CountryID: 1, Name: "Northern Mariana Islands", Abbreviation: "MP"},

		// United Kingdom - crown dependencies and overseas territories
		{ID: 74, CountryID: 3, Name: "Isle of Man", Abbreviation: "IM"},
		{ID: 75, CountryID: 3, Name: "Jersey", Abbreviation: "JE"},
		{ID: 76, CountryID: 3, Name: "Guernsey", Abbreviation: "GG"},
		{ID: 77, CountryID: 3, Name: "Gibraltar", Abbreviation: "GI"},
		{ID: 78, CountryID: 3, Name: "Bermuda", Abbreviation: "BM"},
	}
}

// StateProvincesByCountry filters the fixed set by owning country
func StateProvincesByCountry(countryID int32) []StateProvince {
	var out []StateProvince
	for _, sp := range StateProvinces() {
		if sp.CountryID == countryID {
			out = append(out, sp)
		}
	}
	return out
}
