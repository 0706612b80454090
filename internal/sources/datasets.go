package sources

// Dataset describes one NYC Open Data (SODA) dataset: its endpoint and the
// ordered candidate field names for each normalized column. Field lists are
// ordered by preference; the schema normalizer takes the first present
// value.
type Dataset struct {
	ID            string
	Name          string
	Endpoint      string
	DateFields    []string
	OwnerFields   []string
	AddressFields []string
	BoroughFields []string
	TitleFields   []string
}

// Datasets returns the DOB datasets polled by the open-data adapter, in
// fetch order.
func Datasets() []Dataset {
	return []Dataset{
		{
			ID:         "ipu4-2q9a", // Permit Issuance (BIS)
			Name:       "DOB Permit Issuance",
			Endpoint:   "https://data.cityofnewyork.us/resource/ipu4-2q9a.json",
			DateFields: []string{":updated_at", "issuance_date", "issue_date", "job_start_date", "filing_date"},
			OwnerFields: []string{
				"owner_business_name", "owner_business", "owner_name", "owners_business_name",
				"permittee_business_name", "permittee", "applicant_business_name", "business_name",
			},
			AddressFields: []string{"house__", "house", "street_name", "streetname", "job_location_street_name", "address", "location"},
			BoroughFields: []string{"borough", "borocode", "bbl_borough", "city"},
			TitleFields:   []string{"job_description", "work_description", "job_type"},
		},
		{
			ID:         "w9ak-ipjd",
			Name:       "DOB NOW: Build – Job Application Filings",
			Endpoint:   "https://data.cityofnewyork.us/resource/w9ak-ipjd.json",
			DateFields: []string{":updated_at", "filing_date", "latest_action_date", "pre_filing_date"},
			OwnerFields: []string{
				"owner_business_name", "owner_name", "owner_s_business_name", "applicant_business_name",
				"owner_s_first_name", "owner_s_last_name", "business_name",
			},
			AddressFields: []string{"house_number", "street_name", "bin", "bbl", "borough_block_lot", "job_location_street_name", "address"},
			BoroughFields: []string{"borough", "borough_name", "city"},
			TitleFields:   []string{"job_type", "proposed_occupancy_description", "work_type", "job_description"},
		},
		{
			ID:         "rbx6-tga4",
			Name:       "DOB NOW: Build – Approved Permits",
			Endpoint:   "https://data.cityofnewyork.us/resource/rbx6-tga4.json",
			DateFields: []string{":updated_at", "approval_date", "filing_date", "latest_action_date"},
			OwnerFields: []string{
				"owner_business_name", "owner_name", "owner_s_business_name", "permittee_business_name",
				"applicant_business_name", "business_name",
			},
			AddressFields: []string{"house_number", "street_name", "address", "bin", "bbl"},
			BoroughFields: []string{"borough", "borough_name", "city"},
			TitleFields:   []string{"job_type", "work_type", "job_description"},
		},
	}
}
