package stats

// APIRequest is the body of a time-series data request.
type APIRequest struct {
	SeriesID        []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	RegistrationKey string   `json:"registrationkey,omitempty"`
}

// APIResponse is the envelope returned by the time-series endpoint.
//
// See: https://www.bls.gov/developers/api_signature_v2.htm
type APIResponse struct {
	Status       string   `json:"status"`
	ResponseTime int      `json:"responseTime"`
	Message      []string `json:"message"`
	Results      struct {
		Series []*Series `json:"series"`
	} `json:"Results"`
}

// Series is a named time-ordered sequence of observations.
type Series struct {
	SeriesID string      `json:"seriesID"`
	Data     []DataPoint `json:"data"`
}

type DataPoint struct {
	Year       string     `json:"year"`
	Period     string     `json:"period"`
	PeriodName string     `json:"periodName"`
	Latest     string     `json:"latest,omitempty"`
	Value      string     `json:"value"`
	Footnotes  []Footnote `json:"footnotes"`
}

type Footnote struct {
	Code string `json:"code,omitempty"`
	Text string `json:"text,omitempty"`
}

// Row is one line of a rendered series table.
type Row struct {
	SeriesID  string
	Year      string
	Period    string
	Value     string
	Footnotes string
}
