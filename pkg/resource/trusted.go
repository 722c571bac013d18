package resource

// TrustedLink is a vetted external directory offered when the local
// datasets have nothing (more) to show.
type TrustedLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

var trustedLinks = []TrustedLink{
	{Name: "FindHelp.org", URL: "https://www.findhelp.org"},
	{Name: "211.org", URL: "https://www.211.org"},
	{Name: "HRSA Health Center Locator", URL: "https://findahealthcenter.hrsa.gov/"},
}

// TrustedLinks returns the fallback directories for a category. Health
// center search is only offered for healthcare.
func TrustedLinks(c Category) []TrustedLink {
	if c == Healthcare {
		return append([]TrustedLink(nil), trustedLinks...)
	}
	return append([]TrustedLink(nil), trustedLinks[:2]...)
}
