package utils

const (
	OrganizationName                      = "Vivere Stays"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"
	SalesTeamEmail                        = "sales@viverestays.com"

	TestEmailSuffix = "testing@viverestays.com"
	TestEmailCode   = "999999"
)
