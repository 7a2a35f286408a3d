package constants

import "time"

// Plan is a subscription tier offered at select_plan.
type Plan struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	MonthlyPriceCents int64  `json:"monthly_price_cents"`
	Currency          string `json:"currency"`
	MaxCompetitors    int    `json:"max_competitors"`
}

var Plans = []Plan{
	{Code: "start", Name: "Start", MonthlyPriceCents: 4900, Currency: "eur", MaxCompetitors: 5},
	{Code: "pro", Name: "Professional", MonthlyPriceCents: 9900, Currency: "eur", MaxCompetitors: MaxCompetitors},
	{Code: "business", Name: "Business", MonthlyPriceCents: 19900, Currency: "eur", MaxCompetitors: MaxCompetitors},
}

// PlanByCode returns the plan with code, false when there is none.
func PlanByCode(code string) (Plan, bool) {
	for _, p := range Plans {
		if p.Code == code {
			return p, true
		}
	}
	return Plan{}, false
}

// Onboarding limits
const (
	MaxCompetitors           = 10
	MaxVerificationAttempts  = 5
	AccessTokenTTL           = 24 * time.Hour
	DefaultHotelTimeZone     = "UTC"
	StripeCheckoutSuccessURL = "/onboarding/payment?status=success"
	StripeCheckoutCancelURL  = "/onboarding/payment?status=cancelled"
)

// Stripe metadata keys
const (
	CheckoutMetadataPropertyIDKey = "property_id"
	CheckoutMetadataAccountIDKey  = "account_id"
	CheckoutMetadataPlanKey       = "plan_code"
)

// Cache and scheduling
const (
	CacheDefaultTTL          = 12 * time.Hour
	CacheCleanupInterval     = 30 * time.Minute
	VerificationCleanupCron  = "0 3 * * *" // 03:00 UTC daily
	CacheSweepCron           = "@hourly"
	VerificationCleanupLimit = 2 * time.Minute
)

// Email Subjects
const (
	EmailSubjectVerificationCode = "Your Vivere Stays verification code"
	EmailSubjectContactSales     = "New onboarding needs a sales contact: %s"
)
