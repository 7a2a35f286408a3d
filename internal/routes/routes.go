package routes

const (
	// Health
	Health = "/health"

	OnboardingBase = "/api/v1/onboarding"

	// Registration and email verification
	Register           = "/api/v1/onboarding/register"
	VerifyEmailRequest = "/api/v1/onboarding/verify-email/request"
	VerifyEmailConfirm = "/api/v1/onboarding/verify-email/confirm"

	// Progress
	Progress        = "/api/v1/onboarding/progress"
	ProgressLanding = "/api/v1/onboarding/progress/landing"
	ProgressAdvance = "/api/v1/onboarding/progress/advance"

	// Hotel information and PMS
	Hotel        = "/api/v1/onboarding/hotel"
	PMSProviders = "/api/v1/onboarding/pms/providers"
	PMS          = "/api/v1/onboarding/pms"

	// Plans
	Plans                = "/api/v1/onboarding/plans"
	Plan                 = "/api/v1/onboarding/plan"
	ContactSalesContinue = "/api/v1/onboarding/contact-sales/continue"

	// Payment
	PaymentCheckout = "/api/v1/onboarding/payment/checkout"
	StripeWebhook   = "/api/v1/onboarding/stripe/webhook"

	// Competitors
	Competitors    = "/api/v1/onboarding/competitors"
	CompetitorByID = "/api/v1/onboarding/competitors/{id}"

	// MSP
	MSPBatch           = "/api/v1/onboarding/msp/batch"
	MSPDraft           = "/api/v1/onboarding/msp/draft"
	MSPDraftPeriods    = "/api/v1/onboarding/msp/draft/periods"
	MSPDraftPeriodByID = "/api/v1/onboarding/msp/draft/periods/{id}"
	MSPDraftValidate   = "/api/v1/onboarding/msp/draft/validate"
	MSPDraftSubmit     = "/api/v1/onboarding/msp/draft/submit"
)
