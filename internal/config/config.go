package config

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/constants"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

type Config struct {
	OrganizationName       string
	AppName                string
	AppPort                string
	AppUrl                 string
	UniqueRunNumber        string
	UniqueRunnerID         string
	DBUrl                  string
	RSAPrivateKey          *rsa.PrivateKey
	RSAPublicKey           *rsa.PublicKey
	SendgridAPIKey         string
	TwilioAccountSID       string
	TwilioAuthToken        string
	StripeSecretKey        string
	StripeWebhookSecret    string
	StripePriceIDs         map[string]string // plan code -> Stripe price id
	SalesPhone             string
	VerificationCodeTTL    time.Duration
	VerificationCodeLength int
	GMapsGeocodingAPIKey   string
	LDSDKKey               string

	LDFlag_UsingIsolatedSchema bool
	LDFlag_SeedDbWithTestData  bool
	LDFlag_CORSHighSecurity    bool
	LDFlag_SendgridFromEmail   string
	LDFlag_SendgridSandboxMode bool
	LDFlag_TwilioFromPhone     string
	LDFlag_NotifySalesBySMS    bool
	LDFlag_OnboardingRoutes    map[string]string
	LDFlag_UseGMapsGeocoding   bool
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second

	defaultVerificationCodeTTL    = 15 * time.Minute
	defaultVerificationCodeLength = 6
	stripePriceSecretPrefix       = "STRIPE_PRICE_ID_"
)

// Default values, override via ldflags at build time.
var (
	AppName             string
	UniqueRunNumber     string
	UniqueRunnerID      string
	LDServerContextKey  string
	LDServerContextKind string
)

func LoadConfig() *Config {
	for name, v := range map[string]string{
		"AppName":             AppName,
		"UniqueRunNumber":     UniqueRunNumber,
		"UniqueRunnerID":      UniqueRunnerID,
		"LDServerContextKey":  LDServerContextKey,
		"LDServerContextKind": LDServerContextKind,
	} {
		if v == "" {
			utils.Logger.Fatalf("%s was not overridden with ldflags at build time (or is empty)", name)
		}
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	env := requireEnv("ENV")
	appUrl := requireEnv("APP_URL_FROM_ANYWHERE")
	appPort := requireEnv("APP_PORT")
	utils.Logger.Debugf("App can be accessed at: %s", appUrl)

	//----------------------------------------------------------------------
	// Secrets (appName-env and shared-env projects)
	//----------------------------------------------------------------------
	client, err := utils.NewSecretsClient()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize Bitwarden secrets client")
	}
	defer client.Close()

	appProject := fmt.Sprintf("%s-%s", AppName, env)
	appSecrets, err := client.Project(appProject)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to fetch app-specific secrets from BWS")
	}
	sharedProject := fmt.Sprintf("shared-%s", env)
	sharedSecrets, err := client.Project(sharedProject)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to fetch shared secrets from BWS")
	}

	dbURL := requireSecret(appSecrets, appProject, "DB_URL")
	ldSDKKey := requireSecret(appSecrets, appProject, "LD_SDK_KEY")
	stripeWebhookSecret := requireSecret(appSecrets, appProject, "STRIPE_WEBHOOK_SECRET")
	salesPhone := strings.TrimSpace(appSecrets["SALES_PHONE"])
	priceIDs := stripePriceIDs(appSecrets)
	if len(priceIDs) == 0 {
		utils.Logger.Fatalf("no %s<PLAN> secrets found in BWS (%s)", stripePriceSecretPrefix, appProject)
	}

	privateKey, err := parsePrivateKey(requireSecret(sharedSecrets, sharedProject, "RSA_PRIVATE_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA private key")
	}
	publicKey, err := parsePublicKey(requireSecret(sharedSecrets, sharedProject, "RSA_PUBLIC_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}
	stripeSecretKey := requireSecret(sharedSecrets, sharedProject, "STRIPE_SECRET_KEY")
	twilioAccountSID := requireSecret(sharedSecrets, sharedProject, "TWILIO_ACCOUNT_SID")
	twilioAuthToken := requireSecret(sharedSecrets, sharedProject, "TWILIO_AUTH_TOKEN")
	sendgridAPIKey := requireSecret(sharedSecrets, sharedProject, "SENDGRID_API_KEY")

	codeTTL := defaultVerificationCodeTTL
	if v := os.Getenv("VERIFICATION_CODE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			utils.Logger.WithError(err).Fatalf("VERIFICATION_CODE_TTL %q is not a positive duration", v)
		}
		codeTTL = d
	}

	//----------------------------------------------------------------------
	// LaunchDarkly flags
	//----------------------------------------------------------------------
	ldClient, err := ld.MakeClient(ldSDKKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !ldClient.Initialized() {
		ldClient.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	defer ldClient.Close()

	flags := flagReader{
		client: ldClient,
		ctx:    ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey),
	}

	routes, err := parseRouteOverrides(flags.json("onboarding_routes"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("onboarding_routes flag is not a string map")
	}

	// GMaps
	useGeocoding := flags.bool("use_gmaps_geocoding")
	var gmapsKey string
	if useGeocoding {
		gmapsKey = requireSecret(appSecrets, appProject, "GMAPS_GEOCODING_API_KEY")
	}

	return &Config{
		OrganizationName:       OrganizationName,
		AppName:                AppName,
		AppPort:                appPort,
		AppUrl:                 appUrl,
		UniqueRunNumber:        UniqueRunNumber,
		UniqueRunnerID:         UniqueRunnerID,
		DBUrl:                  dbURL,
		RSAPrivateKey:          privateKey,
		RSAPublicKey:           publicKey,
		SendgridAPIKey:         sendgridAPIKey,
		TwilioAccountSID:       twilioAccountSID,
		TwilioAuthToken:        twilioAuthToken,
		StripeSecretKey:        stripeSecretKey,
		StripeWebhookSecret:    stripeWebhookSecret,
		StripePriceIDs:         priceIDs,
		SalesPhone:             salesPhone,
		VerificationCodeTTL:    codeTTL,
		VerificationCodeLength: defaultVerificationCodeLength,
		GMapsGeocodingAPIKey:   gmapsKey,
		LDSDKKey:               ldSDKKey,

		LDFlag_UsingIsolatedSchema: flags.bool("using_isolated_schema"),
		LDFlag_SeedDbWithTestData:  flags.bool("seed_db_with_test_data"),
		LDFlag_CORSHighSecurity:    flags.bool("cors_high_security"),
		LDFlag_SendgridFromEmail:   flags.string("sendgrid_from_email"),
		LDFlag_SendgridSandboxMode: flags.bool("sendgrid_sandbox_mode"),
		LDFlag_TwilioFromPhone:     flags.string("twilio_from_phone"),
		LDFlag_NotifySalesBySMS:    flags.bool("notify_sales_by_sms"),
		LDFlag_OnboardingRoutes:    routes,
		LDFlag_UseGMapsGeocoding:   useGeocoding,
	}
}

func (c *Config) Close() {}

// PriceIDFor returns the Stripe price configured for a plan code.
func (c *Config) PriceIDFor(planCode string) (string, bool) {
	id, ok := c.StripePriceIDs[planCode]
	return id, ok && id != ""
}

type flagReader struct {
	client *ld.LDClient
	ctx    ldcontext.Context
}

func (f flagReader) bool(key string) bool {
	v, err := f.client.BoolVariation(key, f.ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("Error retrieving %s flag", key)
	}
	utils.Logger.Debugf("%s flag: %t", key, v)
	return v
}

func (f flagReader) string(key string) string {
	v, err := f.client.StringVariation(key, f.ctx, "")
	if err != nil {
		utils.Logger.WithError(err).Fatalf("Error retrieving %s flag", key)
	}
	utils.Logger.Debugf("%s flag: %s", key, v)
	return v
}

func (f flagReader) json(key string) ldvalue.Value {
	v, err := f.client.JSONVariation(key, f.ctx, ldvalue.Null())
	if err != nil {
		utils.Logger.WithError(err).Fatalf("Error retrieving %s flag", key)
	}
	utils.Logger.Debugf("%s flag: %s", key, v.JSONString())
	return v
}

// parseRouteOverrides reads an object of step name -> route. Null means no
// overrides.
func parseRouteOverrides(v ldvalue.Value) (map[string]string, error) {
	if v.IsNull() {
		return nil, nil
	}
	if v.Type() != ldvalue.ObjectType {
		return nil, fmt.Errorf("expected a JSON object, got %s", v.Type())
	}
	out := make(map[string]string, v.Count())
	for _, k := range v.Keys(nil) {
		item := v.GetByKey(k)
		if !item.IsString() {
			return nil, fmt.Errorf("route for %q is not a string", k)
		}
		out[k] = item.StringValue()
	}
	return out, nil
}

// stripePriceIDs collects STRIPE_PRICE_ID_<PLAN> secrets keyed by lower-case
// plan code, keeping only plans the catalogue knows.
func stripePriceIDs(secrets map[string]string) map[string]string {
	out := make(map[string]string)
	for k, v := range secrets {
		if !strings.HasPrefix(k, stripePriceSecretPrefix) || v == "" {
			continue
		}
		code := strings.ToLower(strings.TrimPrefix(k, stripePriceSecretPrefix))
		if _, ok := constants.PlanByCode(code); !ok {
			utils.Logger.Warnf("Ignoring %s: no plan %q", k, code)
			continue
		}
		out[code] = v
	}
	return out
}

func requireEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}

func requireSecret(secrets map[string]string, project, key string) string {
	v, ok := secrets[key]
	if !ok || v == "" {
		utils.Logger.Fatalf("%s not found in BWS secrets (%s)", key, project)
	}
	return v
}

func parsePrivateKey(b64 string) (*rsa.PrivateKey, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 private key: %w", err)
	}
	return jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
}

func parsePublicKey(b64 string) (*rsa.PublicKey, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 public key: %w", err)
	}
	return jwt.ParseRSAPublicKeyFromPEM(pemBytes)
}
