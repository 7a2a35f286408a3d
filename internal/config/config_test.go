package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRouteOverrides(t *testing.T) {
	got, err := parseRouteOverrides(ldvalue.Null())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseRouteOverrides(ldvalue.ObjectBuild().
		Set("msp", ldvalue.String("/setup/prices")).
		Set("dashboard", ldvalue.String("/home")).
		Build())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"msp": "/setup/prices", "dashboard": "/home"}, got)

	_, err = parseRouteOverrides(ldvalue.ObjectBuild().Set("msp", ldvalue.Int(3)).Build())
	assert.Error(t, err)

	_, err = parseRouteOverrides(ldvalue.String("nope"))
	assert.Error(t, err)
}

func TestStripePriceIDs(t *testing.T) {
	got := stripePriceIDs(map[string]string{
		"STRIPE_PRICE_ID_PRO":      "price_pro",
		"STRIPE_PRICE_ID_START":    "price_start",
		"STRIPE_PRICE_ID_UNKNOWN":  "price_x",
		"STRIPE_PRICE_ID_BUSINESS": "",
		"DB_URL":                   "postgres://",
	})
	assert.Equal(t, map[string]string{"pro": "price_pro", "start": "price_start"}, got)

	cfg := &Config{StripePriceIDs: got}
	id, ok := cfg.PriceIDFor("pro")
	assert.True(t, ok)
	assert.Equal(t, "price_pro", id)
	_, ok = cfg.PriceIDFor("business")
	assert.False(t, ok)
}

func TestParseRSAKeys(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	priv, err := parsePrivateKey(base64.StdEncoding.EncodeToString(privPEM))
	require.NoError(t, err)
	assert.True(t, priv.Equal(key))

	pub, err := parsePublicKey(base64.StdEncoding.EncodeToString(pubPEM))
	require.NoError(t, err)
	assert.True(t, pub.Equal(&key.PublicKey))

	_, err = parsePrivateKey("%%%")
	assert.Error(t, err)
}
