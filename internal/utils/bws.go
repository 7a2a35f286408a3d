package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sdk "github.com/bitwarden/sdk-go"
)

const (
	bwsLoginAttempts       = 5
	bwsLoginInitialBackoff = 500 * time.Millisecond
)

// SecretsClient reads key/value secrets grouped by Bitwarden project.
type SecretsClient struct {
	bw    sdk.BitwardenClientInterface
	orgID string
}

// NewSecretsClient logs into Bitwarden Secrets Manager with BWS_ACCESS_TOKEN
// for the organization in BWS_ORGANIZATION_ID. Rate-limited logins are
// retried with exponential backoff.
func NewSecretsClient() (*SecretsClient, error) {
	accessToken := strings.TrimSpace(os.Getenv("BWS_ACCESS_TOKEN"))
	if accessToken == "" {
		return nil, errors.New("BWS_ACCESS_TOKEN env var is missing or empty")
	}
	orgID := strings.TrimSpace(os.Getenv("BWS_ORGANIZATION_ID"))
	if orgID == "" {
		return nil, errors.New("BWS_ORGANIZATION_ID env var is missing or empty")
	}

	bw, err := sdk.NewBitwardenClient(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("initialising Bitwarden SDK client: %w", err)
	}

	backoff := bwsLoginInitialBackoff
	for attempt := 1; ; attempt++ {
		err = bw.AccessTokenLogin(accessToken, nil)
		if err == nil {
			return &SecretsClient{bw: bw, orgID: orgID}, nil
		}
		// sdk-go has no typed status errors; 429 shows up in the message only.
		rateLimited := strings.Contains(err.Error(), "429") || strings.Contains(err.Error(), "Too Many Requests")
		if !rateLimited || attempt == bwsLoginAttempts {
			bw.Close()
			return nil, fmt.Errorf("bitwarden login failed after %d attempt(s): %w", attempt, err)
		}
		Logger.WithError(err).Warnf("Bitwarden login rate limited, retrying in %v", backoff)
		time.Sleep(backoff)
		backoff *= 2
	}
}

func (c *SecretsClient) Close() {
	if c != nil && c.bw != nil {
		c.bw.Close()
	}
}

// Project returns every secret of the named project as a map.
func (c *SecretsClient) Project(name string) (map[string]string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("project name must not be empty")
	}

	projects, err := c.bw.Projects().List(c.orgID)
	if err != nil {
		return nil, fmt.Errorf("listing Bitwarden projects: %w", err)
	}
	var projectID string
	for _, p := range projects.Data {
		if strings.EqualFold(p.Name, name) {
			projectID = p.ID
			break
		}
	}
	if projectID == "" {
		return nil, fmt.Errorf("bitwarden project %q not found", name)
	}

	synced, err := c.bw.Secrets().Sync(c.orgID, nil)
	if err != nil {
		return nil, fmt.Errorf("syncing Bitwarden secrets: %w", err)
	}

	out := make(map[string]string)
	for _, s := range synced.Secrets {
		if s.ProjectID != nil && *s.ProjectID == projectID {
			out[s.Key] = s.Value
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no secrets found for project %q", name)
	}
	return out, nil
}
