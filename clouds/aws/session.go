// Package aws builds the AWS session shared by the telemetry and cost
// adapters of one run.
package aws

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"

	"usage-report/internal/errors"
)

// DefaultRegion is used when no region is configured
const DefaultRegion = "us-east-1"

// Session is an immutable handle over a resolved AWS configuration.
// It is constructed once per run and passed to each adapter.
type Session struct {
	cfg     aws.Config
	region  string
	profile string
}

// NewSession resolves credentials and region through the default chain,
// pinned to region and, when set, to a shared config profile.
func NewSession(ctx context.Context, region, profile string) (*Session, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		region = DefaultRegion
	}
	profile = strings.TrimSpace(profile)

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Config("failed to load aws configuration", err).
			WithContext("region", region).
			WithContext("profile", profile)
	}
	return &Session{cfg: cfg, region: region, profile: profile}, nil
}

// FromConfig wraps an already-resolved configuration
func FromConfig(cfg aws.Config) *Session {
	return &Session{cfg: cfg, region: cfg.Region}
}

// Config returns a copy of the resolved configuration
func (s *Session) Config() aws.Config {
	return s.cfg.Copy()
}

// Region returns the session region
func (s *Session) Region() string {
	return s.region
}

// Profile returns the shared config profile, if any
func (s *Session) Profile() string {
	return s.profile
}
