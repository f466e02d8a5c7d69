// Package aws loads AWS configuration for the optional S3 export target and
// classifies AWS API errors for display.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"

	appconfig "github.com/caredash/caredash/internal/config"
)

// LoadOptions returns config load options for the export settings: a named
// shared-config profile and a region override, when set.
func LoadOptions(exp appconfig.ExportConfig) []func(*config.LoadOptions) error {
	var opts []func(*config.LoadOptions) error
	if exp.AWSProfile != "" {
		opts = append(opts, config.WithSharedConfigProfile(exp.AWSProfile))
	}
	if exp.S3Region != "" {
		opts = append(opts, config.WithRegion(exp.S3Region))
	}
	return opts
}

// NewConfig creates an AWS config for the export settings.
func NewConfig(ctx context.Context, exp appconfig.ExportConfig) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, LoadOptions(exp)...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS config: %w", err)
	}
	return cfg, nil
}
