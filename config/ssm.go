package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rpupo63/blog-admin-backend/errs"
)

// parameterGetter is the slice of the SSM client used to resolve secrets.
type parameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMSecrets resolves secrets stored in AWS Systems Manager Parameter Store.
type SSMSecrets struct {
	client parameterGetter
}

func NewSSMSecrets(ctx context.Context, region string) (*SSMSecrets, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errs.NewConfigError("aws", err)
	}

	return &SSMSecrets{client: ssm.NewFromConfig(cfg)}, nil
}

// Get returns the decrypted value of the named parameter.
func (s *SSMSecrets) Get(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", errs.NewConfigError(name, err)
	}

	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", errs.NewConfigMissingError(name)
	}

	return aws.ToString(out.Parameter.Value), nil
}

// ResolveSecret returns config[key] when set, otherwise the SSM parameter named by
// config[paramKey]. An empty string is returned when neither is configured.
func ResolveSecret(ctx context.Context, config map[string]string, key, paramKey string, secrets *SSMSecrets) (string, error) {
	if val := GetString(config, key, ""); val != "" {
		return val, nil
	}

	param := GetString(config, paramKey, "")
	if param == "" {
		return "", nil
	}

	if secrets == nil {
		return "", errs.NewConfigMissingError(paramKey)
	}

	return secrets.Get(ctx, param)
}
