package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/rpupo63/blog-admin-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("BLOG_TEST_KEY", "a=b")

	c := New()
	assert.Equal(t, "a=b", c["BLOG_TEST_KEY"])
}

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":    "9090",
		"BAD_INT": "nine",
		"RATE":    "2.5",
		"DEBUG":   "true",
		"EMPTY":   "",
		"TIMEOUT": "30",
		"ORIGINS": "https://a.example, ,https://b.example",
	}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))

	assert.Equal(t, 9090, GetInt(c, "PORT", 8080))
	assert.Equal(t, 7, GetInt(c, "BAD_INT", 7))
	assert.Equal(t, 7, GetInt(c, "MISSING", 7))

	assert.Equal(t, 2.5, GetFloat(c, "RATE", 1))
	assert.True(t, GetBool(c, "DEBUG", false))
	assert.False(t, GetBool(c, "MISSING", false))

	assert.Equal(t, 30*time.Second, GetSeconds(c, "TIMEOUT", 180))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, GetList(c, "ORIGINS"))
	assert.Nil(t, GetList(c, "MISSING"))
}

type fakeParameterGetter struct {
	values map[string]string
	err    error
}

func (f fakeParameterGetter) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	val, ok := f.values[aws.ToString(in.Name)]
	if !ok {
		return &ssm.GetParameterOutput{}, nil
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(val)}}, nil
}

func TestResolveSecret(t *testing.T) {
	ctx := context.Background()
	secrets := &SSMSecrets{client: fakeParameterGetter{values: map[string]string{"/blog/jwt": "from-ssm"}}}

	t.Run("plain value wins", func(t *testing.T) {
		c := map[string]string{"JWT_SECRET": "plain", "JWT_SECRET_SSM_PARAM": "/blog/jwt"}
		val, err := ResolveSecret(ctx, c, "JWT_SECRET", "JWT_SECRET_SSM_PARAM", secrets)
		require.NoError(t, err)
		assert.Equal(t, "plain", val)
	})

	t.Run("falls back to parameter store", func(t *testing.T) {
		c := map[string]string{"JWT_SECRET_SSM_PARAM": "/blog/jwt"}
		val, err := ResolveSecret(ctx, c, "JWT_SECRET", "JWT_SECRET_SSM_PARAM", secrets)
		require.NoError(t, err)
		assert.Equal(t, "from-ssm", val)
	})

	t.Run("nothing configured", func(t *testing.T) {
		val, err := ResolveSecret(ctx, map[string]string{}, "JWT_SECRET", "JWT_SECRET_SSM_PARAM", secrets)
		require.NoError(t, err)
		assert.Empty(t, val)
	})

	t.Run("missing parameter", func(t *testing.T) {
		c := map[string]string{"JWT_SECRET_SSM_PARAM": "/blog/other"}
		_, err := ResolveSecret(ctx, c, "JWT_SECRET", "JWT_SECRET_SSM_PARAM", secrets)
		assert.Error(t, err)
	})

	t.Run("client error", func(t *testing.T) {
		broken := &SSMSecrets{client: fakeParameterGetter{err: errors.New("throttled")}}
		c := map[string]string{"JWT_SECRET_SSM_PARAM": "/blog/jwt"}
		_, err := ResolveSecret(ctx, c, "JWT_SECRET", "JWT_SECRET_SSM_PARAM", broken)

		var apiErr *errs.ApiErr
		require.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.GetFullError(), "throttled")
	})
}
