package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	cfg := map[string]string{
		"PORT":    "9090",
		"BAD_INT": "nine",
		"DEBUG":   "true",
		"ORIGINS": " https://a.example , ,https://b.example",
	}

	require.Equal(t, "9090", GetString(cfg, "PORT", "8080"))
	require.Equal(t, "8080", GetString(cfg, "MISSING", "8080"))
	require.Equal(t, "x", GetString(nil, "PORT", "x"))

	require.Equal(t, 9090, GetInt(cfg, "PORT", 1))
	require.Equal(t, 1, GetInt(cfg, "BAD_INT", 1))

	require.True(t, GetBool(cfg, "DEBUG", false))
	require.False(t, GetBool(cfg, "PORT", false))

	require.Equal(t, []string{"https://a.example", "https://b.example"}, GetList(cfg, "ORIGINS"))
	require.Nil(t, GetList(cfg, "MISSING"))
}

func TestBlankValuesCountAsUnset(t *testing.T) {
	cfg := map[string]string{"IMAGE_BUCKET": "", "PORT": "  ", "ORIGINS": " , "}

	require.Equal(t, "fallback", GetString(cfg, "IMAGE_BUCKET", "fallback"))
	require.Equal(t, 8080, GetInt(cfg, "PORT", 8080))
	require.True(t, GetBool(cfg, "IMAGE_BUCKET", true))
	require.Empty(t, GetList(cfg, "ORIGINS"))

	client := &fakeSSM{pages: [][]types.Parameter{
		{{Name: aws.String("/app/IMAGE_BUCKET"), Value: aws.String("intern-hub-images")}},
	}}
	added, err := MergeParameters(context.Background(), client, cfg, "/app")
	require.NoError(t, err)
	require.Equal(t, 1, added)
	require.Equal(t, "intern-hub-images", GetString(cfg, "IMAGE_BUCKET", ""))
}

func TestSplit(t *testing.T) {
	key, value := split("A=b=c")
	require.Equal(t, "A", key)
	require.Equal(t, "b=c", value)

	key, value = split("EMPTY")
	require.Equal(t, "EMPTY", key)
	require.Empty(t, value)
}

type fakeSSM struct {
	pages [][]types.Parameter
	err   error
	calls int
}

func (f *fakeSSM) GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[f.calls]
	f.calls++
	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestMergeParametersFillsMissingKeysOnly(t *testing.T) {
	client := &fakeSSM{pages: [][]types.Parameter{
		{
			{Name: aws.String("/intern-hub/prod/JWT_SECRET"), Value: aws.String("from-ssm")},
			{Name: aws.String("/intern-hub/prod/PORT"), Value: aws.String("1111")},
		},
		{
			{Name: aws.String("/intern-hub/prod/nested/GOOGLE_API_KEY"), Value: aws.String("key")},
		},
	}}
	cfg := map[string]string{"PORT": "8080"}

	added, err := MergeParameters(context.Background(), client, cfg, "/intern-hub/prod")
	require.NoError(t, err)
	require.Equal(t, 2, added)
	require.Equal(t, "8080", cfg["PORT"])
	require.Equal(t, "from-ssm", cfg["JWT_SECRET"])
	require.Equal(t, "key", cfg["GOOGLE_API_KEY"])
	require.Equal(t, 2, client.calls)
}

func TestMergeParametersReportsErrors(t *testing.T) {
	client := &fakeSSM{err: errors.New("access denied")}
	_, err := MergeParameters(context.Background(), client, map[string]string{}, "/x")
	require.ErrorContains(t, err, "access denied")
}
