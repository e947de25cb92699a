package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// LoadParameters reads every parameter stored under prefix in AWS SSM
// Parameter Store and fills the keys missing from config. The key is the last
// path segment, so /intern-hub/prod/JWT_SECRET becomes JWT_SECRET. Non-blank
// values already present in config win.
func LoadParameters(ctx context.Context, config map[string]string, prefix string) (int, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return 0, fmt.Errorf("load aws config: %w", err)
	}
	return MergeParameters(ctx, ssm.NewFromConfig(awsCfg), config, prefix)
}

// MergeParameters is LoadParameters over an existing client.
func MergeParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, config map[string]string, prefix string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	added := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return added, fmt.Errorf("read parameters under %s: %w", prefix, err)
		}
		for _, param := range page.Parameters {
			key := path.Base(aws.ToString(param.Name))
			if key == "" || key == "/" || key == "." {
				continue
			}
			if _, ok := lookup(config, key); ok {
				continue
			}
			config[key] = aws.ToString(param.Value)
			added++
		}
	}
	return added, nil
}
