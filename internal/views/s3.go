package views

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectGetter is the subset of *s3.Client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads modules from an S3 bucket under a key prefix.
//
// Example usage:
//
//	client, err := views.NewS3Client(ctx, views.S3Config{Region: "eu-west-1"})
//	if err != nil {
//	    return err
//	}
//	src := views.NewS3Source(client, "my-views", "views/")
type S3Source struct {
	client ObjectGetter
	bucket string
	prefix string
}

// NewS3Source creates a new S3 view source.
//
// Parameters:
//   - client: S3 client from aws-sdk-go-v2 (or any ObjectGetter)
//   - bucket: S3 bucket name
//   - prefix: key prefix for modules (e.g., "views/")
func NewS3Source(client ObjectGetter, bucket, prefix string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Key returns the object key holding module.
func (s *S3Source) Key(module string) string {
	return s.prefix + module + Extension
}

// Open implements Source.
func (s *S3Source) Open(ctx context.Context, module string) ([]byte, error) {
	if err := checkModule(module); err != nil {
		return nil, err
	}

	key := s.Key(module)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrModuleNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("views: s3 get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("views: s3 read %s: %w", key, err)
	}
	return data, nil
}

// S3Config configures the client built by NewS3Client.
type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool
	Profile   string
}

// defaultRegion is used when neither the config nor the AWS environment
// names a region.
const defaultRegion = "us-east-1"

// NewS3Client builds an S3 client through the SDK's default config chain:
// environment variables, shared config and credentials files, SSO, and
// container or instance roles.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("views: load aws config: %w", err)
	}
	if awsCfg.Region == "" {
		awsCfg.Region = defaultRegion
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
