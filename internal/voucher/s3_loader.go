package voucher

import (
	"compress/gzip"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectGetter is the subset of the S3 client the loader uses.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for gzipped voucher files stored in S3.
type s3Loader struct {
	client objectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates an S3 voucher loader using the default AWS credential chain.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-voucher-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 voucher loader initialised")

	return newS3Loader(s3.NewFromConfig(cfg), bucket, logger), nil
}

func newS3Loader(client objectGetter, bucket string, logger zerolog.Logger) *s3Loader {
	return &s3Loader{client: client, bucket: bucket, logger: logger}
}

// Load reads a gzipped voucher file from S3; key is the full object key.
func (l *s3Loader) Load(ctx context.Context, key string) (Book, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get voucher object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer out.Body.Close()

	gz, err := gzip.NewReader(out.Body)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for S3 object %s: %w", key, err)
	}
	defer gz.Close()

	book, err := readBook(ctx, gz, "s3://"+l.bucket+"/"+key, l.logger)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// fallbackLoader tries S3 first and falls back to the local file system.
type fallbackLoader struct {
	primary  Loader
	local    Loader
	s3Prefix string
	logger   zerolog.Logger
}

// NewFallbackLoader creates a loader that reads s3Prefix+path from primary
// and falls back to path on local. A nil primary always reads locally.
func NewFallbackLoader(primary, local Loader, s3Prefix string, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		primary:  primary,
		local:    local,
		s3Prefix: s3Prefix,
		logger:   logger.With().Str("component", "voucher-fallback-loader").Logger(),
	}
}

func (l *fallbackLoader) Load(ctx context.Context, path string) (Book, error) {
	if l.primary != nil {
		key := l.s3Prefix + path
		book, err := l.primary.Load(ctx, key)
		if err == nil {
			return book, nil
		}
		l.logger.Warn().
			Err(err).
			Str("s3_key", key).
			Msg("failed to load from S3, falling back to local file system")
	}

	return l.local.Load(ctx, path)
}
