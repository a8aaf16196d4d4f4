package checkpoint

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Backend is the optional object-storage backend of SPEC_FULL.md §3,
// selected by config.Checkpoint.Backend == "s3". Credentials are resolved
// the standard aws-sdk-go way, optionally seeded from internal/secrets.
type S3Backend struct {
	Bucket string
	Prefix string
	client *s3.S3
}

// NewS3Backend opens a session against the given region and bucket,
// resolving credentials through the standard aws-sdk-go provider chain
// (environment, shared config, instance role).
func NewS3Backend(region, bucket, prefix string) (*S3Backend, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: opening aws session: %w", err)
	}
	return &S3Backend{Bucket: bucket, Prefix: prefix, client: s3.New(sess)}, nil
}

// NewS3BackendWithCredentials opens a session using an explicit static
// access/secret key pair, the path exercised when config.Checkpoint's
// secrets path is set and the caller resolved a Credential through
// internal/secrets rather than the default provider chain.
func NewS3BackendWithCredentials(region, bucket, prefix, accessKey, secretKey string) (*S3Backend, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: opening aws session with vault-resolved credentials: %w", err)
	}
	return &S3Backend{Bucket: bucket, Prefix: prefix, client: s3.New(sess)}, nil
}

func (b *S3Backend) key(name string) string {
	if b.Prefix == "" {
		return name
	}
	return b.Prefix + "/" + name
}

func (b *S3Backend) Write(name string, data []byte) error {
	_, err := b.client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(b.Bucket),
		Key:    aws.String(b.key(name)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("checkpoint: s3 put %s: %w", name, err)
	}
	return nil
}

func (b *S3Backend) Read(name string) ([]byte, error) {
	out, err := b.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(b.Bucket),
		Key:    aws.String(b.key(name)),
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: s3 get %s: %w", name, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (b *S3Backend) List() ([]string, error) {
	var names []string
	err := b.client.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket: aws.String(b.Bucket),
		Prefix: aws.String(b.Prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			names = append(names, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: s3 list: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (b *S3Backend) Delete(name string) error {
	_, err := b.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(b.Bucket),
		Key:    aws.String(b.key(name)),
	})
	if err != nil {
		return fmt.Errorf("checkpoint: s3 delete %s: %w", name, err)
	}
	return nil
}
