package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archive 生成的 PDF 归档
type Archive interface {
	PutPDF(ctx context.Context, key string, pdf []byte) (string, error)
}

// Config S3 归档配置；Endpoint 非空时可指向 MinIO 等兼容服务
type Config struct {
	Region          string
	Bucket          string
	Prefix          string
	Endpoint        string
	AccessKeyID     string // 为空时走默认凭证链
	SecretAccessKey string
	PathStyle       bool
	HTTPClient      aws.HTTPClient // 测试注入
}

// S3Archive 基于 S3 的 PDF 归档
type S3Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Archive 创建 S3 归档
func NewS3Archive(ctx context.Context, cfg Config) (*S3Archive, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	return &S3Archive{client: client, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/")}, nil
}

// PutPDF 上传 PDF，返回对象 key
func (a *S3Archive) PutPDF(ctx context.Context, key string, pdf []byte) (string, error) {
	if a.prefix != "" {
		key = a.prefix + "/" + key
	}
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(pdf),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(pdf))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put pdf %s: %w", key, err)
	}
	return key, nil
}

// ArchiveKey 归档对象名：YYYY/MM/DD/<Last><First>_Intake_<unix>.pdf
func ArchiveKey(now time.Time, fileName string) string {
	base := strings.TrimSuffix(fileName, ".pdf")
	return fmt.Sprintf("%s/%s_%d.pdf", now.UTC().Format("2006/01/02"), base, now.Unix())
}
