package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"recipe-backend/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

type awsS3 struct {
	client *s3.Client
	bucket string
	region string
}

func NewAwsS3() Storage {
	region := utils.GetConfig("AWS_S3_REGION")
	cfg, err := config.LoadDefaultConfig(
		context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		log.Fatalf("error loading AWS config: %v", err)
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
		region: region,
	}
}

func (s *awsS3) UploadFile(fileName string, file *multipart.FileHeader, folder string, allowedTypes ...string) (string, error) {
	ext, err := checkFileType(file, allowedTypes)
	if err != nil {
		return "", err
	}
	if ext == "" {
		ext = filepath.Ext(file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := objectKey(folder, fileName, ext)

	_, err = s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   src,
	})
	if err != nil {
		return "", err
	}

	return key, nil
}

func (s *awsS3) DeleteFile(objectKey string) error {
	if objectKey == "" {
		return nil
	}
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (s *awsS3) PublicLink(objectKey string) string {
	if objectKey == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, objectKey)
}
