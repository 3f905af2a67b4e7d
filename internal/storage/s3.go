package storage

import (
	"bano-backend/internal/model"
	"bano-backend/internal/util"
	"fmt"
	"mime/multipart"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type S3Client struct {
	s3     *s3.S3
	bucket string
}

func NewS3Client(region, bucket string) (*S3Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3Client{
		s3:     s3.New(sess),
		bucket: bucket,
	}, nil
}

func (c *S3Client) Upload(file *multipart.FileHeader, folder string) (*model.Media, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	key := path.Join(folder, util.GenerateUniqueFilename(file.Filename))
	_, err = c.s3.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return nil, err
	}

	return &model.Media{
		PublicID: key,
		URL:      fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, key),
	}, nil
}

func (c *S3Client) Delete(publicID string) error {
	_, err := c.s3.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(publicID),
	})
	return err
}
