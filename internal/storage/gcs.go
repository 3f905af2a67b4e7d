package storage

import (
	"bano-backend/internal/model"
	"bano-backend/internal/util"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSClient struct {
	client     *storage.Client
	bucketName string
}

func NewGCSClient(bucketName, credentialsFile string) (*GCSClient, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}

	return &GCSClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (c *GCSClient) Upload(file *multipart.FileHeader, folder string) (*model.Media, error) {
	ctx := context.Background()
	key := path.Join(folder, util.GenerateUniqueFilename(file.Filename))
	obj := c.client.Bucket(c.bucketName).Object(key)

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	writer := obj.NewWriter(ctx)
	if _, err = io.Copy(writer, src); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return &model.Media{
		PublicID: key,
		URL:      fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, key),
	}, nil
}

func (c *GCSClient) Delete(publicID string) error {
	ctx := context.Background()
	return c.client.Bucket(c.bucketName).Object(publicID).Delete(ctx)
}
