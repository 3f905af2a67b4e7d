package storage

import (
	"bano-backend/internal/model"
	"mime/multipart"
)

// BlobStorage 是图床协作方的抽象：上传返回稳定标识和URL，
// 之后只能凭 public_id 删除。
type BlobStorage interface {
	Upload(file *multipart.FileHeader, folder string) (*model.Media, error)
	Delete(publicID string) error
}
