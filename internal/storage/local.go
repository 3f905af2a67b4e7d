package storage

import (
	"bano-backend/config"
	"bano-backend/internal/model"
	"bano-backend/internal/util"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalStorage 把图片存到本地磁盘，public_id 是相对路径，
// 通过 /uploads 静态路由对外提供访问。
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Upload(file *multipart.FileHeader, folder string) (*model.Media, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	path := filepath.Join(folder, util.GenerateUniqueFilename(file.Filename))
	fullPath := filepath.Join(s.basePath, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("创建目录失败: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("创建文件失败: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("保存文件失败: %w", err)
	}

	util.Logger.Info("文件上传成功", zap.String("fullPath", fullPath))
	return &model.Media{
		PublicID: filepath.ToSlash(path),
		URL:      config.AppConfig.BackendURL + "/uploads/" + filepath.ToSlash(path),
	}, nil
}

func (s *LocalStorage) Delete(publicID string) error {
	// public_id 是相对路径，拒绝越界路径
	if strings.Contains(publicID, "..") {
		return fmt.Errorf("非法的 public_id: %s", publicID)
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(publicID))
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	util.Logger.Info("文件删除成功", zap.String("fullPath", fullPath))
	return nil
}
