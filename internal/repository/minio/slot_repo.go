package minio

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

const slotContentType = "application/json"

// SlotRepo хранит каждый слот отдельным объектом в бакете MinIO.
type SlotRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewSlotRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *SlotRepo {
	return &SlotRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Read возвращает ok=false, если объекта нет (NoSuchKey).
func (s *SlotRepo) Read(ctx context.Context, key string) (string, bool, error) {
	obj, err := s.mc.GetObject(ctx, s.cfg.BucketName, s.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return "", false, e.Wrap(whereami.WhereAmI(), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return "", false, nil
		}
		return "", false, e.Wrap(whereami.WhereAmI(), err)
	}

	return string(data), true, nil
}

func (s *SlotRepo) Write(ctx context.Context, key string, value string) error {
	reader := bytes.NewReader([]byte(value))

	_, err := s.mc.PutObject(ctx, s.cfg.BucketName, s.objectKey(key), reader, int64(len(value)), minio.PutObjectOptions{
		ContentType: slotContentType,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// objectKey превращает "session:<id>:cart" в "session/<id>/cart.json".
func (s *SlotRepo) objectKey(key string) string {
	return strings.ReplaceAll(key, ":", "/") + ".json"
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
