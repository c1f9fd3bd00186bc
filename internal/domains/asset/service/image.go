package service

import (
	"context"
	"errors"
	"fmt"

	"asset-manager-backend/internal/domains/asset/model"
	"asset-manager-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AttachImage upload ảnh (đã thu nhỏ nếu quá lớn) lên object storage và thay ảnh cũ.
// Ảnh không phải field của schema nên không ghi history.
func (s *assetService) AttachImage(ctx context.Context, id int64, data []byte) (*model.ImageResponse, error) {
	if s.storage == nil {
		return nil, model.ErrStorageDisabled
	}

	img, err := s.images.Prepare(data)
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return nil, model.ErrImageTooLarge
	case errors.Is(err, storage.ErrUnsupportedImage):
		return nil, model.ErrInvalidImage
	case err != nil:
		return nil, fmt.Errorf("prepare image: %w", err)
	}

	asset, err := s.stores.Records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("assets/%d/%s%s", id, uuid.NewString(), img.Ext)
	url, err := s.storage.Upload(ctx, key, img.Data, img.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	if err := s.stores.Records.SetImage(ctx, id, key); err != nil {
		// record không cập nhật được thì object mới thành rác
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("orphan image cleanup failed")
		}
		return nil, err
	}

	if asset.ImageKey != "" {
		if err := s.storage.Delete(ctx, asset.ImageKey); err != nil {
			log.Warn().Err(err).Str("key", asset.ImageKey).Msg("old image delete failed")
		}
	}

	log.Info().Int64("asset_id", id).Str("key", key).Msg("asset image attached")
	return &model.ImageResponse{ImageKey: key, ImageURL: url}, nil
}

func (s *assetService) RemoveImage(ctx context.Context, id int64) error {
	if s.storage == nil {
		return model.ErrStorageDisabled
	}

	asset, err := s.stores.Records.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if asset.ImageKey == "" {
		return model.ErrNoImage
	}

	if err := s.stores.Records.SetImage(ctx, id, ""); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, asset.ImageKey); err != nil {
		log.Warn().Err(err).Str("key", asset.ImageKey).Msg("image object delete failed")
	}
	return nil
}
