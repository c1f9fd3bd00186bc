package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strconv"

	"asset-manager-backend/internal/domains/asset/model"

	"github.com/rs/zerolog/log"
)

const statusUnknown = "Unknown"

// Brands - option cho brand facet, cache theo CacheConfig.BrandsTTL
func (s *assetService) Brands(ctx context.Context) ([]string, error) {
	var brands []string
	if found, err := s.cache.Get(ctx, model.CacheKeyBrands, &brands); err != nil {
		log.Warn().Err(err).Msg("brand cache read failed")
	} else if found {
		return brands, nil
	}

	stored, err := s.stores.Records.DistinctValues(ctx, model.FieldBrand)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}

	// trả text thô cho client; gửi lại làm brand facet vẫn khớp
	brands = make([]string, 0, len(stored))
	for _, b := range stored {
		brands = append(brands, html.UnescapeString(b))
	}
	sort.Strings(brands)

	if err := s.cache.Set(ctx, model.CacheKeyBrands, brands, s.ttl.BrandsTTL); err != nil {
		log.Warn().Err(err).Msg("brand cache write failed")
	}
	return brands, nil
}

// Dashboard đếm asset theo status, owner và category
func (s *assetService) Dashboard(ctx context.Context) (*model.DashboardResponse, error) {
	var cached model.DashboardResponse
	if found, err := s.cache.Get(ctx, model.CacheKeyDashboard, &cached); err != nil {
		log.Warn().Err(err).Msg("dashboard cache read failed")
	} else if found {
		return &cached, nil
	}

	groups, err := s.stores.Records.CountBy(ctx, model.FieldStatus, model.FieldIssuedTo)
	if err != nil {
		return nil, fmt.Errorf("count assets: %w", err)
	}

	resp := &model.DashboardResponse{
		ByStatus:   make(map[string]int64, len(model.StatusOptions)+1),
		ByOwner:    map[string]int64{},
		ByCategory: map[string]int64{},
	}
	for _, st := range model.StatusOptions {
		resp.ByStatus[st] = 0
	}
	resp.ByStatus[statusUnknown] = 0
	resp.ByOwner[model.DisplayUnassigned] = 0

	names := newOwnerNames(s.directory)
	for _, g := range groups {
		status, owner := g.Values[0], model.ComparableUserRef(g.Values[1])
		resp.Total += g.Count

		if model.IsStatus(status) {
			resp.ByStatus[status] += g.Count
		} else {
			resp.ByStatus[statusUnknown] += g.Count
		}

		label, err := s.dashboardOwner(ctx, names, status, owner, g.Count)
		if err != nil {
			return nil, err
		}
		resp.ByOwner[label] += g.Count
	}

	byCategory, err := s.stores.Records.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count assets by category: %w", err)
	}
	for name, count := range byCategory {
		if name == "" {
			name = model.DisplayUncategorized
		}
		resp.ByCategory[name] += count
	}

	if err := s.cache.Set(ctx, model.CacheKeyDashboard, resp, s.ttl.DashboardTTL); err != nil {
		log.Warn().Err(err).Msg("dashboard cache write failed")
	}
	return resp, nil
}

// dashboardOwner - asset không owner luôn vào nhóm Unassigned. Trường hợp status khác
// Unassigned mà không owner không qua được validation, chỉ log lại nếu gặp.
func (s *assetService) dashboardOwner(ctx context.Context, names *ownerNames, status, owner string, count int64) (string, error) {
	if owner == "" {
		if status != model.StatusUnassigned {
			log.Warn().
				Str("status", status).
				Int64("assets", count).
				Msg("assets without owner in a non-unassigned status")
		}
		return model.DisplayUnassigned, nil
	}

	id, _ := strconv.ParseInt(owner, 10, 64)
	name, found, err := names.resolve(ctx, id)
	if err != nil {
		return "", err
	}
	if !found {
		return model.UnknownUserLabel(id), nil
	}
	return name, nil
}

// ============================================================
// CACHE
// ============================================================

func (s *assetService) invalidateCaches(ctx context.Context) {
	if err := s.cache.Delete(ctx, model.CacheKeyBrands, model.CacheKeyDashboard); err != nil {
		log.Warn().Err(err).Msg("asset cache invalidation failed")
	}
}

// rememberNotices giữ validation errors trong NoticeTTL để UI hiển thị một lần
func (s *assetService) rememberNotices(ctx context.Context, id, actorID int64, messages []string) {
	if err := s.cache.Set(ctx, model.NoticeCacheKey(id, actorID), messages, s.ttl.NoticeTTL); err != nil {
		log.Warn().Err(err).Int64("asset_id", id).Msg("notice cache write failed")
	}
}

// Notices trả notices đang chờ và xóa ngay (chỉ hiển thị một lần)
func (s *assetService) Notices(ctx context.Context, id, actorID int64) ([]string, error) {
	key := model.NoticeCacheKey(id, actorID)

	var messages []string
	found, err := s.cache.Get(ctx, key, &messages)
	if err != nil {
		return nil, fmt.Errorf("read notices: %w", err)
	}
	if !found {
		return []string{}, nil
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("notice cache delete failed")
	}
	return messages, nil
}
