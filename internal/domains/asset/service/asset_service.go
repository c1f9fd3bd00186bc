package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"asset-manager-backend/internal/config"
	"asset-manager-backend/internal/domains/asset/model"
	"asset-manager-backend/internal/domains/asset/query"
	"asset-manager-backend/internal/domains/asset/repository"
	"asset-manager-backend/internal/infrastructure/storage"
	"asset-manager-backend/pkg/cache"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

type AssetService interface {
	// Create tạo record mới và chạy lần save đầu tiên trong cùng transaction
	Create(ctx context.Context, sub model.Submission, actorID int64) (*model.SaveResult, error)
	Save(ctx context.Context, id int64, sub model.Submission, actorID int64) (*model.SaveResult, error)
	Get(ctx context.Context, id int64) (*model.AssetResponse, error)
	List(ctx context.Context, req model.ListAssetsRequest) ([]model.AssetListItem, int64, error)
	History(ctx context.Context, id int64) ([]model.HistoryItem, error)
	Notices(ctx context.Context, id, actorID int64) ([]string, error)

	Brands(ctx context.Context) ([]string, error)
	Dashboard(ctx context.Context) (*model.DashboardResponse, error)
	Export(ctx context.Context, req model.ListAssetsRequest) (*excelize.File, error)

	AttachImage(ctx context.Context, id int64, data []byte) (*model.ImageResponse, error)
	RemoveImage(ctx context.Context, id int64) error
}

// Directory - user directory mà asset domain cần (search + display name)
type Directory interface {
	UserDirectory
	query.UserMatcher
}

// ObjectStorage - nơi lưu ảnh asset (MinIO)
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type assetService struct {
	tx        repository.TxRunner
	stores    repository.Stores
	directory Directory
	cache     cache.Cache
	storage   ObjectStorage // nil khi MinIO tắt
	ttl       config.CacheConfig

	history *HistoryEngine
	search  *query.SearchEngine
	images  *storage.ImageProcessor
}

func NewAssetService(
	tx repository.TxRunner,
	stores repository.Stores,
	directory Directory,
	cache cache.Cache,
	objects ObjectStorage,
	ttl config.CacheConfig,
) AssetService {
	return &assetService{
		tx:        tx,
		stores:    stores,
		directory: directory,
		cache:     cache,
		storage:   objects,
		ttl:       ttl,
		history:   NewHistoryEngine(),
		search:    query.NewSearchEngine(stores.Taxonomy, directory),
		images:    storage.NewImageProcessor(),
	}
}

// ============================================================
// SAVE PIPELINE
// ============================================================

func (s *assetService) Create(ctx context.Context, sub model.Submission, actorID int64) (*model.SaveResult, error) {
	return s.save(ctx, 0, sub, actorID)
}

func (s *assetService) Save(ctx context.Context, id int64, sub model.Submission, actorID int64) (*model.SaveResult, error) {
	if id <= 0 {
		return nil, model.ErrInvalidAssetID
	}
	return s.save(ctx, id, sub, actorID)
}

// save: validate → normalize → diff + history → title back-fill.
// id == 0 nghĩa là tạo record mới.
func (s *assetService) save(ctx context.Context, id int64, sub model.Submission, actorID int64) (*model.SaveResult, error) {
	// ========== STEP 1: Validate (không chạm store) ==========
	if messages := model.Validate(sub); len(messages) > 0 {
		s.rememberNotices(ctx, id, actorID, messages)
		return nil, &model.ValidationError{Messages: messages}
	}

	categoryID, err := strconv.ParseInt(strings.TrimSpace(sub.Category), 10, 64)
	if err != nil || categoryID <= 0 {
		return nil, model.ErrInvalidCategoryID
	}

	// ========== STEP 2: Normalize ==========
	next := model.NormalizeSubmission(sub)

	// ========== STEP 3: Diff + write + history, một transaction ==========
	var (
		result    model.SaveResult
		changeset Changeset
	)
	err = s.tx.WithinTx(ctx, func(st repository.Stores) error {
		if _, err := st.Taxonomy.TermName(ctx, categoryID); err != nil {
			return err
		}

		recordID := id
		if recordID == 0 {
			created, err := st.Records.Create(ctx, model.PlaceholderTitle)
			if err != nil {
				return err
			}
			recordID = created
		}

		previous, err := st.Records.Get(ctx, recordID)
		if err != nil {
			return err
		}
		previousCategory, err := st.Taxonomy.RecordTerm(ctx, recordID)
		if err != nil {
			return err
		}

		changeset, err = s.history.Apply(ctx, st, recordID, previous, next, previousCategory, &categoryID, actorID)
		if err != nil {
			return err
		}

		// ========== STEP 4: Title back-fill (phase riêng, không diff) ==========
		title, err := backfillTitle(ctx, st.Records, recordID)
		if err != nil {
			return err
		}

		result = model.SaveResult{ID: recordID, Title: title, Changes: changeset.Lines}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save asset: %w", err)
	}

	if result.Changes == nil {
		result.Changes = []string{}
	}
	if !changeset.Empty() {
		s.invalidateCaches(ctx)
	}

	log.Info().
		Int64("asset_id", result.ID).
		Int64("actor_id", actorID).
		Int("changes", len(result.Changes)).
		Msg("asset saved")

	return &result, nil
}

// backfillTitle gán title dẫn xuất nếu title rỗng hoặc còn placeholder. Idempotent.
func backfillTitle(ctx context.Context, records repository.RecordStore, id int64) (string, error) {
	title, err := records.GetTitle(ctx, id)
	if err != nil {
		return "", err
	}
	if !model.NeedsTitle(title) {
		return title, nil
	}

	attrs, err := records.Get(ctx, id)
	if err != nil {
		return "", err
	}
	title = model.DerivedTitle(attrs.Get(model.FieldAssetTag), id)
	if err := records.SetTitle(ctx, id, title); err != nil {
		return "", err
	}
	return title, nil
}

// ============================================================
// READ
// ============================================================

func (s *assetService) Get(ctx context.Context, id int64) (*model.AssetResponse, error) {
	asset, err := s.stores.Records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	names := newOwnerNames(s.directory)
	owner, err := names.listLabel(ctx, asset)
	if err != nil {
		return nil, err
	}

	resp := &model.AssetResponse{
		ID:           asset.ID,
		Title:        asset.Title,
		CategoryID:   asset.CategoryID,
		CategoryName: asset.CategoryName,
		Attributes:   asset.Attributes,
		IssuedTo:     owner,
		CreatedAt:    asset.CreatedAt,
		UpdatedAt:    asset.UpdatedAt,
	}
	if asset.ImageKey != "" && s.storage != nil {
		resp.ImageURL = s.storage.URL(asset.ImageKey)
	}
	return resp, nil
}

func (s *assetService) List(ctx context.Context, req model.ListAssetsRequest) ([]model.AssetListItem, int64, error) {
	req.ApplyDefaults()

	assets, total, err := s.find(ctx, req, repository.Page{
		Limit:  req.Limit,
		Offset: (req.Page - 1) * req.Limit,
		Sort:   repository.SortNewest,
	})
	if err != nil {
		return nil, 0, err
	}

	names := newOwnerNames(s.directory)
	items := make([]model.AssetListItem, 0, len(assets))
	for i := range assets {
		item, err := toListItem(ctx, names, &assets[i])
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}

// find dựng predicate cho đúng request này rồi bỏ đi
func (s *assetService) find(ctx context.Context, req model.ListAssetsRequest, page repository.Page) ([]model.Asset, int64, error) {
	pred, err := s.search.Plan(ctx, query.NewRequest(req.Search, req.Category, req.Brand))
	if err != nil {
		return nil, 0, fmt.Errorf("build asset query: %w", err)
	}

	assets, total, err := s.stores.Records.Find(ctx, pred, page)
	if err != nil {
		return nil, 0, fmt.Errorf("find assets: %w", err)
	}
	return assets, total, nil
}

// History - mới nhất trước, actor đã resolve tên
func (s *assetService) History(ctx context.Context, id int64) ([]model.HistoryItem, error) {
	entries, err := s.stores.Records.History(ctx, id)
	if err != nil {
		return nil, err
	}

	names := newOwnerNames(s.directory)
	items := make([]model.HistoryItem, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		actorName := model.DisplaySystem
		if e.ActorID != nil {
			name, found, err := names.resolve(ctx, *e.ActorID)
			if err != nil {
				return nil, err
			}
			actorName = model.DisplayUnknownUser
			if found {
				actorName = name
			}
		}
		items = append(items, model.HistoryItem{
			Timestamp: e.Timestamp,
			ActorID:   e.ActorID,
			ActorName: actorName,
			Note:      e.Note,
		})
	}
	return items, nil
}

// ============================================================
// OWNER DISPLAY
// ============================================================

// ownerNames cache tên user trong phạm vi một request
type ownerNames struct {
	directory UserDirectory
	names     map[int64]string
	found     map[int64]bool
}

func newOwnerNames(directory UserDirectory) *ownerNames {
	return &ownerNames{directory: directory, names: map[int64]string{}, found: map[int64]bool{}}
}

func (o *ownerNames) resolve(ctx context.Context, id int64) (string, bool, error) {
	if _, ok := o.found[id]; ok {
		return o.names[id], o.found[id], nil
	}
	name, found, err := o.directory.DisplayName(ctx, id)
	if err != nil {
		return "", false, fmt.Errorf("resolve user %d: %w", id, err)
	}
	o.names[id], o.found[id] = name, found
	return name, found, nil
}

// listLabel - cột "Issued To" của admin list
func (o *ownerNames) listLabel(ctx context.Context, a *model.Asset) (string, error) {
	owner := a.OwnerID()
	if owner == 0 {
		if a.Attributes.Get(model.FieldStatus) == model.StatusUnassigned {
			return model.DisplayUnassigned, nil
		}
		return model.DisplayNoOwner, nil
	}

	name, found, err := o.resolve(ctx, owner)
	if err != nil {
		return "", err
	}
	if !found {
		return model.DisplayUnknownUser, nil
	}
	return name, nil
}

func toListItem(ctx context.Context, names *ownerNames, a *model.Asset) (model.AssetListItem, error) {
	owner, err := names.listLabel(ctx, a)
	if err != nil {
		return model.AssetListItem{}, err
	}
	return model.AssetListItem{
		ID:            a.ID,
		Title:         a.Title,
		AssetTag:      a.Attributes.Get(model.FieldAssetTag),
		Model:         a.Attributes.Get(model.FieldModel),
		SerialNumber:  a.Attributes.Get(model.FieldSerialNumber),
		Brand:         a.Attributes.Get(model.FieldBrand),
		CategoryName:  a.CategoryName,
		Location:      a.Attributes.Get(model.FieldLocation),
		Status:        a.Attributes.Get(model.FieldStatus),
		IssuedTo:      owner,
		DatePurchased: a.Attributes.Get(model.FieldDatePurchased),
	}, nil
}
