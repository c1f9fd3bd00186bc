package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"asset-manager-backend/internal/config"
	"asset-manager-backend/internal/domains/asset/model"
	"asset-manager-backend/internal/domains/asset/repository"
	directoryrepo "asset-manager-backend/internal/domains/directory/repository"
	infracache "asset-manager-backend/internal/infrastructure/cache"
	"asset-manager-backend/internal/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	catLaptops  = "1"
	catMonitors = "2"

	actorAdmin int64 = 10
)

type fixture struct {
	db      *memory.DB
	svc     AssetService
	cache   *infracache.MemoryCache
	storage *fakeStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := memory.NewDB()
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	db.SetClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	require.NoError(t, db.Update(func(tb *memory.Tables) error {
		tb.InsertCategory(memory.CategoryRow{Name: "Laptops", Slug: "laptops"})
		tb.InsertCategory(memory.CategoryRow{Name: "Monitors", Slug: "monitors"})
		tb.InsertUser(memory.UserRow{ID: 1, Login: "anguyen", Email: "an@corp.test", DisplayName: "Alice Nguyen"})
		tb.InsertUser(memory.UserRow{ID: 2, Login: "btran", Email: "bt@corp.test", DisplayName: "Bob Tran"})
		tb.InsertUser(memory.UserRow{ID: actorAdmin, Login: "admin", DisplayName: "Site Admin"})
		return nil
	}))

	f := &fixture{
		db:      db,
		cache:   infracache.NewMemoryCache(),
		storage: newFakeStorage(),
	}
	f.svc = NewAssetService(
		repository.NewMemoryTxRunner(db),
		repository.NewMemoryStores(db),
		directoryrepo.NewMemoryRepository(db),
		f.cache,
		f.storage,
		config.CacheConfig{BrandsTTL: time.Minute, DashboardTTL: time.Minute, NoticeTTL: 45 * time.Second},
	)
	return f
}

func submission(tag string) model.Submission {
	return model.Submission{
		Values: map[model.FieldKey]string{
			model.FieldAssetTag:      tag,
			model.FieldModel:         "Latitude 7440",
			model.FieldSerialNumber:  "SN-" + tag,
			model.FieldBrand:         "Dell",
			model.FieldSupplier:      "Acme Supply",
			model.FieldDatePurchased: "2024-01-15",
			model.FieldIssuedTo:      "1",
			model.FieldStatus:        model.StatusAssigned,
			model.FieldLocation:      "HQ floor 2",
			model.FieldDescription:   "Standard issue",
		},
		Category: catLaptops,
	}
}

func (f *fixture) create(t *testing.T, sub model.Submission) int64 {
	t.Helper()
	res, err := f.svc.Create(context.Background(), sub, actorAdmin)
	require.NoError(t, err)
	return res.ID
}

// ============================================================
// SAVE
// ============================================================

func TestCreate_FirstSaveRecordsHistoryAndTitle(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Create(context.Background(), submission("IT-1"), actorAdmin)
	require.NoError(t, err)

	assert.Equal(t, "Asset: IT-1", res.Title)
	require.NotEmpty(t, res.Changes)
	assert.Equal(t, `Asset Tag changed from "empty" to "IT-1"`, res.Changes[0])
	assert.Contains(t, res.Changes, `Issued To changed from "Unassigned" to "Alice Nguyen"`)
	assert.Contains(t, res.Changes, "Description changed.")
	assert.Equal(t, `Category changed from "None" to "Laptops"`, res.Changes[len(res.Changes)-1])

	history, err := f.svc.History(context.Background(), res.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Site Admin", history[0].ActorName)
}

func TestSave_IdenticalResubmitIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, submission("IT-1"))

	res, err := f.svc.Save(ctx, id, submission("IT-1"), actorAdmin)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)

	history, err := f.svc.History(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSave_EscapedTextIsStable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub := submission("IT-1")
	sub.Values[model.FieldSupplier] = "Fish & Chips <Ltd>"
	id := f.create(t, sub)

	res, err := f.svc.Save(ctx, id, sub, actorAdmin)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
}

func TestSave_DescriptionOnly(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, submission("IT-1"))

	sub := submission("IT-1")
	sub.Values[model.FieldDescription] = "Screen replaced in March"

	res, err := f.svc.Save(context.Background(), id, sub, actorAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{"Description changed."}, res.Changes)
}

func TestSave_OwnerChangeUsesDisplayNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, submission("IT-1"))

	sub := submission("IT-1")
	sub.Values[model.FieldIssuedTo] = "2"
	res, err := f.svc.Save(ctx, id, sub, actorAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{`Issued To changed from "Alice Nguyen" to "Bob Tran"`}, res.Changes)

	sub.Values[model.FieldIssuedTo] = "99"
	res, err = f.svc.Save(ctx, id, sub, actorAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{`Issued To changed from "Bob Tran" to "Unknown User (ID: 99)"`}, res.Changes)
}

func TestSave_OwnerChangeCompletesOnMemoryStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	done := make(chan error, 1)
	var changes []string
	go func() {
		res, err := f.svc.Create(ctx, submission("IT-9"), actorAdmin)
		if err != nil {
			done <- err
			return
		}
		sub := submission("IT-9")
		sub.Values[model.FieldIssuedTo] = "2"
		res, err = f.svc.Save(ctx, res.ID, sub, actorAdmin)
		if err == nil {
			changes = res.Changes
		}
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("save resolving owner names did not complete")
	}
	assert.Equal(t, []string{`Issued To changed from "Alice Nguyen" to "Bob Tran"`}, changes)
}

func TestSave_UnassignWithZeroOwnerIsNotAChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub := submission("IT-1")
	sub.Values[model.FieldStatus] = model.StatusUnassigned
	sub.Values[model.FieldIssuedTo] = ""
	id := f.create(t, sub)

	sub.Values[model.FieldIssuedTo] = "0"
	res, err := f.svc.Save(ctx, id, sub, actorAdmin)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
}

func TestSave_CategoryChange(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, submission("IT-1"))

	sub := submission("IT-1")
	sub.Category = catMonitors
	res, err := f.svc.Save(context.Background(), id, sub, actorAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{`Category changed from "Laptops" to "Monitors"`}, res.Changes)

	asset, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Monitors", asset.CategoryName)
}

func TestSave_InvalidDateRejectedWithoutMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, submission("IT-1"))

	sub := submission("IT-1")
	sub.Values[model.FieldDatePurchased] = "2024-02-30"
	sub.Values[model.FieldBrand] = "HP"

	_, err := f.svc.Save(ctx, id, sub, actorAdmin)
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"The Date Purchased field has an invalid date format. Please use YYYY-MM-DD.",
	}, verr.Messages)

	asset, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dell", asset.Attributes.Get(model.FieldBrand))
	assert.Equal(t, "2024-01-15", asset.Attributes.Get(model.FieldDatePurchased))

	history, err := f.svc.History(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSave_NoticesAreReturnedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, submission("IT-1"))

	sub := submission("IT-1")
	sub.Values[model.FieldModel] = "  "
	_, err := f.svc.Save(ctx, id, sub, actorAdmin)
	require.Error(t, err)

	notices, err := f.svc.Notices(ctx, id, actorAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Model field is required."}, notices)

	notices, err = f.svc.Notices(ctx, id, actorAdmin)
	require.NoError(t, err)
	assert.Empty(t, notices)

	// notice thuộc về actor đã gửi
	other, err := f.svc.Notices(ctx, id, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSave_TitleKeptAfterTagChange(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, submission("IT-1"))

	res, err := f.svc.Save(context.Background(), id, submission("IT-2"), actorAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Asset: IT-1", res.Title)
}

func TestSave_CategoryErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, submission("IT-1"))

	sub := submission("IT-1")
	sub.Category = "abc"
	_, err := f.svc.Save(ctx, id, sub, actorAdmin)
	assert.ErrorIs(t, err, model.ErrInvalidCategoryID)

	sub.Category = "42"
	_, err = f.svc.Save(ctx, id, sub, actorAdmin)
	assert.ErrorIs(t, err, model.ErrCategoryNotFound)

	_, err = f.svc.Save(ctx, 999, submission("IT-1"), actorAdmin)
	assert.ErrorIs(t, err, model.ErrAssetNotFound)

	_, err = f.svc.Save(ctx, 0, submission("IT-1"), actorAdmin)
	assert.ErrorIs(t, err, model.ErrInvalidAssetID)
}

func TestCreate_FailedCategoryLeavesNoRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub := submission("IT-1")
	sub.Category = "42"
	_, err := f.svc.Create(ctx, sub, actorAdmin)
	require.ErrorIs(t, err, model.ErrCategoryNotFound)

	items, total, err := f.svc.List(ctx, model.ListAssetsRequest{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

// ============================================================
// READ
// ============================================================

func TestHistory_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, submission("IT-1"))

	sub := submission("IT-1")
	sub.Values[model.FieldLocation] = "Warehouse"
	_, err := f.svc.Save(ctx, id, sub, 0)
	require.NoError(t, err)

	history, err := f.svc.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, `Location changed from "HQ floor 2" to "Warehouse"`, history[0].Note)
	assert.Equal(t, model.DisplaySystem, history[0].ActorName)
	assert.Nil(t, history[0].ActorID)
	assert.True(t, history[0].Timestamp.After(history[1].Timestamp))
}

func TestList_FacetsAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	laptop := f.create(t, submission("IT-1"))

	monitor := submission("IT-2")
	monitor.Values[model.FieldBrand] = "HP"
	monitor.Values[model.FieldIssuedTo] = "2"
	monitor.Category = catMonitors
	monitorID := f.create(t, monitor)

	spare := submission("IT-3")
	spare.Values[model.FieldStatus] = model.StatusUnassigned
	spare.Values[model.FieldIssuedTo] = ""
	spareID := f.create(t, spare)

	tests := []struct {
		name string
		req  model.ListAssetsRequest
		want []int64
	}{
		{"all newest first", model.ListAssetsRequest{}, []int64{spareID, monitorID, laptop}},
		{"brand facet", model.ListAssetsRequest{Brand: "HP"}, []int64{monitorID}},
		{"category facet", model.ListAssetsRequest{Category: "laptops"}, []int64{spareID, laptop}},
		{"search owner name", model.ListAssetsRequest{Search: "alice"}, []int64{laptop}},
		{"search category name", model.ListAssetsRequest{Search: "monit"}, []int64{monitorID}},
		{"search with facet", model.ListAssetsRequest{Search: "IT-", Brand: "Dell"}, []int64{spareID, laptop}},
		{"search no match", model.ListAssetsRequest{Search: "nothing-here"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := f.svc.List(ctx, tt.req)
			require.NoError(t, err)

			var ids []int64
			for _, it := range items {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestList_MatchesTextWithSpecialCharacters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub := submission("IT-1")
	sub.Values[model.FieldBrand] = "AT&T"
	sub.Values[model.FieldLocation] = "Bob's office"
	id := f.create(t, sub)
	f.create(t, submission("IT-2"))

	tests := []struct {
		name string
		req  model.ListAssetsRequest
	}{
		{"search apostrophe", model.ListAssetsRequest{Search: "Bob's"}},
		{"search ampersand", model.ListAssetsRequest{Search: "AT&T"}},
		{"brand facet", model.ListAssetsRequest{Brand: "AT&T"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := f.svc.List(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, int64(1), total)
			require.Len(t, items, 1)
			assert.Equal(t, id, items[0].ID)
		})
	}

	brands, err := f.svc.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AT&T", "Dell"}, brands)
}

func TestList_OwnerColumn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	spare := submission("IT-1")
	spare.Values[model.FieldStatus] = model.StatusUnassigned
	spare.Values[model.FieldIssuedTo] = ""
	f.create(t, spare)

	ghost := submission("IT-2")
	ghost.Values[model.FieldIssuedTo] = "77"
	f.create(t, ghost)

	items, _, err := f.svc.List(ctx, model.ListAssetsRequest{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.DisplayUnknownUser, items[0].IssuedTo)
	assert.Equal(t, model.DisplayUnassigned, items[1].IssuedTo)
}

func TestList_Pagination(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, submission("IT-1"))
	f.create(t, submission("IT-2"))

	items, total, err := f.svc.List(context.Background(), model.ListAssetsRequest{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 1)
	assert.Equal(t, first, items[0].ID)
}

// ============================================================
// AGGREGATES
// ============================================================

func TestBrands_SortedAndInvalidatedOnSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, submission("IT-1"))

	brands, err := f.svc.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dell"}, brands)

	hp := submission("IT-2")
	hp.Values[model.FieldBrand] = "HP"
	f.create(t, hp)

	brands, err = f.svc.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dell", "HP"}, brands)
}

func TestDashboard_Counts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.create(t, submission("IT-1"))

	spare := submission("IT-2")
	spare.Values[model.FieldStatus] = model.StatusUnassigned
	spare.Values[model.FieldIssuedTo] = ""
	spare.Category = catMonitors
	f.create(t, spare)

	// non-numeric owner qua được validation nhưng normalize về rỗng
	broken := submission("IT-3")
	broken.Values[model.FieldIssuedTo] = "nobody"
	f.create(t, broken)

	ghost := submission("IT-4")
	ghost.Values[model.FieldIssuedTo] = "55"
	f.create(t, ghost)

	require.NoError(t, f.db.Update(func(tb *memory.Tables) error {
		tb.InsertAsset(memory.AssetRow{
			Title: "Legacy import",
			Meta:  map[string]string{model.MetaKey(model.FieldStatus): "Lost"},
		})
		return nil
	}))

	dash, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(5), dash.Total)
	assert.Equal(t, int64(3), dash.ByStatus[model.StatusAssigned])
	assert.Equal(t, int64(1), dash.ByStatus[model.StatusUnassigned])
	assert.Equal(t, int64(1), dash.ByStatus["Unknown"])
	assert.Contains(t, dash.ByStatus, model.StatusDisposed)
	assert.Zero(t, dash.ByStatus[model.StatusDisposed])

	assert.Equal(t, int64(1), dash.ByOwner["Alice Nguyen"])
	assert.Equal(t, int64(3), dash.ByOwner[model.DisplayUnassigned])
	assert.Equal(t, int64(1), dash.ByOwner["Unknown User (ID: 55)"])

	assert.Equal(t, int64(3), dash.ByCategory["Laptops"])
	assert.Equal(t, int64(1), dash.ByCategory["Monitors"])
	assert.Equal(t, int64(1), dash.ByCategory[model.DisplayUncategorized])
}

func TestDashboard_UnassignedBucketAlwaysPresent(t *testing.T) {
	f := newFixture(t)
	f.create(t, submission("IT-1"))

	dash, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Contains(t, dash.ByOwner, model.DisplayUnassigned)
	assert.Zero(t, dash.ByOwner[model.DisplayUnassigned])
	assert.Equal(t, int64(1), dash.ByOwner["Alice Nguyen"])
}

func TestDashboard_ServedFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, submission("IT-1"))

	_, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)

	// ghi thẳng vào store, không qua service → cache không bị xóa
	require.NoError(t, f.db.Update(func(tb *memory.Tables) error {
		tb.InsertAsset(memory.AssetRow{Title: "Direct"})
		return nil
	}))

	dash, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dash.Total)
}

func TestExport_SortedByTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := submission("IT-B")
	b.Values[model.FieldSupplier] = "Fish & Chips"
	f.create(t, b)
	f.create(t, submission("IT-A"))

	file, err := f.svc.Export(ctx, model.ListAssetsRequest{})
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Category", rows[0][len(rows[0])-1])
	assert.Equal(t, "Asset: IT-A", rows[1][1])
	assert.Equal(t, "Asset: IT-B", rows[2][1])
	assert.Contains(t, rows[2], "Fish & Chips")
	assert.Contains(t, rows[2], "Alice Nguyen")
}

func TestBuildExportFile_HeaderRowStyled(t *testing.T) {
	file, err := buildExportFile([][]interface{}{{int64(1), "Asset: IT-1"}})
	require.NoError(t, err)
	defer file.Close()

	header, err := file.GetCellStyle(exportSheet, "A1")
	require.NoError(t, err)
	assert.NotZero(t, header)

	body, err := file.GetCellStyle(exportSheet, "A2")
	require.NoError(t, err)
	assert.Zero(t, body)

	value, err := file.GetCellValue(exportSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Asset: IT-1", value)
}

// ============================================================
// IMAGE
// ============================================================

func testPNG(t *testing.T) []byte {
	t.Helper()
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, image.NewGray(image.Rect(0, 0, 8, 8))))
	return b.Bytes()
}

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.objects[key] = data
	return s.URL(key), nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) URL(key string) string {
	return "http://minio.test/assets/" + key
}

func TestAttachImage_ReplacesPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, submission("IT-1"))

	first, err := f.svc.AttachImage(ctx, id, testPNG(t))
	require.NoError(t, err)
	assert.Contains(t, first.ImageKey, "assets/1/")
	assert.Contains(t, first.ImageKey, ".png")

	second, err := f.svc.AttachImage(ctx, id, testPNG(t))
	require.NoError(t, err)
	assert.NotEqual(t, first.ImageKey, second.ImageKey)
	assert.Equal(t, []string{first.ImageKey}, f.storage.deleted)

	asset, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, second.ImageURL, asset.ImageURL)

	history, err := f.svc.History(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 1, "image is not a tracked field")
}

func TestAttachImage_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, submission("IT-1"))

	_, err := f.svc.AttachImage(ctx, id, []byte("plain text, not an image"))
	assert.ErrorIs(t, err, model.ErrInvalidImage)

	_, err = f.svc.AttachImage(ctx, id, make([]byte, 5<<20+1))
	assert.ErrorIs(t, err, model.ErrImageTooLarge)

	_, err = f.svc.AttachImage(ctx, 999, testPNG(t))
	assert.ErrorIs(t, err, model.ErrAssetNotFound)
	assert.Empty(t, f.storage.objects)
}

func TestRemoveImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, submission("IT-1"))

	assert.ErrorIs(t, f.svc.RemoveImage(ctx, id), model.ErrNoImage)

	img, err := f.svc.AttachImage(ctx, id, testPNG(t))
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveImage(ctx, id))
	assert.NotContains(t, f.storage.objects, img.ImageKey)

	asset, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, asset.ImageURL)
}

func TestImage_StorageDisabled(t *testing.T) {
	db := memory.NewDB()
	svc := NewAssetService(
		repository.NewMemoryTxRunner(db),
		repository.NewMemoryStores(db),
		directoryrepo.NewMemoryRepository(db),
		infracache.NewMemoryCache(),
		nil,
		config.CacheConfig{},
	)

	_, err := svc.AttachImage(context.Background(), 1, testPNG(t))
	assert.ErrorIs(t, err, model.ErrStorageDisabled)
	assert.ErrorIs(t, svc.RemoveImage(context.Background(), 1), model.ErrStorageDisabled)
}
