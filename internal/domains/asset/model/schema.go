package model

import "strings"

// FieldKey - định danh của một field trong record, thay cho string key tự do
type FieldKey string

const (
	FieldAssetTag      FieldKey = "asset_tag"
	FieldModel         FieldKey = "model"
	FieldSerialNumber  FieldKey = "serial_number"
	FieldBrand         FieldKey = "brand"
	FieldSupplier      FieldKey = "supplier"
	FieldDatePurchased FieldKey = "date_purchased"
	FieldIssuedTo      FieldKey = "issued_to"
	FieldStatus        FieldKey = "status"
	FieldLocation      FieldKey = "location"
	FieldDescription   FieldKey = "description"
)

// Kind quyết định cách validate, normalize và diff một field
type Kind int

const (
	KindText Kind = iota
	KindLongText
	KindDate
	KindEnum
	KindUserRef
)

type Field struct {
	Key   FieldKey
	Label string
	Kind  Kind
}

// Fields - thứ tự ở đây là thứ tự của validation errors và history lines
var Fields = []Field{
	{FieldAssetTag, "Asset Tag", KindText},
	{FieldModel, "Model", KindText},
	{FieldSerialNumber, "Serial Number", KindText},
	{FieldBrand, "Brand", KindText},
	{FieldSupplier, "Supplier", KindText},
	{FieldDatePurchased, "Date Purchased", KindDate},
	{FieldIssuedTo, "Issued To", KindUserRef},
	{FieldStatus, "Status", KindEnum},
	{FieldLocation, "Location", KindText},
	{FieldDescription, "Description", KindLongText},
}

const CategoryLabel = "Category"

// ============ STATUS ============

const (
	StatusUnassigned = "Unassigned"
	StatusAssigned   = "Assigned"
	StatusReturned   = "Returned"
	StatusForRepair  = "For Repair"
	StatusRepairing  = "Repairing"
	StatusArchived   = "Archived"
	StatusDisposed   = "Disposed"
)

// StatusOptions - phần tử đầu tiên là default khi normalize
var StatusOptions = []string{
	StatusUnassigned,
	StatusAssigned,
	StatusReturned,
	StatusForRepair,
	StatusRepairing,
	StatusArchived,
	StatusDisposed,
}

func IsStatus(s string) bool {
	for _, opt := range StatusOptions {
		if opt == s {
			return true
		}
	}
	return false
}

// ============ STORAGE / SEARCH ============

const (
	DateLayout = "2006-01-02"

	// MetaPrefix namespaces field keys in the attribute store
	MetaPrefix = "_asset_manager_"

	PlaceholderTitle = "Auto Draft"
)

// SearchableFields are matched by substring against the free-text term.
// description và issued_to cố ý không có ở đây.
var SearchableFields = []FieldKey{
	FieldAssetTag,
	FieldModel,
	FieldSerialNumber,
	FieldBrand,
	FieldLocation,
	FieldStatus,
	FieldDatePurchased,
}

func MetaKey(k FieldKey) string {
	return MetaPrefix + string(k)
}

// FieldKeyFromMeta là chiều ngược của MetaKey
func FieldKeyFromMeta(metaKey string) (FieldKey, bool) {
	if !strings.HasPrefix(metaKey, MetaPrefix) {
		return "", false
	}
	k := FieldKey(strings.TrimPrefix(metaKey, MetaPrefix))
	_, ok := FieldByKey(k)
	return k, ok
}

func FieldByKey(k FieldKey) (Field, bool) {
	for _, f := range Fields {
		if f.Key == k {
			return f, true
		}
	}
	return Field{}, false
}

func (k FieldKey) Label() string {
	if f, ok := FieldByKey(k); ok {
		return f.Label
	}
	return string(k)
}
