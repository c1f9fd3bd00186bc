package model

import "fmt"

// ============ CACHE KEYS ============

const (
	CacheKeyBrands    = "assets:brands"
	CacheKeyDashboard = "assets:dashboard"
)

// NoticeCacheKey - flash notices của một actor cho một asset (0 = asset mới)
func NoticeCacheKey(assetID, actorID int64) string {
	return fmt.Sprintf("assets:notices:%d:%d", assetID, actorID)
}

// ============ DISPLAY ============

const (
	DisplayUnassigned    = "Unassigned"
	DisplayUnknownUser   = "Unknown User"
	DisplayNoCategory    = "None"
	DisplayUncategorized = "Uncategorized"
	DisplayEmpty         = "empty"
	DisplayNoOwner       = "—"
	DisplaySystem        = "System" // history entry không có actor
)

func UnknownUserLabel(id int64) string {
	return fmt.Sprintf("Unknown User (ID: %d)", id)
}

// DerivedTitle: "Asset: <tag>" hoặc "Asset #<id>"
func DerivedTitle(assetTag string, id int64) string {
	if assetTag != "" {
		return "Asset: " + assetTag
	}
	return fmt.Sprintf("Asset #%d", id)
}

// NeedsTitle - title rỗng hoặc vẫn là placeholder
func NeedsTitle(title string) bool {
	return title == "" || title == PlaceholderTitle
}
