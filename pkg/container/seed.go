package container

import (
	"time"

	"asset-manager-backend/internal/infrastructure/memory"
	"asset-manager-backend/internal/shared/utils"
	"asset-manager-backend/pkg/logger"
)

// directory là hệ thống ngoài; memory mode cần vài user để dropdown/search có dữ liệu
var demoUsers = []memory.UserRow{
	{ID: 1, Login: "admin", Nickname: "admin", Email: "admin@example.com", DisplayName: "Site Admin"},
	{ID: 2, Login: "jdoe", Nickname: "john", Email: "john.doe@example.com", DisplayName: "John Doe"},
	{ID: 3, Login: "mtran", Nickname: "mai", Email: "mai.tran@example.com", DisplayName: "Mai Trần"},
}

var demoCategories = []string{"Laptops", "Monitors", "Phones", "Peripherals"}

func seedDemoData(db *memory.DB) error {
	logger.Debug("seeding demo directory and categories")
	now := time.Now().UTC()
	return db.Update(func(t *memory.Tables) error {
		for _, u := range demoUsers {
			t.InsertUser(u)
		}
		for _, name := range demoCategories {
			t.InsertCategory(memory.CategoryRow{Name: name, Slug: utils.GenerateSlug(name), CreatedAt: now})
		}
		return nil
	})
}
