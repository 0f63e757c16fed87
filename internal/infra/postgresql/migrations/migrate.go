package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/replayhq/replay/internal/domain"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "000001_create_schools_clubs_users",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&domain.School{},
					&domain.Club{},
					&domain.User{},
					&domain.ClubAdmin{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&domain.ClubAdmin{},
					&domain.User{},
					&domain.Club{},
					&domain.School{},
				)
			},
		},
		{
			ID: "000002_create_inventory_and_trade",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(
					&domain.InventoryItem{},
					&domain.TradeListing{},
					&domain.TradeReservation{},
				); err != nil {
					return err
				}
				return tx.Exec(
					`CREATE INDEX IF NOT EXISTS idx_trade_reservations_listing_status ON trade_reservations (listing_id, status)`,
				).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&domain.TradeReservation{},
					&domain.TradeListing{},
					&domain.InventoryItem{},
				)
			},
		},
		{
			ID: "000003_create_community",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&domain.CommunityPost{},
					&domain.PostComment{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&domain.PostComment{},
					&domain.CommunityPost{},
				)
			},
		},
		{
			ID: "000004_create_performances_reviews",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&domain.Performance{},
					&domain.Review{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&domain.Review{},
					&domain.Performance{},
				)
			},
		},
		{
			ID: "000005_create_notifications",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&domain.Notification{}); err != nil {
					return err
				}
				return tx.Exec(
					`CREATE INDEX IF NOT EXISTS idx_notifications_recipient_created ON notifications (recipient_user_id, created_at DESC)`,
				).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&domain.Notification{})
			},
		},
	})

	return m.Migrate()
}
