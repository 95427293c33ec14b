package postgres

import (
	"fmt"

	"dispatch/internal/adapters/out/postgres/accountrepo"
	"dispatch/internal/adapters/out/postgres/chatrepo"
	"dispatch/internal/adapters/out/postgres/ledgerrepo"
	"dispatch/internal/adapters/out/postgres/offerrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/storerepo"

	"gorm.io/gorm"
)

// Models lists every table owned or read by the service, in dependency order.
func Models() []any {
	return []any{
		&storerepo.StoreDTO{},
		&accountrepo.AccountDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.StatusChangeDTO{},
		&ledgerrepo.EntryDTO{},
		&offerrepo.OfferDTO{},
		&chatrepo.MessageDTO{},
	}
}

// constraints are the rules AutoMigrate cannot express. Each statement is idempotent.
var constraints = []string{
	// At most one courier earning per order.
	fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s
		ON transactions (reference_id) WHERE kind = 'order_earning'`, ledgerrepo.EarningIndex),

	// A courier is bound exactly in preparing, delivering and completed.
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_orders_shipper_status') THEN
			ALTER TABLE orders ADD CONSTRAINT chk_orders_shipper_status CHECK (
				(status IN ('preparing', 'delivering', 'completed')) = (shipper_id IS NOT NULL)
			);
		END IF;
	END $$`,

	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_orders_status') THEN
			ALTER TABLE orders ADD CONSTRAINT chk_orders_status CHECK (
				status IN ('pending', 'confirmed', 'preparing', 'delivering', 'completed', 'cancelled')
			);
		END IF;
	END $$`,
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply constraint: %w", err)
		}
	}
	return nil
}
