package models

import (
	"fmt"

	"github.com/Ambush3/SkateSpotApp/db"
)

func Init() error {
	if err := db.Instance.AutoMigrate(&Spot{}, &Review{}, &Location{}); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	return nil
}
