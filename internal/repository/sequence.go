package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// nextRequestNumber produces the next sequential display number for a collection,
// e.g. PR-20260828-00001. An advisory lock on the day prefix prevents concurrent
// writers from drawing the same number.
func nextRequestNumber(db *gorm.DB, table, prefix string) (string, error) {
	full := prefix + "-" + time.Now().Format("20060102") + "-"

	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", full)

	var count int64
	if err := db.Table(table).Where("request_number LIKE ?", full+"%").Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", full, count+1), nil
}
