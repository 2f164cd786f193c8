package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Edition{},
		&Sport{},
		&School{},
		&Team{},
		&Participant{},
		&SportEnrollment{},
		&SportQuota{},
		&GeneralQuota{},
		&Product{},
		&Purchase{},
	)
}
