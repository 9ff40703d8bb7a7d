package models

import (
	"log"

	"bitbucket.org/mmdatafocus/retail_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Order{}, &OrderItem{},
		&ProfitRecord{},
		&SettlementRequest{},
		&SettlementInvoice{}, &SettlementInvoiceOrder{}, &SettlementNumberSeries{},
		&Expense{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
