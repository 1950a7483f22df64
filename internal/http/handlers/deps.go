package handlers

import (
	"stockledger/internal/config"
	"stockledger/internal/repos"
	"stockledger/internal/services"
	"stockledger/internal/store"
)

type Deps struct {
	DashboardHandler *DashboardHandler
	StockHandler     *StockHandler
	SalesHandler     *SalesHandler
	BuyersHandler    *BuyersHandler
	ExportHandler    *ExportHandler
}

func NewDeps(kv *store.KV, cfg config.Config, auth *services.AuthService) *Deps {
	stockRepo := repos.NewStockRepo(kv)
	saleRepo := repos.NewSaleRepo(kv)
	buyerRepo := repos.NewBuyerRepo(kv)

	ledger := services.NewLedgerService(stockRepo, saleRepo, buyerRepo)
	reports := services.NewReportService(stockRepo, saleRepo, buyerRepo)

	return &Deps{
		DashboardHandler: &DashboardHandler{Reports: reports},
		StockHandler:     &StockHandler{Ledger: ledger},
		SalesHandler:     &SalesHandler{Ledger: ledger},
		BuyersHandler:    &BuyersHandler{Ledger: ledger},
		ExportHandler:    &ExportHandler{Reports: reports},
	}
}
