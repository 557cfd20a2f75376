package main

import (
	"log"

	"moneta/internal/domain/account"
	"moneta/internal/domain/asset"
	"moneta/internal/domain/csvimport"
	"moneta/internal/domain/report"
	"moneta/internal/domain/tag"
	"moneta/internal/domain/transaction"
	"moneta/internal/infrastructure/coinmarketcap"
	"moneta/internal/infrastructure/postgres"
	httphandlers "moneta/internal/interfaces/http"
	"moneta/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	AccountHandler     *httphandlers.AccountHandler
	TagHandler         *httphandlers.TagHandler
	TransactionHandler *httphandlers.TransactionHandler
	InvestmentHandler  *httphandlers.InvestmentHandler
	ReportHandler      *httphandlers.ReportHandler
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(db)
	tagRepo := postgres.NewTagRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	assetRepo := postgres.NewAssetRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	// Initialize domain services
	accountService := account.NewService(accountRepo)
	tagService := tag.NewService(tagRepo)
	transactionService := transaction.NewService(transactionRepo, tagService)
	reportService := report.NewService(reportRepo)

	// Price sources, keyed by the api_source stored on each asset
	sources := asset.Sources{
		"coinmarketcap": coinmarketcap.NewClient(cfg.CoinMarketCap.APIKey),
	}
	assetService := asset.NewService(assetRepo, sources)

	importer := csvimport.NewImporter(transactionRepo)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        httphandlers.NewAuthHandler(cfg.Auth.PasswordHash, cfg.Auth.Password),
		AccountHandler:     httphandlers.NewAccountHandler(accountService, reportService),
		TagHandler:         httphandlers.NewTagHandler(tagService),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionService, importer),
		InvestmentHandler:  httphandlers.NewInvestmentHandler(assetService, reportService),
		ReportHandler:      httphandlers.NewReportHandler(reportService),
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
