// Package handlers is the request/response boundary: thin gin handlers
// over the pricing, settlement and ledger services.
package handlers

import (
	"katha-pos/internal/config"
	"katha-pos/internal/ledger"
	"katha-pos/internal/settlement"

	"gorm.io/gorm"
)

// Handler bundles the services behind the HTTP surface. Tests build one
// against an in-memory sqlite database.
type Handler struct {
	cfg        config.Config
	db         *gorm.DB
	settlement *settlement.Service
	ledger     *ledger.Service
}

func New(cfg config.Config, db *gorm.DB) *Handler {
	return &Handler{
		cfg:        cfg,
		db:         db,
		settlement: settlement.New(db),
		ledger:     ledger.New(db, cfg.Location()),
	}
}
