// Package data holds the list and form services of the console entities
package data

import (
	"time"

	"hompulse/console/internal/event"
	"hompulse/console/internal/log"
)

// Options tunes the data services
type Options struct {
	PartnerPathPrefix string
	DirectoryTTL      time.Duration
}

// DataManager groups the entity services behind one handle
type DataManager struct {
	Partners  *PartnerManager
	Products  *ProductManager
	Users     *UserManager
	Inventory *InventoryManager
	Finance   *FinanceManager
	Orders    *OrderManager
	Directory *Directory
}

// NewDataManager creates a new DataManager instance
func NewDataManager(client Client, opts Options, events *event.EventManager, logger *log.Logger) *DataManager {
	dir := NewDirectory(client, opts.PartnerPathPrefix, opts.DirectoryTTL, logger)
	dir.Subscribe(events)

	return &DataManager{
		Partners:  NewPartnerManager(client, opts.PartnerPathPrefix, events, logger),
		Products:  NewProductManager(client, events, logger),
		Users:     NewUserManager(client, events, logger),
		Inventory: NewInventoryManager(client, logger),
		Finance:   NewFinanceManager(client, logger),
		Orders:    NewOrderManager(client, events, logger),
		Directory: dir,
	}
}
