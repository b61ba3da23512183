// Package service implements the graph engine: friend, like and comment
// mutations and the reads that sit beside them.
package service

import (
	"kinship/internal/events"
	"kinship/internal/repository"

	"gorm.io/gorm"
)

// graph is embedded by every service that mutates the social graph.
type graph struct {
	uow    *events.UnitOfWork
	stores func(db *gorm.DB) repository.Stores
}

func newGraph(uow *events.UnitOfWork) graph {
	return graph{uow: uow, stores: repository.NewStores}
}

// read returns repositories over the non-transactional handle.
func (g graph) read() repository.Stores {
	return g.stores(g.uow.DB())
}
