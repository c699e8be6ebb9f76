package cmd

import (
	"log/slog"

	"github.com/arvni/provider-panel-sub000/internal/adapters/out/postgres"
	"github.com/arvni/provider-panel-sub000/internal/core/application/usecases/commands"
	"github.com/arvni/provider-panel-sub000/internal/core/application/usecases/queries"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateAdvanceOrderStepCommandHandler() commands.AdvanceOrderStepCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceOrderStepCommandHandler(f)
}

func (c *CompositionRoot) CreateImportOrderCommandHandler() commands.ImportOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewImportOrderCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateGetOrderSummaryQueryHandler() queries.GetOrderSummaryQueryHandler {
	return queries.NewGetOrderSummaryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPlaceholderEntriesQueryHandler() queries.GetPlaceholderEntriesQueryHandler {
	return queries.NewGetPlaceholderEntriesQueryHandler(c.gormDB)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
