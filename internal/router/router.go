package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/category"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/credit"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/handler"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/ledger"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/middleware"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/subscription"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/transaction"
	"go.uber.org/zap"
)

// Services groups everything the API serves. Runner and DB may be nil.
type Services struct {
	Ledger       *ledger.Ledger
	Categories   *category.Registry
	Transactions *transaction.Engine
	Loans        *credit.Engine
	Debts        *credit.Engine
	Scheduler    *subscription.Scheduler
	Runner       *subscription.Runner
	DB           handler.Pinger
}

// SetupRouter builds the gin engine with every API route registered.
func SetupRouter(mode string, svc Services, logger *zap.Logger) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.Recovery(logger))

	r.GET("/health", handler.Health(svc.DB))

	api := r.Group("/api")

	accounts := handler.NewAccountHandler(svc.Ledger)
	ag := api.Group("/accounts")
	ag.GET("", accounts.List)
	ag.POST("", accounts.Create)
	ag.GET("/default", accounts.GetDefault)
	ag.GET("/summary", accounts.Summary)
	ag.GET("/:id", accounts.Get)
	ag.PUT("/:id", accounts.Update)
	ag.DELETE("/:id", accounts.Delete)
	ag.POST("/:id/default", accounts.SetDefault)

	categories := handler.NewCategoryHandler(svc.Categories)
	cg := api.Group("/categories")
	cg.GET("", categories.List)
	cg.POST("", categories.Create)
	cg.GET("/:id", categories.Get)
	cg.PUT("/:id", categories.Update)
	cg.DELETE("/:id", categories.Delete)

	transactions := handler.NewTransactionHandler(svc.Transactions)
	tg := api.Group("/transactions")
	tg.GET("", transactions.List)
	tg.POST("", transactions.Create)
	tg.GET("/details", transactions.Details)
	tg.GET("/this-month", transactions.ThisMonth)
	tg.GET("/summary", transactions.Summary)
	tg.GET("/expenses-by-category", transactions.ExpensesByCategory)
	tg.GET("/:id", transactions.Get)
	tg.PUT("/:id", transactions.Update)
	tg.DELETE("/:id", transactions.Delete)

	registerInstruments(api.Group("/loans"), handler.NewInstrumentHandler(svc.Loans))
	registerInstruments(api.Group("/debts"), handler.NewInstrumentHandler(svc.Debts))

	subs := handler.NewSubscriptionHandler(svc.Scheduler, svc.Runner)
	sg := api.Group("/subscriptions")
	sg.GET("", subs.List)
	sg.POST("", subs.Create)
	sg.GET("/details", subs.Details)
	sg.GET("/summary", subs.Summary)
	sg.GET("/due", subs.Due)
	sg.POST("/process", subs.ProcessDue)
	sg.GET("/:id", subs.Get)
	sg.PUT("/:id", subs.Update)
	sg.DELETE("/:id", subs.Delete)
	sg.POST("/:id/activate", subs.Activate)
	sg.POST("/:id/deactivate", subs.Deactivate)
	sg.POST("/:id/process", subs.Process)

	return r
}

func registerInstruments(g *gin.RouterGroup, h *handler.InstrumentHandler) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/details", h.Details)
	g.GET("/summary", h.Summary)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/payments", h.Payments)
	g.POST("/:id/payments", h.RecordPayment)
}
