package handler

import (
	"net/http"

	"github.com/boddenberg/banking-transactions-api/internal/infra/observability"
	"github.com/boddenberg/banking-transactions-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(
	txSvc *service.TransactionService,
	customerSvc *service.CustomerService,
	statsSvc *service.StatsService,
	fraudSvc *service.FraudService,
	systemSvc *service.SystemService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.MetricsMiddleware(metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/", rootHandler(systemSvc))
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler(systemSvc))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API ---
	r.Route("/api", func(r chi.Router) {

		// =============================================
		// 1. 💳 Transactions
		// =============================================
		r.Get("/transactions", listTransactionsHandler(txSvc, logger))
		r.Post("/transactions/search", searchTransactionsHandler(txSvc, logger))
		r.Get("/transactions/types", transactionTypesHandler(txSvc, logger))
		r.Get("/transactions/recent", recentTransactionsHandler(txSvc, logger))
		r.Get("/transactions/by-customer/{customerId}", transactionsByCustomerHandler(txSvc, logger))
		r.Get("/transactions/to-customer/{customerId}", transactionsToCustomerHandler(txSvc, logger))
		r.Get("/transactions/{transactionId}", getTransactionHandler(txSvc, logger))
		r.Delete("/transactions/{transactionId}", deleteTransactionHandler(txSvc, logger))

		// =============================================
		// 2. 👤 Customers
		// =============================================
		r.Get("/customers", listCustomersHandler(customerSvc, logger))
		r.Get("/customers/top", topCustomersHandler(customerSvc, logger))
		r.Get("/customers/{customerId}", getCustomerHandler(customerSvc, logger))

		// =============================================
		// 3. 📊 Statistics
		// =============================================
		r.Get("/stats/overview", statsOverviewHandler(statsSvc, logger))
		r.Get("/stats/amount-distribution", amountDistributionHandler(statsSvc, logger))
		r.Get("/stats/by-type", statsByTypeHandler(statsSvc, logger))
		r.Get("/stats/daily", dailyStatsHandler(statsSvc, logger))

		// =============================================
		// 4. 🚨 Fraud Detection
		// =============================================
		r.Get("/fraud/summary", fraudSummaryHandler(fraudSvc, logger))
		r.Get("/fraud/by-type", fraudByTypeHandler(fraudSvc, logger))
		r.Post("/fraud/predict", fraudPredictHandler(fraudSvc, logger))

		// =============================================
		// 5. ⚙️ System
		// =============================================
		r.Get("/system/health", systemHealthHandler(systemSvc, logger))
		r.Get("/system/metadata", systemMetadataHandler(systemSvc, logger))
		r.Get("/system/usage", systemUsageHandler(systemSvc, logger))

		// =============================================
		// 🛠 Dev Tools (testing helpers)
		// =============================================
		r.Post("/dev/reset-deletions", devResetDeletionsHandler(txSvc, logger))
	})

	return r
}
