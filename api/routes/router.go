package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/djmax1976/nuvana-backoffice/api/controllers"
	"github.com/djmax1976/nuvana-backoffice/api/middleware"
	"github.com/djmax1976/nuvana-backoffice/internal/apikeys"
	"github.com/djmax1976/nuvana-backoffice/internal/auth"
	"github.com/djmax1976/nuvana-backoffice/internal/cashiers"
	"github.com/djmax1976/nuvana-backoffice/internal/companies"
	"github.com/djmax1976/nuvana-backoffice/internal/employees"
	"github.com/djmax1976/nuvana-backoffice/internal/lotterybins"
	"github.com/djmax1976/nuvana-backoffice/internal/querymetrics"
	"github.com/djmax1976/nuvana-backoffice/internal/stores"
	syncsvc "github.com/djmax1976/nuvana-backoffice/internal/sync"
	"github.com/djmax1976/nuvana-backoffice/internal/transactions"
	"github.com/djmax1976/nuvana-backoffice/pkg/auth/session"
	"github.com/djmax1976/nuvana-backoffice/pkg/config"
	"github.com/djmax1976/nuvana-backoffice/pkg/db"
	"github.com/djmax1976/nuvana-backoffice/pkg/enums"
	"github.com/djmax1976/nuvana-backoffice/pkg/logger"
	pkgredis "github.com/djmax1976/nuvana-backoffice/pkg/redis"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *pkgredis.Client
	SessionChecker session.AccessSessionChecker
	QueryRecorder  *querymetrics.Recorder

	Auth         auth.Service
	Companies    companies.Service
	Stores       stores.Service
	LotteryBins  lotterybins.Service
	Employees    employees.Service
	Cashiers     cashiers.Service
	APIKeys      apikeys.Service
	Transactions transactions.Service
	Sync         syncsvc.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// interface conversions stay nil when no client is wired
	var idemStore pkgredis.IdempotencyStore
	if d.Redis != nil {
		idemStore = d.Redis
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/metrics/queries", controllers.QueryStats(d.QueryRecorder, logg))

	r.Route("/api/v1/auth", func(r chi.Router) {
		login := http.Handler(controllers.Login(d.Auth, logg))
		if d.Redis != nil {
			login = middleware.AuthRateLimit(loginPolicy, d.Redis, logg)(login)
		}
		r.Post("/login", login.ServeHTTP)
		r.Post("/refresh", controllers.Refresh(d.Auth, cfg.JWT, logg))
		r.Post("/logout", controllers.Logout(d.Auth, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionChecker, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
			Post("/v1/users", controllers.Register(d.Auth, logg))

		r.Route("/v1/companies", func(r chi.Router) {
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
				Post("/", controllers.CompanyCreate(d.Companies, logg))
			r.Get("/me", controllers.CompanyProfile(d.Companies, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
				Put("/me", controllers.CompanyUpdate(d.Companies, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
				Delete("/me", controllers.CompanyDeactivate(d.Companies, logg))
		})

		r.Route("/v1/stores", func(r chi.Router) {
			r.Get("/", controllers.StoreList(d.Stores, logg))
			r.With(middleware.RequireMutatingRole(logg)).Post("/", controllers.StoreCreate(d.Stores, logg))

			r.Route("/{storeId}", func(r chi.Router) {
				r.Get("/", controllers.StoreGet(d.Stores, logg))
				r.With(middleware.RequireMutatingRole(logg)).Put("/", controllers.StoreUpdate(d.Stores, logg))
				r.With(middleware.RequireMutatingRole(logg)).Delete("/", controllers.StoreDeactivate(d.Stores, logg))

				r.Route("/lottery/bins/count", func(r chi.Router) {
					r.Get("/", controllers.BinCountStatus(d.LotteryBins, logg))
					r.With(middleware.RequireMutatingRole(logg)).Put("/", controllers.BinCountUpdate(d.LotteryBins, logg))
					r.Post("/validate", controllers.BinCountValidate(d.LotteryBins, logg))
				})

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", controllers.EmployeeList(d.Employees, logg))
					r.With(middleware.RequireMutatingRole(logg)).Post("/", controllers.EmployeeCreate(d.Employees, logg))
					r.Get("/{employeeId}", controllers.EmployeeGet(d.Employees, logg))
					r.With(middleware.RequireMutatingRole(logg)).Put("/{employeeId}", controllers.EmployeeUpdate(d.Employees, logg))
					r.With(middleware.RequireMutatingRole(logg)).Delete("/{employeeId}", controllers.EmployeeDelete(d.Employees, logg))
				})

				r.Route("/cashiers", func(r chi.Router) {
					r.Get("/", controllers.CashierList(d.Cashiers, logg))
					r.With(middleware.RequireMutatingRole(logg)).Post("/", controllers.CashierCreate(d.Cashiers, logg))
					r.Get("/{cashierId}", controllers.CashierGet(d.Cashiers, logg))
					r.With(middleware.RequireMutatingRole(logg)).Put("/{cashierId}", controllers.CashierUpdate(d.Cashiers, logg))
					r.With(middleware.RequireMutatingRole(logg)).Put("/{cashierId}/status", controllers.CashierSetStatus(d.Cashiers, logg))
				})

				r.Route("/api-keys", func(r chi.Router) {
					r.Get("/", controllers.APIKeyList(d.APIKeys, logg))
					r.With(middleware.RequireMutatingRole(logg)).Post("/", controllers.APIKeyCreate(d.APIKeys, logg))
					r.With(middleware.RequireMutatingRole(logg)).Post("/{keyId}/rotate", controllers.APIKeyRotate(d.APIKeys, logg))
					r.With(middleware.RequireMutatingRole(logg)).Post("/{keyId}/revoke", controllers.APIKeyRevoke(d.APIKeys, logg))
					r.With(middleware.RequireMutatingRole(logg)).Post("/{keyId}/suspend", controllers.APIKeySuspend(d.APIKeys, logg))
					r.With(middleware.RequireMutatingRole(logg)).Post("/{keyId}/resume", controllers.APIKeyResume(d.APIKeys, logg))
				})

				r.Route("/transactions", func(r chi.Router) {
					r.Get("/", controllers.TransactionList(d.Transactions, logg))
					r.Get("/{transactionId}", controllers.TransactionGet(d.Transactions, logg))
				})
			})
		})
	})

	pinPolicy := middleware.NewAuthRateLimitPolicy(
		"verify-pin",
		cfg.AuthRateLimit.PinWindow,
		cfg.AuthRateLimit.PinLimit,
		0,
	)

	r.Route("/api/terminal/v1", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(d.APIKeys, logg))

		r.Get("/sync/pull", controllers.SyncPull(d.Sync, logg))
		r.Post("/sync/push", controllers.SyncPush(d.Sync, logg))

		verifyPin := http.Handler(controllers.SyncVerifyPIN(d.Cashiers, logg))
		if d.Redis != nil {
			verifyPin = middleware.AuthRateLimit(pinPolicy, d.Redis, logg)(verifyPin)
		}
		r.Post("/cashiers/verify-pin", verifyPin.ServeHTTP)
	})

	return r
}
