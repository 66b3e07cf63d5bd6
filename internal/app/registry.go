package app

import (
	"database/sql"
	"fmt"

	"go-elms/internal/balance"
	"go-elms/internal/config"
	"go-elms/internal/department"
	"go-elms/internal/holiday"
	"go-elms/internal/leave"
	"go-elms/internal/leavetype"
	"go-elms/internal/messaging/kafka"
	"go-elms/internal/middleware"
	"go-elms/internal/notification"
	"go-elms/internal/rbac"
	"go-elms/internal/rbac/infra"
	"go-elms/internal/report"
	"go-elms/internal/shared/counter"
	"go-elms/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// modules holds the services shared by the API and the jobs runner.
type modules struct {
	leaveTypes    leavetype.Service
	holidays      holiday.Service
	departments   department.Service
	users         user.Service
	balances      balance.Service
	leaves        leave.Service
	notifications notification.Service
	reports       report.Service
}

func buildModules(cfg *config.Config, db *sql.DB, gormDB *gorm.DB, rdb *redis.Client) (*modules, error) {
	// --- Repositories ---
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	chain, err := leave.NewChain(cfg.Leave.Roles, cfg.Leave.AdminOverride)
	if err != nil {
		return nil, err
	}
	dayMode, err := leave.ParseDayCountMode(cfg.Leave.DayCountMode)
	if err != nil {
		return nil, fmt.Errorf("leave.day_count_mode: %w", err)
	}

	// --- Services ---
	leaveTypeService := leavetype.NewService(leaveTypeRepo, rdb)
	holidayService := holiday.NewService(holidayRepo)
	departmentService := department.NewService(db, departmentRepo, rdb)
	userService := user.NewService(userRepo)
	ledger := balance.NewLedger(balanceRepo, leaveTypeService)
	balanceService := balance.NewService(db, ledger, leaveTypeService)
	leaveService := leave.NewService(
		db,
		leaveRepo,
		ledger,
		leaveTypeService,
		holidayService,
		leave.NewApproverResolver(userService, departmentService),
		counterRepo,
		outboxRepo,
		chain,
		leave.Options{
			DayCountMode:      dayMode,
			EscalationEnabled: cfg.Leave.Escalation.Enabled,
			EscalateAfterDays: cfg.Leave.Escalation.AfterDays,
		},
	)

	return &modules{
		leaveTypes:    leaveTypeService,
		holidays:      holidayService,
		departments:   departmentService,
		users:         userService,
		balances:      balanceService,
		leaves:        leaveService,
		notifications: notification.NewService(notificationRepo),
		reports:       report.NewService(reportRepo),
	}, nil
}

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	m, err := buildModules(cfg, db, gormDB, rdb)
	if err != nil {
		return err
	}

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbac.NewRepository(gormDB), enforcer)

	// --- Handlers ---
	leaveTypeHandler := leavetype.NewHandler(m.leaveTypes)
	holidayHandler := holiday.NewHandler(m.holidays)
	departmentHandler := department.NewHandler(m.departments)
	userHandler := user.NewHandler(m.users)
	balanceHandler := balance.NewHandler(m.balances)
	leaveHandler := leave.NewHandler(m.leaves)
	notificationHandler := notification.NewHandler(m.notifications)
	reportHandler := report.NewHandler(m.reports)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(
		middleware.RateLimitByIP(rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst),
		middleware.AuthMiddleware(cfg.JWT.Secret),
		middleware.ContextLogger(zapLogger()),
	)
	{
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return rbacLoad(rbacService)
}
