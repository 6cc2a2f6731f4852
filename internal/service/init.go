package service

import (
	"sync"
	"time"

	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/token"
)

// Options carries the tunables services need, resolved from config at
// startup so the packages under test never touch the environment.
type Options struct {
	SessionWindow  time.Duration
	SyncRetries    int
	DefaultOnDuty  string
	DefaultOffDuty string
}

var (
	syncService      *SyncService
	statsService     *StatsService
	authService      *AuthService
	reconcileService *ReconcileService
	adminService     *AdminService
	initOnce         sync.Once
)

// Init wires the service singletons. Called once from each entrypoint.
func Init(store repository.Store, producer Notifier, tokens token.Store, opts Options) {
	initOnce.Do(func() {
		syncService = NewSyncService(store, producer, opts.SessionWindow, opts.SyncRetries)
		statsService = NewStatsService(store, opts.DefaultOnDuty, opts.DefaultOffDuty)
		authService = NewAuthService(store, tokens)
		reconcileService = NewReconcileService(store, opts.DefaultOnDuty, opts.DefaultOffDuty)
		adminService = NewAdminService(store, syncService)
	})
}

func Sync() *SyncService           { return syncService }
func Stats() *StatsService         { return statsService }
func Auth() *AuthService           { return authService }
func Reconcile() *ReconcileService { return reconcileService }
func Admin() *AdminService         { return adminService }
