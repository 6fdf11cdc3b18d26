package analysis

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/db"
	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/repository"
)

// BudgetAction defines behavior when token budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request.
	BudgetActionReject BudgetAction = "reject"
)

const (
	dailyKeyTTL   = 48 * time.Hour
	monthlyKeyTTL = 62 * 24 * time.Hour
)

// BudgetTracker is an in-memory token budget tracker with optional persistence.
// Check is in-memory only. Record updates memory first, then writes the
// counters behind to the store.
type BudgetTracker struct {
	mu             sync.Mutex
	dailyUsed      int64
	monthlyUsed    int64
	dailyLimit     int64
	monthlyLimit   int64
	action         BudgetAction
	prefix         string
	lastDayReset   time.Time
	lastMonthReset time.Time
	store          BudgetStore
	now            func() time.Time
	logger         *zap.Logger
}

// NewBudgetTracker creates a budget tracker. A zero limit is unlimited.
func NewBudgetTracker(dailyLimit, monthlyLimit int64, action BudgetAction, logger *zap.Logger) *BudgetTracker {
	b := &BudgetTracker{
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		action:       action,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger,
	}
	now := b.now()
	b.lastDayReset = truncateToDay(now)
	b.lastMonthReset = truncateToMonth(now)
	return b
}

// WithStore attaches a persistence store and loads current counters.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore, prefix string) *BudgetTracker {
	b.store = store
	b.prefix = prefix
	b.loadFromStore(ctx)
	return b
}

func (b *BudgetTracker) loadFromStore(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.dailyUsed = b.loadCounter(ctx, b.dailyKey(now))
	b.monthlyUsed = b.loadCounter(ctx, b.monthlyKey(now))

	b.logger.Info("Analysis budget loaded from store",
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("monthly_used", b.monthlyUsed),
	)
}

func (b *BudgetTracker) loadCounter(ctx context.Context, key string) int64 {
	raw, err := b.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			b.logger.Warn("Failed to load budget counter", zap.String("key", key), zap.Error(err))
		}
		return 0
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		b.logger.Warn("Corrupt budget counter", zap.String("key", key), zap.Error(err))
		return 0
	}
	return n
}

func (b *BudgetTracker) dailyKey(t time.Time) string {
	return repository.Key(b.prefix, "budget", "daily:"+t.Format(time.DateOnly))
}

func (b *BudgetTracker) monthlyKey(t time.Time) string {
	return repository.Key(b.prefix, "budget", "monthly:"+t.Format("2006-01"))
}

// Check verifies the budget allows a new request.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNeeded()

	dailyExceeded := b.dailyLimit > 0 && b.dailyUsed >= b.dailyLimit
	monthlyExceeded := b.monthlyLimit > 0 && b.monthlyUsed >= b.monthlyLimit

	if !dailyExceeded && !monthlyExceeded {
		return nil
	}

	if b.action == BudgetActionReject {
		return domain.ErrAnalysisQuotaExceeded
	}

	// action=warn: log but allow the request through
	b.logger.Warn("Analysis token budget exceeded",
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("daily_limit", b.dailyLimit),
		zap.Int64("monthly_used", b.monthlyUsed),
		zap.Int64("monthly_limit", b.monthlyLimit),
	)
	return nil
}

// Record registers consumed tokens after a request.
func (b *BudgetTracker) Record(tokens int64) {
	b.mu.Lock()
	b.resetIfNeeded()
	b.dailyUsed += tokens
	b.monthlyUsed += tokens
	store := b.store
	now := b.now()
	daily, monthly := b.dailyUsed, b.monthlyUsed
	b.mu.Unlock()

	if store == nil {
		return
	}

	// Background context so store writes don't inherit a cancelled request.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := store.SetWithTTL(ctx, b.dailyKey(now), []byte(strconv.FormatInt(daily, 10)), dailyKeyTTL); err != nil {
		b.logger.Warn("Failed to persist daily budget", zap.Error(err))
	}
	if err := store.SetWithTTL(ctx, b.monthlyKey(now), []byte(strconv.FormatInt(monthly, 10)), monthlyKeyTTL); err != nil {
		b.logger.Warn("Failed to persist monthly budget", zap.Error(err))
	}
}

// RemainingDaily returns tokens left in the daily budget (-1 if unlimited).
func (b *BudgetTracker) RemainingDaily() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNeeded()
	return remaining(b.dailyLimit, b.dailyUsed)
}

// RemainingMonthly returns tokens left in the monthly budget (-1 if unlimited).
func (b *BudgetTracker) RemainingMonthly() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNeeded()
	return remaining(b.monthlyLimit, b.monthlyUsed)
}

// DailyLimit returns the daily token cap (0 if unlimited).
func (b *BudgetTracker) DailyLimit() int64 { return b.dailyLimit }

// MonthlyLimit returns the monthly token cap (0 if unlimited).
func (b *BudgetTracker) MonthlyLimit() int64 { return b.monthlyLimit }

// DailyUsed returns tokens consumed today.
func (b *BudgetTracker) DailyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNeeded()
	return b.dailyUsed
}

// MonthlyUsed returns tokens consumed this month.
func (b *BudgetTracker) MonthlyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNeeded()
	return b.monthlyUsed
}

func remaining(limit, used int64) int64 {
	if limit == 0 {
		return -1 // unlimited
	}
	return max(limit-used, 0)
}

// resetIfNeeded zeroes counters when the day or month rolls over.
func (b *BudgetTracker) resetIfNeeded() {
	now := b.now()
	today := truncateToDay(now)
	thisMonth := truncateToMonth(now)

	if today.After(b.lastDayReset) {
		b.dailyUsed = 0
		b.lastDayReset = today
	}
	if thisMonth.After(b.lastMonthReset) {
		b.monthlyUsed = 0
		b.lastMonthReset = thisMonth
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
