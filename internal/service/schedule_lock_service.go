package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go-doctor-scheduling/config"
	"go-doctor-scheduling/internal/observability/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Errors
// =============================================================================

// ErrLockNotAcquired is returned when another mutation of the same doctor's
// schedule holds the lock for longer than the configured wait.
var ErrLockNotAcquired = errors.New("schedule is being modified by another request, try again")

// releaseLockScript deletes the lock key only when it still holds our token,
// so an expired lock taken over by another instance is never released by us.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// extendLockScript pushes the TTL of the lock key forward while it still
// holds our token.
var extendLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('PEXPIRE', KEYS[1], ARGV[2])
	end
	return 0
`)

// =============================================================================
// Constants
// =============================================================================

const (
	RedisScheduleLockKeyPrefix = "schedule:lock:"

	// Timeout for the release call, independent of the request context
	lockReleaseTimeout = 2 * time.Second

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// =============================================================================
// Types
// =============================================================================

// ScheduleLockService serializes schedule mutations per doctor.
//
// Two layers:
// 1. In-process mutex per doctor, so requests on one instance queue locally
// 2. Redis SET NX PX lock, so instances behind a load balancer exclude each other
//
// Lock Ordering (to prevent deadlocks):
// 1. Local mutex FIRST
// 2. Then the Redis lock
// 3. Then the database transaction
//
// A nil Redis client degrades to the local mutex only.
type ScheduleLockService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	metrics     *metrics.SchedulingMetrics
	cfg         config.LockConfig

	// Per-doctor mutex for in-process exclusion
	doctorMu sync.Map // map[uuid.UUID]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// =============================================================================
// Constructor
// =============================================================================

// NewScheduleLockService creates a new ScheduleLockService.
// Starts background goroutine for mutex cleanup.
// Call Stop() during graceful shutdown.
func NewScheduleLockService(redisClient *redis.Client, log *logrus.Logger, m *metrics.SchedulingMetrics, cfg config.LockConfig) *ScheduleLockService {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 50 * time.Millisecond
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}

	svc := &ScheduleLockService{
		redisClient: redisClient,
		log:         log,
		metrics:     m,
		cfg:         cfg,
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// =============================================================================
// Lifecycle Methods
// =============================================================================

// Stop gracefully shuts down the service.
// Safe to call multiple times.
func (s *ScheduleLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("ScheduleLockService stopped")
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// WithDoctorLock runs fn while holding the schedule lock of doctorID.
// Returns ErrLockNotAcquired when the lock could not be taken within the
// configured wait; fn is not called in that case.
func (s *ScheduleLockService) WithDoctorLock(ctx context.Context, doctorID uuid.UUID, fn func() error) error {
	started := time.Now()
	deadline := started.Add(s.cfg.Wait)

	mt, err := s.lockLocal(ctx, doctorID, deadline)
	if err != nil {
		return err
	}
	defer mt.mu.Unlock()

	token, err := s.acquireRemote(ctx, doctorID, deadline)
	if err != nil {
		return err
	}
	s.metrics.ObserveLockWait(time.Since(started).Seconds())

	defer s.releaseRemote(doctorID, token)

	// fn may outlive cfg.TTL; keep the key alive until it returns.
	stopExtend := s.keepRemoteAlive(doctorID, token)
	defer stopExtend()

	return fn()
}

// =============================================================================
// Private Helper Methods
// =============================================================================

func (s *ScheduleLockService) lockLocal(ctx context.Context, doctorID uuid.UUID, deadline time.Time) (*mutexWithTimestamp, error) {
	for {
		mt := s.getDoctorMutex(doctorID)
		if s.lockIfCurrent(doctorID, mt) {
			return mt, nil
		}
		if err := s.waitRetry(ctx, deadline); err != nil {
			return nil, err
		}
	}
}

// lockIfCurrent locks mt only while it is still the mutex mapped for
// doctorID. Cleanup may drop the entry between lookup and lock; a caller
// holding the orphan would not exclude one that looks the doctor up again.
func (s *ScheduleLockService) lockIfCurrent(doctorID uuid.UUID, mt *mutexWithTimestamp) bool {
	if !mt.mu.TryLock() {
		return false
	}
	if current, ok := s.doctorMu.Load(doctorID); !ok || current != mt {
		mt.mu.Unlock()
		return false
	}
	mt.lastUsed.Store(time.Now().Unix())
	return true
}

func (s *ScheduleLockService) acquireRemote(ctx context.Context, doctorID uuid.UUID, deadline time.Time) (string, error) {
	if s.redisClient == nil {
		return "", nil
	}

	token, err := newLockToken()
	if err != nil {
		return "", err
	}
	key := RedisScheduleLockKeyPrefix + doctorID.String()

	for {
		ok, err := s.redisClient.SetNX(ctx, key, token, s.cfg.TTL).Result()
		if err != nil {
			s.log.Warnf("Failed to acquire schedule lock for doctor %s: %+v", doctorID, err)
			return "", fmt.Errorf("acquire schedule lock for doctor %s: %w", doctorID, err)
		}
		if ok {
			s.log.Debugf("Acquired schedule lock for doctor %s", doctorID)
			return token, nil
		}
		if err := s.waitRetry(ctx, deadline); err != nil {
			return "", err
		}
	}
}

func (s *ScheduleLockService) releaseRemote(doctorID uuid.UUID, token string) {
	if s.redisClient == nil || token == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
	defer cancel()

	key := RedisScheduleLockKeyPrefix + doctorID.String()
	if err := releaseLockScript.Run(ctx, s.redisClient, []string{key}, token).Err(); err != nil {
		// The TTL frees the key eventually.
		s.log.Warnf("Failed to release schedule lock for doctor %s: %+v", doctorID, err)
	}
}

// keepRemoteAlive extends the Redis lock every TTL/3 until the returned
// stop func is called. Stop blocks until the extender has exited, so the
// release that follows never races an extension.
func (s *ScheduleLockService) keepRemoteAlive(doctorID uuid.UUID, token string) func() {
	if s.redisClient == nil || token == "" {
		return func() {}
	}

	done := make(chan struct{})
	exited := make(chan struct{})
	key := RedisScheduleLockKeyPrefix + doctorID.String()
	interval := s.cfg.TTL / 3
	if interval <= 0 {
		interval = s.cfg.TTL
	}

	go func() {
		defer close(exited)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
				n, err := extendLockScript.Run(ctx, s.redisClient, []string{key}, token, s.cfg.TTL.Milliseconds()).Int64()
				cancel()
				if err != nil {
					s.log.Warnf("Failed to extend schedule lock for doctor %s: %+v", doctorID, err)
					continue
				}
				if n == 0 {
					s.log.Warnf("Schedule lock for doctor %s expired while held", doctorID)
					return
				}
			}
		}
	}()

	return func() {
		close(done)
		<-exited
	}
}

// waitRetry sleeps one retry interval, failing once the deadline passes or
// the context is done.
func (s *ScheduleLockService) waitRetry(ctx context.Context, deadline time.Time) error {
	if !time.Now().Add(s.cfg.RetryInterval).Before(deadline) {
		return ErrLockNotAcquired
	}

	timer := time.NewTimer(s.cfg.RetryInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// getDoctorMutex returns mutex for a specific doctor
func (s *ScheduleLockService) getDoctorMutex(doctorID uuid.UUID) *mutexWithTimestamp {
	mt, _ := s.doctorMu.LoadOrStore(doctorID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *ScheduleLockService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes removes mutexes unused since cutoff. TryLock guards
// against deleting a mutex someone holds; lastUsed is read under the lock.
func (s *ScheduleLockService) cleanupStaleMutexes(cutoff time.Time) int {
	cutoffTime := cutoff.Unix()
	var cleaned int

	s.doctorMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime && s.doctorMu.CompareAndDelete(key, mt) {
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}

func newLockToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
