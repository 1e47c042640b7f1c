package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

// CronScheduler ежедневные задания по московскому времени
type CronScheduler struct {
	mu   sync.Mutex
	cron *cron.Cron
	jobs map[int64][]cron.EntryID
}

// NewCronScheduler создаёт планировщик, задания запускаются после Start
func NewCronScheduler() *CronScheduler {
	return &CronScheduler{
		cron: cron.New(cron.WithLocation(entity.Moscow)),
		jobs: make(map[int64][]cron.EntryID),
	}
}

// Start запускает планировщик в фоне
func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения запущенных заданий
func (s *CronScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// ScheduleDaily регистрирует job на каждое время из times (ЧЧ:ММ).
// При ошибке уже добавленные задания снимаются.
func (s *CronScheduler) ScheduleDaily(chatID int64, times []string, job func()) error {
	specs := make([]string, 0, len(times))
	for _, t := range times {
		spec, err := dailySpec(t)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var added []cron.EntryID
	for _, spec := range specs {
		id, err := s.cron.AddFunc(spec, job)
		if err != nil {
			for _, a := range added {
				s.cron.Remove(a)
			}
			return fmt.Errorf("add job %q: %w", spec, err)
		}
		added = append(added, id)
	}
	s.jobs[chatID] = append(s.jobs[chatID], added...)
	return nil
}

// Unschedule снимает все задания чата
func (s *CronScheduler) Unschedule(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.jobs[chatID] {
		s.cron.Remove(id)
	}
	delete(s.jobs, chatID)
}

// Jobs возвращает число заданий чата
func (s *CronScheduler) Jobs(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs[chatID])
}

// dailySpec переводит ЧЧ:ММ в cron-выражение "М Ч * * *"
func dailySpec(clock string) (string, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid reminder time %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid reminder hour in %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid reminder minute in %q", clock)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

var _ port.Scheduler = (*CronScheduler)(nil)
