package container

import (
	app "diary-bot/internal/application"
	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

// Deps внешние зависимости, выбранные в main по конфигурации
type Deps struct {
	Sessions  port.SessionRepository
	Entries   port.EntryRepository
	Norms     port.NormsRepository
	Photos    port.PhotoStorage
	Processor port.PhotoProcessor
	Renderer  port.ReportRenderer
	Scheduler port.Scheduler
}

// Settings параметры сервисов приложения
type Settings struct {
	Limits        entity.Limits
	ReportsDir    string
	StatsDays     int
	ReminderTimes []string
}

type Container struct {
	SessionService  *app.SessionService
	Dialog          *app.Dialog
	ReportService   *app.ReportService
	StatsService    *app.StatsService
	ReminderService *app.ReminderService
}

func New(deps Deps, settings Settings) *Container {
	sessionService := app.NewSessionService(deps.Sessions)
	entryFlow := app.NewEntryFlow(sessionService, deps.Entries, deps.Photos, deps.Processor, settings.Limits)
	normsFlow := app.NewNormsFlow(sessionService, deps.Norms, entity.DefaultNormLimits())

	return &Container{
		SessionService:  sessionService,
		Dialog:          app.NewDialog(sessionService, entryFlow, normsFlow),
		ReportService:   app.NewReportService(deps.Entries, deps.Norms, deps.Photos, deps.Renderer, settings.ReportsDir),
		StatsService:    app.NewStatsService(deps.Entries, settings.StatsDays),
		ReminderService: app.NewReminderService(deps.Scheduler, settings.ReminderTimes),
	}
}
