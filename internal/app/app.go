package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/telebot.v4"

	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/answer_handler"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/broadcast_handler"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/cancel_handler"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/chapter_handler"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/help_handler"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/history_handler"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/lesson_handler"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/quiz_handler"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/quizflow"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/review_handler"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/setmsg_handler"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/start_handler"
	"github.com/moosahu/chemistry-bot-sub002/internal/app/handlers/telegram/stats_handler"
	msgRepo "github.com/moosahu/chemistry-bot-sub002/internal/domain/messages/repository"
	msgService "github.com/moosahu/chemistry-bot-sub002/internal/domain/messages/service"
	questionsRepo "github.com/moosahu/chemistry-bot-sub002/internal/domain/questions/repository"
	questionsService "github.com/moosahu/chemistry-bot-sub002/internal/domain/questions/service"
	reportsRepo "github.com/moosahu/chemistry-bot-sub002/internal/domain/reports/repository"
	reportsService "github.com/moosahu/chemistry-bot-sub002/internal/domain/reports/service"
	sessionsRepo "github.com/moosahu/chemistry-bot-sub002/internal/domain/sessions/repository"
	sessionsService "github.com/moosahu/chemistry-bot-sub002/internal/domain/sessions/service"
	statsRepo "github.com/moosahu/chemistry-bot-sub002/internal/domain/stats/repository"
	statsService "github.com/moosahu/chemistry-bot-sub002/internal/domain/stats/service"
	usersRepo "github.com/moosahu/chemistry-bot-sub002/internal/domain/users/repository"
	usersService "github.com/moosahu/chemistry-bot-sub002/internal/domain/users/service"
	"github.com/moosahu/chemistry-bot-sub002/internal/infra/config"
	"github.com/moosahu/chemistry-bot-sub002/internal/infra/middleware"
	"github.com/moosahu/chemistry-bot-sub002/internal/quizstate"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage"
	"github.com/moosahu/chemistry-bot-sub002/internal/storage/memory"
)

// stores — шесть интерфейсов хранилища, из которых собираются сервисы.
// Для postgres каждый реализован своим репозиторием, для memory все
// шесть закрывает один Store.
type stores struct {
	questions storage.QuestionStore
	sessions  storage.SessionStore
	reports   storage.ReportStore
	stats     storage.StatsStore
	users     storage.UserStore
	messages  storage.MessageStore
}

type Services struct {
	questionService *questionsService.QuestionService
	sessionService  *sessionsService.SessionService
	reportService   *reportsService.ReportService
	statsService    *statsService.StatsService
	userService     *usersService.UserService
	messageService  *msgService.MessageService
}

type App struct {
	config *config.Config
	log    *slog.Logger
	bot    *telebot.Bot
	db     *pgxpool.Pool // nil при storage: memory

	Services
	runs quizstate.Store
	flow *quizflow.Flow
}

func NewApp(configPath string, log *slog.Logger) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	app := &App{
		config: configImpl,
		log:    log,
		runs:   quizstate.NewMemoryStore(),
	}

	var st stores
	switch configImpl.Storage {
	case "memory":
		log.Warn("using in-memory storage, data will not survive restart")
		store := memory.NewStore()
		st = stores{
			questions: store,
			sessions:  store,
			reports:   store,
			stats:     store,
			users:     store,
			messages:  store,
		}
	default:
		ctx := context.Background()
		db, err := InitDatabase(ctx, configImpl)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		app.db = db
		st = stores{
			questions: questionsRepo.NewQuestionRepository(db),
			sessions:  sessionsRepo.NewSessionRepository(db),
			reports:   reportsRepo.NewReportRepository(db),
			stats:     statsRepo.NewStatsRepository(db),
			users:     usersRepo.NewUserRepository(db),
			messages:  msgRepo.NewMessageRepository(db),
		}
	}

	app.initServices(st)

	return app, nil
}

// Функция для инициализации сервисов поверх выбранного хранилища
func (app *App) initServices(st stores) {
	app.questionService = questionsService.NewQuestionService(st.questions, app.log)
	app.sessionService = sessionsService.NewSessionService(st.sessions, st.questions, app.log)
	app.reportService = reportsService.NewReportService(st.sessions, st.reports)
	app.statsService = statsService.NewStatsService(st.stats)
	app.userService = usersService.NewUserService(st.users)
	app.messageService = msgService.NewMessageService(st.messages)

	app.flow = quizflow.NewFlow(app.questionService, app.sessionService, app.reportService, app.runs, app.log)
}

// ListenAndServeTelegram запускает Telegram бота и блокируется до остановки.
func (app *App) ListenAndServeTelegram() error {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}
	app.bot = bot

	app.bot.Use(middleware.Recover(app.log))
	if app.config.Debug {
		app.bot.Use(middleware.Logger(app.log))
	}

	app.bootstrapHandlersTelegram()

	app.log.Info("bot started", "storage", app.config.Storage)
	app.bot.Start()

	return nil
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	defaultQuestions := app.config.Quiz.QuestionsPerQuiz

	app.bot.Handle("/start", start_handler.NewStartHandler(app.userService, app.messageService, app.log).GetHandlerFunc())
	app.bot.Handle("/help", help_handler.NewHelpHandler(app.messageService, app.log).GetHandlerFunc())

	app.bot.Handle("/quiz", quiz_handler.NewQuizHandler(app.flow, app.messageService, defaultQuestions, app.log).GetHandlerFunc())
	app.bot.Handle("/chapter", chapter_handler.NewChapterHandler(app.flow, app.questionService, defaultQuestions, app.log).GetHandlerFunc())
	app.bot.Handle("/lesson", lesson_handler.NewLessonHandler(app.flow, app.questionService, defaultQuestions, app.log).GetHandlerFunc())
	app.bot.Handle("/review", review_handler.NewReviewHandler(app.flow, app.reportService, defaultQuestions, app.log).GetHandlerFunc())
	app.bot.Handle("/cancel", cancel_handler.NewCancelHandler(app.flow, app.log).GetHandlerFunc())
	app.bot.Handle("/history", history_handler.NewHistoryHandler(app.reportService, app.config.Quiz.HistoryLimit, app.log).GetHandlerFunc())

	// Ответы на вопросы приходят callback-кнопками
	app.bot.Handle(&telebot.InlineButton{Unique: quizflow.AnswerUnique},
		answer_handler.NewAnswerHandler(app.flow, app.log).GetHandlerFunc())

	// Админские команды
	app.bot.Handle("/stats", stats_handler.NewStatsHandler(app.statsService, app.config, app.log).GetHandlerFunc())
	app.bot.Handle("/broadcast", broadcast_handler.NewBroadcastHandler(app.bot, app.userService, app.config, app.log).GetHandlerFunc())
	app.bot.Handle("/setmsg", setmsg_handler.NewSetMsgHandler(app.messageService, app.config, app.log).GetHandlerFunc())
}

// Close освобождает ресурсы приложения.
func (app *App) Close() {
	if app.bot != nil {
		app.bot.Stop()
	}
	if app.db != nil {
		app.db.Close()
	}
}
