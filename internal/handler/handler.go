package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/scheduler"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	validate          *validator.Validate
	config            *config.Config
	repository        *repository.Repository
	translator        ut.Translator
	mailChannel       *amqp.Channel
	redisClient       *redis.Client
	parameters        *scheduler.Parameters
	adminPasswordHash []byte

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	// 管理员的密码只保存在配置中，启动时计算一次哈希
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		parameters: &scheduler.Parameters{
			MaxDemand:   cfg.Scheduler.MaxDemand,
			Parallelism: cfg.Scheduler.Parallelism,
		},
		adminPasswordHash: passwordHash,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/week-layouts/expand", h.ExpandWeekLayout)

		r.Route("/scheduling-runs", func(r chi.Router) {
			r.Post("/", h.CreateSchedulingRun)
			r.Get("/", h.GetAllSchedulingRuns)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.schedulingRun)
				r.Get("/", h.GetSchedulingRun)
				r.Delete("/", h.DeleteSchedulingRun)
				r.Get("/export", h.ExportSchedulingRun)
			})
		})
	})
}
