package repository

import (
	"database/sql"

	"github.com/sysu-ecnc-dev/shift-assigner/backend/internal/config"
)

// Repository 负责排班记录的持久化，所有方法都按配置中的超时时间访问数据库
type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}
