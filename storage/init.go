package storage

import (
	"github.com/PlxloYzb/kbk-attendance-server/storage/database"
	"github.com/PlxloYzb/kbk-attendance-server/storage/mq"
	"github.com/PlxloYzb/kbk-attendance-server/storage/redis"
)

func Init() error {
	if err := database.Init(); err != nil {
		return err
	}

	if err := redis.Init(); err != nil {
		return err
	}

	return mq.Init()
}
