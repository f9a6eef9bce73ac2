package job

import (
	"github.com/vocabnest/vocabnest/logger"
	"github.com/vocabnest/vocabnest/util/common"
	"github.com/vocabnest/vocabnest/web/cache"
)

// CheckRedisJob watches the session store connection. Sessions cannot be
// created or destroyed while Redis is unreachable.
type CheckRedisJob struct {
	ping func() error

	failures int
}

func NewCheckRedisJob() *CheckRedisJob {
	return &CheckRedisJob{ping: cache.Ping}
}

func (j *CheckRedisJob) Run() {
	defer common.Recover("check redis job")
	if err := j.ping(); err != nil {
		j.failures++
		// only report if it's down 2 times in a row
		if j.failures == 2 {
			logger.Error("session store unreachable:", err)
		}
		return
	}
	if j.failures > 1 {
		logger.Info("session store reachable again")
	}
	j.failures = 0
}
