package experiment

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/mtjsim/internal/dynamo"
)

// progress logs the position of a long run at debug level every tenth of
// its steps.
type progress struct {
	logger log.Logger
	total  int
	every  int
}

func newProgress(logger log.Logger, total int) *progress {
	every := total / 10
	if every < 1 {
		every = 1
	}
	return &progress{logger: logger, total: total, every: every}
}

func (p *progress) OnStep(step int, m []dynamo.Vector3, hoe dynamo.Vector3, t float64) {
	done := step + 1
	if done%p.every != 0 && done != p.total {
		return
	}
	level.Debug(p.logger).Log("msg", "progress", "step", done, "of", p.total, "t", t, "m0", m[0])
}
