package feed

import (
	"time"

	"github.com/awaikar-syr/departby/internal/countdown"
	"github.com/awaikar-syr/departby/internal/models"
	"github.com/awaikar-syr/departby/internal/pipeline"
)

// CountdownRetargeter returns an OnUpdate callback that points the
// countdown engine at the hero prediction's depart-by instant. An empty
// result set, or a hero without a parseable deadline, clears the target.
func CountdownRetargeter(engine *countdown.Engine) func([]models.Prediction) {
	return func(preds []models.Prediction) {
		hero, ok := pipeline.SelectHero(preds)
		if !ok || hero.DepartByTime == nil {
			engine.SetTarget(nil)
			return
		}
		target, err := time.Parse(time.RFC3339, *hero.DepartByTime)
		if err != nil {
			engine.SetTarget(nil)
			return
		}
		engine.SetTarget(&target)
	}
}
