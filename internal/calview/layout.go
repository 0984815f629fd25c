package calview

import (
	"time"

	"github.com/starford/dagaz/internal/models"
)

// Position is an event's render geometry on the day's time grid: a vertical
// offset and height as percentages of the working-hours span.
type Position struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// EventPosition maps an event's clock times onto the [0,100] scale across
// the working-hours bound. Top is clamped at 0 and Height at 1 so that
// zero-duration or off-range events stay visible as a sliver; the clamp
// deliberately masks out-of-bounds events rather than rejecting them.
func EventPosition(ev models.Event, hours WorkingHours) Position {
	span := float64(hours.End - hours.Start)
	startHour := fractionalHour(ev.StartTime)
	endHour := fractionalHour(ev.EndTime)

	top := (startHour - float64(hours.Start)) / span * 100
	height := (endHour - startHour) / span * 100

	if top < 0 {
		top = 0
	}
	if height < 1 {
		height = 1
	}
	return Position{Top: top, Height: height}
}

func fractionalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}
