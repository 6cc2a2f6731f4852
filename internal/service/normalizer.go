package service

import (
	"sort"
	"strings"
	"time"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
)

// Event is one validated presence event, ready for the matcher.
type Event struct {
	Action    model.CheckinAction
	At        time.Time
	Latitude  *float64
	Longitude *float64
}

// NormalizeBatch validates a raw sync batch and returns it sorted by event
// instant. The sort is stable, so events sharing a timestamp keep their
// submission order. Any invalid event rejects the whole batch.
func NormalizeBatch(batch []dto.CheckinData) ([]Event, error) {
	if len(batch) == 0 {
		return nil, errors.EmptyBatch
	}

	events := make([]Event, 0, len(batch))
	for _, c := range batch {
		action := model.CheckinAction(strings.ToUpper(strings.TrimSpace(c.Action)))
		if !action.Valid() {
			return nil, errors.InvalidAction
		}
		if c.CreatedAt.IsZero() {
			return nil, errors.InvalidTimestamp
		}
		events = append(events, Event{
			Action:    action,
			At:        c.CreatedAt.UTC(),
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})
	return events, nil
}
