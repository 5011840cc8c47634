// Package clock provides the league-local wall-clock view of time that slate
// day derivation depends on. NBA slates are Eastern-time calendar dates: a
// game tipping at 00:30 UTC still belongs to the previous Eastern day.
package clock

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultZoneIDs is the fallback chain tried when no explicit identifiers
// are configured. Some hosts ship the legacy alias without the IANA name or
// vice versa, so both are attempted before giving up.
var DefaultZoneIDs = []string{"US/Eastern", "America/New_York"}

// Clock converts between UTC instants and the league's local wall clock.
// Resolve it once at startup and inject it; zone lookup is not repeated.
type Clock struct {
	loc *time.Location
}

// Resolve loads the first identifier that the host's zone database knows.
// It is a startup-time hard failure when none resolves: slate days derived
// from a wrong or fixed offset would silently corrupt every downstream join.
func Resolve(ids ...string) (*Clock, error) {
	if len(ids) == 0 {
		ids = DefaultZoneIDs
	}

	for _, id := range ids {
		loc, err := time.LoadLocation(id)
		if err != nil {
			log.Debug().Str("zone", id).Err(err).Msg("Time zone identifier not available, trying next")
			continue
		}
		log.Info().Str("zone", id).Msg("League time zone resolved")
		return &Clock{loc: loc}, nil
	}

	return nil, fmt.Errorf(
		"could not resolve league time zone from candidates [%s]: ensure tzdata is installed",
		strings.Join(ids, ", "))
}

// MustResolve is Resolve for main(); it panics when no candidate loads.
func MustResolve(ids ...string) *Clock {
	c, err := Resolve(ids...)
	if err != nil {
		panic(err)
	}
	return c
}

// Location exposes the resolved zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// ToLocal converts a UTC instant to league-local wall-clock time.
func (c *Clock) ToLocal(utc time.Time) time.Time {
	return utc.In(c.loc)
}

// ToUTC interprets a wall-clock reading (year, month, day, hour...) as
// league-local time and returns the corresponding UTC instant.
func (c *Clock) ToUTC(local time.Time) time.Time {
	return time.Date(
		local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(),
		c.loc,
	).UTC()
}

// SlateDay returns the league-local calendar date the instant falls on,
// as midnight UTC of that date. Conversion goes through the zone database,
// so daylight-saving transitions are handled by rule, not by offset.
func (c *Clock) SlateDay(utc time.Time) time.Time {
	local := utc.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// DayWindow builds the half-open UTC window covering league-local midnight
// backDays days before now through midnight aheadDays days after. All three
// ingestion passes request their feeds with windows built here.
func (c *Clock) DayWindow(now time.Time, backDays, aheadDays int) (fromUTC, toUTC time.Time) {
	local := now.In(c.loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)

	fromUTC = midnight.AddDate(0, 0, -backDays).UTC()
	toUTC = midnight.AddDate(0, 0, aheadDays).UTC()
	return fromUTC, toUTC
}
