package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/apexstats/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestObservation(t *testing.T) {
	convey.Convey("Given an Observation", t, func() {
		obs := model.Observation{
			Kills:         6,
			Damage:        1142,
			SquadPosition: 1,
			Character:     model.Wraith,
			Squad:         model.Trio,
			Notes:         "Last guy died outside ring :D",
			RecordedAt:    time.Date(2019, 4, 22, 22, 5, 2, 0, time.UTC),
		}

		convey.Convey("When it finished first", func() {
			convey.Convey("Then it should be a win and a top three", func() {
				convey.So(obs.IsWin(), convey.ShouldBeTrue)
				convey.So(obs.IsTopThree(), convey.ShouldBeTrue)
				convey.So(obs.IsLast(), convey.ShouldBeFalse)
				convey.So(obs.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When it finished third", func() {
			obs.SquadPosition = 3
			convey.So(obs.IsWin(), convey.ShouldBeFalse)
			convey.So(obs.IsTopThree(), convey.ShouldBeTrue)
		})

		convey.Convey("When it finished fourth", func() {
			obs.SquadPosition = 4
			convey.So(obs.IsTopThree(), convey.ShouldBeFalse)
		})

		convey.Convey("When it finished at the fixed last place threshold", func() {
			obs.SquadPosition = model.LastPlacePosition
			convey.So(obs.IsLast(), convey.ShouldBeTrue)
			obs.SquadPosition = model.LastPlacePosition - 1
			convey.So(obs.IsLast(), convey.ShouldBeFalse)
		})

		convey.Convey("When the position is zero", func() {
			obs.SquadPosition = 0
			err := obs.Validate()

			convey.Convey("Then validation should fail on squad_position", func() {
				var verr *model.ValidationError
				convey.So(errors.As(err, &verr), convey.ShouldBeTrue)
				convey.So(verr.Field, convey.ShouldEqual, "squad_position")
				convey.So(errors.Is(err, model.ErrInvalidField), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the character is not set", func() {
			obs.Character = 0
			convey.So(obs.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the timestamp is not set", func() {
			obs.RecordedAt = time.Time{}
			convey.So(obs.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the squad is Unknown", func() {
			obs.Squad = model.Unknown
			convey.So(obs.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestParseTimestamp(t *testing.T) {
	convey.Convey("Given timestamp input", t, func() {
		loc := time.FixedZone("test", 2*60*60)

		convey.Convey("When parsing RFC3339", func() {
			ts, err := model.ParseTimestamp("2019-04-22T22:05:02+00:00", loc)
			convey.So(err, convey.ShouldBeNil)
			convey.So(ts.Unix(), convey.ShouldEqual, 1555970702)
		})

		convey.Convey("When parsing a bare date", func() {
			ts, err := model.ParseTimestamp(" 2019-04-22 ", loc)
			convey.So(err, convey.ShouldBeNil)
			convey.So(ts.Equal(time.Date(2019, 4, 22, 0, 0, 0, 0, loc)), convey.ShouldBeTrue)
		})

		convey.Convey("When parsing garbage", func() {
			_, err := model.ParseTimestamp("yesterday", loc)
			convey.So(errors.Is(err, model.ErrInvalidTimestamp), convey.ShouldBeTrue)
			var perr *model.ParseError
			convey.So(errors.As(err, &perr), convey.ShouldBeTrue)
			convey.So(perr.Input, convey.ShouldEqual, "yesterday")
		})
	})
}
