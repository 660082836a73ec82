package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/candidates/internal/app"
	"github.com/okian/candidates/internal/domain/candidate"
	"github.com/okian/candidates/pkg/logger"
	"github.com/okian/candidates/pkg/requesttime"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var july20 = time.Date(2025, 7, 20, 10, 30, 0, 0, time.UTC)

func newService() *service.Service {
	return service.New(service.WithClock(func() time.Time { return july20 }))
}

func request(first string, age int, birth string) candidate.CreateRequest {
	d, err := candidate.ParseDate(birth)
	if err != nil {
		panic(err)
	}
	return candidate.CreateRequest{FirstName: first, LastName: "Silva", Age: age, BirthDate: d}
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("Before Start it reports not started", func() {
			So(svc.GetStats()["started"], ShouldBeFalse)
			So(svc.GetStats()["driver"], ShouldEqual, "memory")
		})

		Convey("After Start it reports the stored count", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["totalCandidates"], ShouldEqual, 0)

			svc.Stop()
			svc.Stop()
			So(svc.GetStats()["started"], ShouldBeFalse)
		})
	})
}

func TestService_Today(t *testing.T) {
	Convey("Given a service in Sao Paulo time", t, func() {
		loc, err := time.LoadLocation("America/Sao_Paulo")
		So(err, ShouldBeNil)
		// 02:00 UTC on the 21st is still the 20th in Sao Paulo.
		at := time.Date(2025, 7, 21, 2, 0, 0, 0, time.UTC)
		svc := service.New(service.WithLocation(loc), service.WithClock(func() time.Time { return at }))

		Convey("Today uses the configured calendar", func() {
			So(candidate.FormatDate(svc.Today(context.Background())), ShouldEqual, "2025-07-20")
		})

		Convey("A request-scoped time wins over the clock", func() {
			ctx := requesttime.WithTime(context.Background(), time.Date(2030, 1, 1, 15, 0, 0, 0, time.UTC))
			So(candidate.FormatDate(svc.Today(ctx)), ShouldEqual, "2030-01-01")
		})
	})
}

func TestService_CreateCandidate(t *testing.T) {
	Convey("Given a running service on 2025-07-20", t, func() {
		svc := newService()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When creating a consistent candidate", func() {
			req := request("  Ana ", 34, "1990-05-15")
			req.LastName = " Silva "
			view, err := svc.CreateCandidate(ctx, req)

			Convey("Then it is stored normalized with derived fields", func() {
				So(err, ShouldBeNil)
				So(view.ID, ShouldEqual, int64(1))
				So(view.FirstName, ShouldEqual, "Ana")
				So(view.LastName, ShouldEqual, "Silva")
				So(view.Age, ShouldEqual, 35)
				So(candidate.FormatDate(view.NextBirthday), ShouldEqual, "2026-05-15")
				So(candidate.FormatDate(view.EstimatedEventDate), ShouldEqual, "2065-05-15")
				So(view.DaysToNextBirthday, ShouldEqual, int64(299))
				So(view.AgeInMonths, ShouldEqual, int64(422))
			})
		})

		Convey("When the declared age is off by more than one year", func() {
			_, err := svc.CreateCandidate(ctx, request("Ana", 50, "1990-05-15"))

			Convey("Then it fails with an age mismatch and stores nothing", func() {
				So(candidate.KindOf(err), ShouldEqual, candidate.KindAgeMismatch)
				So(errors.Is(err, service.ErrStorage), ShouldBeFalse)
				list, err := svc.ListCandidates(ctx)
				So(err, ShouldBeNil)
				So(list, ShouldBeEmpty)
			})
		})

		Convey("When the birth date is today", func() {
			_, err := svc.CreateCandidate(ctx, request("Ana", 0, "2025-07-20"))

			Convey("Then it is a validation failure and nothing is stored", func() {
				So(errors.Is(err, service.ErrValidation), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "birthDate")
				So(candidate.KindOf(err), ShouldEqual, candidate.KindUnknown)
				list, err := svc.ListCandidates(ctx)
				So(err, ShouldBeNil)
				So(list, ShouldBeEmpty)
			})
		})

		Convey("When the birth date is in the future", func() {
			_, err := svc.CreateCandidate(ctx, request("Ana", 0, "2025-07-21"))
			So(candidate.KindOf(err), ShouldEqual, candidate.KindInvalidDate)
		})

		Convey("When the age is out of range", func() {
			_, err := svc.CreateCandidate(ctx, request("Ana", 151, "1990-05-15"))
			So(candidate.KindOf(err), ShouldEqual, candidate.KindInvalidAge)
		})
	})
}

func TestService_ListAndMetrics(t *testing.T) {
	Convey("Given an empty running service", t, func() {
		svc := newService()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Listing returns an empty non-nil slice", func() {
			list, err := svc.ListCandidates(ctx)
			So(err, ShouldBeNil)
			So(list, ShouldNotBeNil)
			So(list, ShouldHaveLength, 0)
		})

		Convey("Metrics fail with no data", func() {
			_, err := svc.GetMetrics(ctx)
			So(errors.Is(err, candidate.ErrNoData), ShouldBeTrue)
		})

		Convey("With candidates aged 25, 30 and 35", func() {
			for _, r := range []candidate.CreateRequest{
				request("A", 25, "2000-01-01"),
				request("B", 30, "1995-01-01"),
				request("C", 35, "1990-01-01"),
			} {
				_, err := svc.CreateCandidate(ctx, r)
				So(err, ShouldBeNil)
			}

			Convey("Listing returns all of them with derived fields", func() {
				list, err := svc.ListCandidates(ctx)
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 3)
				for _, v := range list {
					So(v.ID, ShouldBeGreaterThan, 0)
					So(v.NextBirthday.After(candidate.Date(2025, 7, 20)), ShouldBeTrue)
				}
			})

			Convey("Metrics report mean 30 and population deviation", func() {
				snap, err := svc.GetMetrics(ctx)
				So(err, ShouldBeNil)
				So(snap.AverageAge, ShouldEqual, 30)
				So(snap.AgeStdDeviation, ShouldAlmostEqual, 4.0824829, 1e-6)
				So(svc.GetStats()["totalCandidates"], ShouldEqual, 3)
			})
		})
	})
}
