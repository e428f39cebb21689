package eventbuffer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/playpulse/internal/domain/eventbuffer"
	"github.com/okian/playpulse/internal/domain/model"
)

func TestBufferRecord(t *testing.T) {
	Convey("Given a buffer on a mock clock", t, func() {
		mock := clock.NewMock()
		mock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
		b := eventbuffer.New(eventbuffer.WithClock(mock))
		loadedAt := b.LoadedAt()

		Convey("When play then ready are recorded after time passes", func() {
			mock.Add(5 * time.Second)
			b.Record(model.KindPlay, 0)
			b.Record(model.KindReady, 1.5)

			Convey("Then both events keep insertion order and loadedAt", func() {
				events := b.Snapshot()
				So(events, ShouldHaveLength, 2)
				So(events[0].Kind, ShouldEqual, model.KindPlay)
				So(events[1].Kind, ShouldEqual, model.KindReady)
				So(*events[1].At, ShouldEqual, 1.5)
				So(events[0].EmittedAt.Time.Equal(loadedAt), ShouldBeTrue)
				So(events[1].EmittedAt.Time.Equal(loadedAt), ShouldBeTrue)
			})

			Convey("And snapshots should not clear the buffer", func() {
				_ = b.Snapshot()
				So(b.Len(), ShouldEqual, 2)
			})

			Convey("And a snapshot should not alias the buffer", func() {
				events := b.Snapshot()
				events[0].Kind = model.KindEnd
				So(b.Snapshot()[0].Kind, ShouldEqual, model.KindPlay)
			})
		})
	})
}

func TestBufferRecordSeek(t *testing.T) {
	Convey("Given a buffer on a mock clock", t, func() {
		mock := clock.NewMock()
		b := eventbuffer.New(eventbuffer.WithClock(mock))

		Convey("When seeking forward", func() {
			mock.Add(time.Minute)
			So(b.RecordSeek(5, 10), ShouldBeNil)

			Convey("Then a seek_forward is stamped with the clock's now", func() {
				e := b.Snapshot()[0]
				So(e.Kind, ShouldEqual, model.KindSeekForward)
				So(*e.From, ShouldEqual, 5.0)
				So(*e.To, ShouldEqual, 10.0)
				So(e.At, ShouldBeNil)
				So(e.EmittedAt.Time.Equal(mock.Now()), ShouldBeTrue)
			})
		})

		Convey("When seeking backward or in place", func() {
			So(b.RecordSeek(10, 5), ShouldBeNil)
			So(b.RecordSeek(7, 7), ShouldBeNil)

			Convey("Then both are seek_backward", func() {
				events := b.Snapshot()
				So(events[0].Kind, ShouldEqual, model.KindSeekBackward)
				So(events[1].Kind, ShouldEqual, model.KindSeekBackward)
			})
		})

		Convey("When a bound is zero or negative", func() {
			errZero := b.RecordSeek(0, 10)
			errNeg := b.RecordSeek(4, -1)

			Convey("Then nothing is recorded", func() {
				So(errors.Is(errZero, eventbuffer.ErrInvalidSeek), ShouldBeTrue)
				So(errors.Is(errNeg, eventbuffer.ErrInvalidSeek), ShouldBeTrue)
				So(b.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestBufferLoadedAtOverride(t *testing.T) {
	at := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	b := eventbuffer.New(eventbuffer.WithLoadedAt(at))
	b.Record(model.KindPause, 3)
	if got := b.Snapshot()[0].EmittedAt.Time; !got.Equal(at) {
		t.Fatalf("expected %v, got %v", at, got)
	}
}

func TestBufferSnapshotEmpty(t *testing.T) {
	b := eventbuffer.New()
	events := b.Snapshot()
	if events == nil {
		t.Fatal("expected an empty, non-nil snapshot")
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}
