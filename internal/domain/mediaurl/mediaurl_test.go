package mediaurl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/playpulse/internal/domain/mediaurl"
	"github.com/okian/playpulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseValidURLs(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		id      string
		vt      model.VideoType
		pingURL string
	}{
		{
			name:    "on-demand hls manifest",
			url:     "https://vod.api.video/vod/vi5oDagRVJBSKHxSiPux5rYD/hls/manifest.m3u8",
			id:      "vi5oDagRVJBSKHxSiPux5rYD",
			vt:      model.OnDemand,
			pingURL: "https://collector.api.video/vod",
		},
		{
			name:    "live host form",
			url:     "https://live.api.video/li400mYKSgQ6xs7taUeSaEKr.m3u8",
			id:      "li400mYKSgQ6xs7taUeSaEKr",
			vt:      model.Live,
			pingURL: "https://collector.api.video/live",
		},
		{
			name:    "live path segment",
			url:     "https://cdn.example.com/live/abc/index.m3u8",
			id:      "abc",
			vt:      model.Live,
			pingURL: "https://collector.api.video/live",
		},
		{
			name:    "id segment with extension",
			url:     "https://cdn.example.com/vod/v1.mp4/",
			id:      "v1",
			vt:      model.OnDemand,
			pingURL: "https://collector.api.video/vod",
		},
		{
			name:    "skipped segment after type",
			url:     "https://cdn.example.com/vod/^skip/abc/x",
			id:      "abc",
			vt:      model.OnDemand,
			pingURL: "https://collector.api.video/vod",
		},
		{
			name:    "last type segment wins",
			url:     "https://cdn.example.com/live/a/vod/b/c",
			id:      "b",
			vt:      model.OnDemand,
			pingURL: "https://collector.api.video/vod",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := mediaurl.Parse(tc.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.VideoID != tc.id {
				t.Errorf("expected id %q, got %q", tc.id, d.VideoID)
			}
			if d.VideoType != tc.vt {
				t.Errorf("expected type %v, got %v", tc.vt, d.VideoType)
			}
			if d.PingURL != tc.pingURL {
				t.Errorf("expected ping url %q, got %q", tc.pingURL, d.PingURL)
			}
			if !strings.HasSuffix(d.PingURL, "/"+d.VideoType.Token()) {
				t.Errorf("ping url %q does not end with the type token", d.PingURL)
			}
		})
	}
}

func TestParseMalformedURLs(t *testing.T) {
	Convey("Given malformed media urls", t, func() {
		cases := []string{
			"",
			"http://vod.api.video/vod/vi5oDagRVJBSKHxSiPux5rYD/hls/manifest.m3u8",
			"ftp://vod.api.video/vod/abc/x",
			"https://vod.api.video/vod",
			"https://cdn.example.com/dash/abc/x.m3u8",
			"https://cdn.example.com/vodka/abc/x.m3u8",
			"https://cdn.example.com/vod/abc^x/y",
			"https://cdn.example.com/VOD/abc/x.mp4",
			"https://LIVE.example.com/abc.m3u8",
		}

		for _, raw := range cases {
			Convey("When parsing "+raw, func() {
				_, err := mediaurl.Parse(raw)

				Convey("Then it should fail with a malformed input error", func() {
					So(errors.Is(err, mediaurl.ErrMalformedInput), ShouldBeTrue)
				})
			})
		}

		Convey("When the id is empty", func() {
			_, err := mediaurl.Parse("https://cdn.example.com/vod/.m3u8")

			Convey("Then it should report missing arguments", func() {
				So(errors.Is(err, mediaurl.ErrMalformedInput), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "missing arguments")
			})
		})
	})
}

func TestCollectorBase(t *testing.T) {
	Convey("Given a custom collector base", t, func() {
		d, err := mediaurl.Parse("https://cdn.example.com/live/abc/index.m3u8",
			mediaurl.WithCollectorBase("http://localhost:9080/"))

		Convey("Then the ping url should use it without a double slash", func() {
			So(err, ShouldBeNil)
			So(d.PingURL, ShouldEqual, "http://localhost:9080/live")
		})

		Convey("And an empty base should keep the default", func() {
			d, err := mediaurl.Parse("https://cdn.example.com/live/abc/index.m3u8", mediaurl.WithCollectorBase("  "))
			So(err, ShouldBeNil)
			So(d.PingURL, ShouldEqual, mediaurl.DefaultCollectorBase+"/live")
		})
	})
}

func TestNewDescriptor(t *testing.T) {
	Convey("Given explicit descriptor inputs", t, func() {
		Convey("When the token is known", func() {
			d, err := mediaurl.NewDescriptor("Live", "li1")

			Convey("Then the descriptor should be built", func() {
				So(err, ShouldBeNil)
				So(d.VideoType, ShouldEqual, model.Live)
				So(d.VideoID, ShouldEqual, "li1")
				So(d.PingURL, ShouldEqual, "https://collector.api.video/live")
			})
		})

		Convey("When the token is unknown", func() {
			_, err := mediaurl.NewDescriptor("dash", "v1")

			Convey("Then it should fail with an unknown video type error", func() {
				So(errors.Is(err, mediaurl.ErrUnknownVideoType), ShouldBeTrue)
			})
		})

		Convey("When the id is unusable", func() {
			_, errEmpty := mediaurl.NewDescriptor("vod", "")
			_, errDot := mediaurl.NewDescriptor("vod", "a.b")

			Convey("Then it should fail with a malformed input error", func() {
				So(errors.Is(errEmpty, mediaurl.ErrMalformedInput), ShouldBeTrue)
				So(errors.Is(errDot, mediaurl.ErrMalformedInput), ShouldBeTrue)
			})
		})
	})
}
