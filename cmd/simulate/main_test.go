package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/playpulse/internal/adapters/http/collector"
	"github.com/okian/playpulse/internal/config"
)

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the simulate command and a local collector", t, func() {
		srv := httptest.NewServer(collector.NewServer().Handler(context.Background()))
		defer srv.Close()

		cfg := config.New(context.Background())
		cmd := newRootCmd(cfg)

		convey.Convey("Then the public collector is not the default target", func() {
			convey.So(cmd.Flags().Lookup("url").DefValue, convey.ShouldEqual, defaultLocalCollector)
		})

		convey.Convey("When it runs a few sessions", func() {
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"--url", srv.URL, "--sessions", "5", "--workers", "2", "--step", "0s", "--ping-interval", "1h"})
			err := cmd.ExecuteContext(context.Background())

			convey.Convey("Then it succeeds and prints a summary", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldContainSubstring, "sessions: 5 started")
				convey.So(out.String(), convey.ShouldContainSubstring, "(collector: 5)")
			})
		})

		convey.Convey("When the arguments are invalid", func() {
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs([]string{"--url", srv.URL, "--sessions", "0"})
			err := cmd.ExecuteContext(context.Background())

			convey.Convey("Then it fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
