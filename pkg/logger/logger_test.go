package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When it is initialized", func() {
			So(Init(WithWriter(&bytes.Buffer{})), ShouldBeNil)

			Convey("Then Get and Named should return loggers", func() {
				So(Get(), ShouldNotBeNil)
				So(Named("test"), ShouldNotBeNil)
			})
		})

		Convey("When an unknown format is requested", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerFormats(t *testing.T) {
	Convey("Given a JSON logger", t, func() {
		var buf bytes.Buffer
		So(SetLevelString("info"), ShouldBeNil)
		l, err := New(WithFormat(FormatJSON), WithWriter(&buf), WithSource(false))
		So(err, ShouldBeNil)

		Convey("When logging with fields and a bound run id", func() {
			l.With(String("run", "r-1")).Info(context.Background(), "snapshot written",
				String("week", "2024-38"),
				Int("categories", 3),
				Bool("priorExisted", true),
				Error(errors.New("boom")),
			)

			Convey("Then every field should be in the entry", func() {
				var entry map[string]any
				So(json.Unmarshal(buf.Bytes(), &entry), ShouldBeNil)
				So(entry["msg"], ShouldEqual, "snapshot written")
				So(entry["run"], ShouldEqual, "r-1")
				So(entry["week"], ShouldEqual, "2024-38")
				So(entry["categories"], ShouldEqual, float64(3))
				So(entry["priorExisted"], ShouldEqual, true)
				So(entry["error"], ShouldEqual, "boom")
				So(entry, ShouldNotContainKey, "source")
			})
		})

		Convey("When logging below the level", func() {
			l.Debug(context.Background(), "hidden")

			Convey("Then nothing should be written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a text logger with source enabled", t, func() {
		var buf bytes.Buffer
		So(SetLevelString("debug"), ShouldBeNil)
		defer func() { _ = SetLevelString("info") }()
		l, err := New(WithWriter(&buf))
		So(err, ShouldBeNil)

		l.Named("batch").Debug(context.Background(), "cold start", String("week", "2024-38"))

		Convey("Then the line should carry the group and caller", func() {
			line := buf.String()
			So(line, ShouldContainSubstring, "cold start")
			So(line, ShouldContainSubstring, "batch.week=2024-38")
			So(strings.Contains(line, "logger_test.go"), ShouldBeTrue)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		So(SetLevelString("DEBUG"), ShouldBeNil)
		So(SetLevelString("warning"), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("loud"), ShouldNotBeNil)
	})
}
