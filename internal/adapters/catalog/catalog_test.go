package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/okian/toolboard/internal/adapters/catalog"
	"github.com/okian/toolboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const videoYAML = `
tools:
  - id: synthesia
    name: Synthesia
    category: Video
    pricing: "$29/month"
    badges: [Enterprise Ready]
    pros: [AI avatars, 120+ languages]
    cons: [Pricey]
    enterprise: true
  - id: tool-a
    name: Tool A
    category: Video
    pricing: Free plan, then $15/month
    promo: true
    editorNote: Great for short clips
`

const writingJSON = `[
  {"id": "jasper", "name": "Jasper", "category": "Writing", "pricing": "$49/month", "pros": ["Brand voice"]}
]`

func TestFileSource(t *testing.T) {
	ctx := context.Background()

	Convey("Given catalog files in several formats", t, func() {
		fsys := fstest.MapFS{
			"catalog/b-video.yaml":     {Data: []byte(videoYAML)},
			"catalog/a-writing.json":   {Data: []byte(writingJSON)},
			"catalog/nested/empty.yml": {Data: []byte("")},
			"catalog/notes.txt":        {Data: []byte("ignored")},
		}

		Convey("When loading with a recursive pattern", func() {
			tools, err := catalog.NewFileSource("catalog/**/*.{yaml,yml,json}", catalog.WithFS(fsys)).Tools(ctx)

			Convey("Then records should follow sorted file order then in-file order", func() {
				So(err, ShouldBeNil)
				So(len(tools), ShouldEqual, 3)
				So(tools[0].ID, ShouldEqual, "jasper")
				So(tools[1].ID, ShouldEqual, "synthesia")
				So(tools[2].ID, ShouldEqual, "tool-a")
			})

			Convey("Then every field should be decoded", func() {
				So(tools[1].Enterprise, ShouldBeTrue)
				So(tools[1].Badges, ShouldResemble, []string{"Enterprise Ready"})
				So(tools[1].Pros, ShouldResemble, []string{"AI avatars", "120+ languages"})
				So(tools[2].Promo, ShouldBeTrue)
				So(tools[2].EditorNote, ShouldEqual, "Great for short clips")
				So(tools[2].HasFreeTier(), ShouldBeTrue)
				So(tools[0].Pricing, ShouldEqual, "$49/month")
			})
		})

		Convey("When nothing matches", func() {
			_, err := catalog.NewFileSource("missing/*.yaml", catalog.WithFS(fsys)).Tools(ctx)

			Convey("Then it should report no files", func() {
				So(errors.Is(err, catalog.ErrNoFiles), ShouldBeTrue)
			})
		})
	})

	Convey("Given an id repeated across files", t, func() {
		fsys := fstest.MapFS{
			"one.yaml": {Data: []byte("- id: dup\n  category: Video\n")},
			"two.yaml": {Data: []byte("- id: dup\n  category: Writing\n")},
		}

		_, err := catalog.NewFileSource("*.yaml", catalog.WithFS(fsys)).Tools(ctx)

		Convey("Then loading should fail naming both files", func() {
			So(errors.Is(err, catalog.ErrDuplicateID), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "one.yaml")
			So(err.Error(), ShouldContainSubstring, "two.yaml")
		})
	})

	Convey("Given a record without an id", t, func() {
		fsys := fstest.MapFS{"tools.yaml": {Data: []byte("- name: Nameless\n  category: Video\n")}}

		_, err := catalog.NewFileSource("tools.yaml", catalog.WithFS(fsys)).Tools(ctx)

		Convey("Then loading should fail", func() {
			So(errors.Is(err, catalog.ErrMissingID), ShouldBeTrue)
		})
	})

	Convey("Given a file that is neither a list nor a mapping", t, func() {
		fsys := fstest.MapFS{"tools.yaml": {Data: []byte("just a string")}}

		_, err := catalog.NewFileSource("tools.yaml", catalog.WithFS(fsys)).Tools(ctx)

		Convey("Then loading should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a catalog file on disk", t, func() {
		dir := t.TempDir()
		So(os.MkdirAll(filepath.Join(dir, "catalog"), 0o755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, "catalog", "video.yaml"), []byte(videoYAML), 0o644), ShouldBeNil)

		tools, err := catalog.NewFileSource(filepath.Join(dir, "catalog", "*.yaml")).Tools(ctx)

		Convey("Then the pattern base should be resolved on the local filesystem", func() {
			So(err, ShouldBeNil)
			So(len(tools), ShouldEqual, 2)
		})
	})
}

func TestStatic(t *testing.T) {
	Convey("Given a static catalog", t, func() {
		src := catalog.Static{{ID: "a", Category: "Video"}, {ID: "b", Category: "Video"}}

		Convey("When reading it", func() {
			tools, err := src.Tools(context.Background())
			So(err, ShouldBeNil)

			Convey("Then callers should get an independent copy", func() {
				tools[0].ID = "changed"
				So(src[0].ID, ShouldEqual, "a")
			})
		})

		Convey("When it holds duplicate ids", func() {
			_, err := catalog.Static([]model.ToolRecord{{ID: "a"}, {ID: "a"}}).Tools(context.Background())

			Convey("Then reading should fail", func() {
				So(errors.Is(err, catalog.ErrDuplicateID), ShouldBeTrue)
			})
		})
	})
}
